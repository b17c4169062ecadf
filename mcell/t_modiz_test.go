// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cmodiz/Bone-Models/loadcase"
	"github.com/cmodiz/Bone-Models/mreceptor"
)

func modizCase() *loadcase.Case {
	return &loadcase.Case{Name: "disease window",
		Intervals: []loadcase.Interval{{T0: 20, T1: 80}}}
}

func Test_modiz01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modiz01. scenario selection and activation switch")

	m := New("modiz").(*Modiz)
	if err := m.SetScenario("hyperparathyroidism", CellularResponsiveness, CalibrateAll); err != nil {
		tst.Errorf("set scenario failed: %v\n", err)
		return
	}
	if err := m.Init(modizCase(), nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// outside the window the healthy activity drives the activation
	actH := m.PTHActivation(0)
	chk.Scalar(tst, "healthy activation", 1e-15, actH, 0.030259870370592704*m.healthy.Responsiveness)

	// inside the window the disease state takes over
	actD := m.PTHActivation(50)
	chk.Scalar(tst, "disease activation", 1e-15, actD, 0.030259870370592704*m.disease.Responsiveness)
	if actD <= 0 || actD == actH {
		tst.Errorf("disease activation must be positive and distinct: %g vs %g\n", actD, actH)
		return
	}

	// invalid configurations are rejected
	if err := m.SetScenario("hyperparathyroidism", "nonsense", CalibrateAll); err == nil {
		tst.Errorf("invalid model type must be rejected\n")
		return
	}
	if err := m.SetScenario("no-such-disease", CellularResponsiveness, CalibrateAll); err == nil {
		tst.Errorf("unknown scenario must be rejected\n")
		return
	}
}

func Test_modiz02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modiz02. healthy-only calibration reproduces the parent")

	m := New("modiz").(*Modiz)
	if err := m.SetScenario("osteoporosis", IntegratedActivity, CalibrateHealthyOnly); err != nil {
		tst.Errorf("set scenario failed: %v\n", err)
		return
	}
	if err := m.Init(modizCase(), nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// at the reference state the calibrated activation matches the
	// sigmoidal activation of the parent model exactly
	ref := m.calcPTHActivationOB(RefTime)
	chk.Scalar(tst, "aligned activation", 1e-14, m.PTHActivation(RefTime), ref)
}

func Test_modiz03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modiz03. calibration constant and elevation")

	// proportional data recovers the factor exactly
	receptor := []float64{1, 2, 3, 4}
	reference := []float64{2, 4, 6, 8}
	p, err := IdentifyCalibration(reference, receptor)
	if err != nil {
		tst.Errorf("calibration failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "proportional", 1e-15, p, 2)

	if _, err := IdentifyCalibration([]float64{1}, []float64{}); err == nil {
		tst.Errorf("mismatched lists must be rejected\n")
		return
	}

	// the scenario elevations reproduce the reference disease factors
	healthy := mreceptor.NewScenario("healthy")
	for name, want := range map[string]float64{
		"hyperparathyroidism":         3.8782894736842097,
		"osteoporosis":                0.8252796052631578,
		"postmenopausal-osteoporosis": 0.9,
		"hypercalcemia":               0.19098684210526315,
		"hypocalcemia":                7.3500657894736845,
		"glucocorticoid-osteoporosis": 1.0565131578947367,
	} {
		e := mreceptor.Elevation(mreceptor.NewScenario(name), healthy)
		chk.Scalar(tst, "elevation "+name, 1e-10, e, want)
	}
}

func Test_modiz04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modiz04. reference model with multiplicative elevation")

	m := New("reference-lemaire").(*ReferenceLemaire)
	m.Elevation = 3.8782894736842097
	if err := m.Init(modizCase(), nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	out := m.elevatedPTHConcentration(RefTime)
	in := m.elevatedPTHConcentration(50)
	chk.Scalar(tst, "elevated concentration", 1e-12, in, out*3.8782894736842097)
}
