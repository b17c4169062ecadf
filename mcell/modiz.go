// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cmodiz/Bone-Models/loadcase"
	"github.com/cmodiz/Bone-Models/mreceptor"
)

// model types selecting which receptor activity constant drives the
// osteoblastic PTH response
const (
	CellularResponsiveness = "cellular-responsiveness"
	IntegratedActivity     = "integrated-activity"
)

// calibration types selecting how the activity constants were aligned
// with the original activation function
const (
	CalibrateAll         = "all"
	CalibrateHealthyOnly = "healthy-only"
)

// Modiz implements the model of Modiz et al.: the Lemaire population
// kinetics with the sigmoidal PTH activation replaced by receptor level
// activity constants from the pulsatile receptor model. During the active
// window of the load case the disease scenario drives the activation,
// outside it the healthy one.
type Modiz struct {
	Lemaire

	modelType string
	calType   string
	calR      float64 // calibration for cellular responsiveness
	calA      float64 // calibration for integrated activity

	healthy *mreceptor.Activity
	disease *mreceptor.Activity
}

func init() {
	allocators["modiz"] = func() Model { return new(Modiz) }
}

// Name returns the model name
func (o *Modiz) Name() string { return "modiz" }

// SetScenario selects the disease scenario, the model type and the
// calibration type, and runs the receptor model for the healthy and the
// disease states. Must be called before Init.
func (o *Modiz) SetScenario(disease, modelType, calType string) error {
	if modelType != CellularResponsiveness && modelType != IntegratedActivity {
		return chk.Err("modiz: unknown model type %q", modelType)
	}
	if calType != CalibrateAll && calType != CalibrateHealthyOnly {
		return chk.Err("modiz: unknown calibration type %q", calType)
	}
	o.modelType = modelType
	o.calType = calType
	hm, err := mreceptor.NewModel(mreceptor.NewScenario("healthy"))
	if err != nil {
		return err
	}
	if o.healthy, err = hm.Run(); err != nil {
		return err
	}
	scn := mreceptor.NewScenario(disease)
	if scn == nil {
		return chk.Err("modiz: unknown disease scenario %q", disease)
	}
	dm, err := mreceptor.NewModel(scn)
	if err != nil {
		return err
	}
	if o.disease, err = dm.Run(); err != nil {
		return err
	}
	o.calR = 0.030259870370592704
	o.calA = 0.0007172096391750288
	return nil
}

// Init initialises the model. SetScenario must have been called first.
func (o *Modiz) Init(lc *loadcase.Case, prms fun.Prms) error {
	if o.healthy == nil || o.disease == nil {
		return chk.Err("modiz: SetScenario must be called before Init")
	}
	o.pthActivation = o.receptorActivation
	if err := o.Lemaire.Init(lc, prms); err != nil {
		return err
	}
	if o.calType == CalibrateHealthyOnly {
		// align the healthy receptor activity with the sigmoidal
		// activation of the parent model at the reference state
		act := o.calcPTHActivationOB(RefTime)
		o.calR = act / o.healthy.Responsiveness
		o.calA = act / o.healthy.Integrated
	}
	return nil
}

// receptorActivation replaces the sigmoidal PTH activation with the
// calibrated receptor activity constant of the current state
func (o *Modiz) receptorActivation(t float64) float64 {
	act := o.healthy
	if o.lc.Active(t) {
		act = o.disease
	}
	if o.modelType == CellularResponsiveness {
		return o.calR * act.Responsiveness
	}
	return o.calA * act.Integrated
}

// ReferenceLemaire is the Lemaire model with the PTH concentration scaled
// by a multiplicative elevation during the active window of the load case.
// It serves as the comparison baseline for the receptor driven model.
type ReferenceLemaire struct {
	Lemaire
	Elevation float64
}

func init() {
	allocators["reference-lemaire"] = func() Model { return &ReferenceLemaire{Elevation: 1} }
}

// Name returns the model name
func (o *ReferenceLemaire) Name() string { return "reference-lemaire" }

// Init initialises the model
func (o *ReferenceLemaire) Init(lc *loadcase.Case, prms fun.Prms) error {
	o.pthConc = o.elevatedPTHConcentration
	return o.Lemaire.Init(lc, prms)
}

func (o *ReferenceLemaire) elevatedPTHConcentration(t float64) float64 {
	pth := o.calcPTHConcentration(t)
	if o.lc.Active(t) {
		pth *= o.Elevation
	}
	return pth
}

// IdentifyCalibration returns the least squares proportionality constant
// aligning the reference activations with the receptor activity constants
// over all states
func IdentifyCalibration(reference, receptor []float64) (float64, error) {
	if len(reference) != len(receptor) || len(reference) == 0 {
		return 0, chk.Err("modiz: calibration needs matching nonempty activation lists")
	}
	var num, den float64
	for i, m := range receptor {
		num += reference[i] * m
		den += m * m
	}
	return num / den, nil
}
