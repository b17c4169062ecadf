// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cmodiz/Bone-Models/loadcase"
)

func Test_lereb01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lereb01. specific surface and turnover")

	m := New("lerebours").(*Lerebours)
	if err := m.Init(nil, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// no surface is available in fully dense or fully resorbed bone
	chk.Scalar(tst, "turnover at zero porosity", 1e-17, m.turnover(0), 0)
	chk.Scalar(tst, "turnover at full porosity", 1e-17, m.turnover(1), 0)

	// polynomial fit at half porosity
	chk.Scalar(tst, "surface at half porosity", 1e-12, m.specificSurface(0.5), 3.9625)

	// trabecular bone exposes more surface than dense cortical bone
	if m.turnover(0.5) <= m.turnover(0.05) {
		tst.Errorf("turnover must grow from dense toward trabecular porosity\n")
		return
	}
}

func Test_lereb02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lereb02. steady state pinned to the local turnover")

	m := New("lerebours").(*Lerebours)
	if err := m.Init(nil, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}
	s, err := SteadyState(m)
	if err != nil {
		tst.Errorf("steady state failed: %v\n", err)
		return
	}

	// active cells carry exactly the turnover sustained by the surface
	tau := m.turnover(0.05)
	chk.Scalar(tst, "OCa", 1e-15, s.OCa, tau/m.kres)
	chk.Scalar(tst, "OBa", 1e-15, s.OBa, tau/m.kform)
	chk.Scalar(tst, "volume closure", 1e-15, s.Pvas+s.Fbm, 1)

	if !s.Nonneg() || s.OBp <= 0 || s.OCp <= 0 {
		tst.Errorf("precursor pools must be positive: OBp=%g OCp=%g\n", s.OBp, s.OCp)
		return
	}
	if m.obu <= 0 || m.ocu <= 0 {
		tst.Errorf("uncommitted pools must be positive: OBu=%g OCu=%g\n", m.obu, m.ocu)
		return
	}
}

func Test_lereb03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lereb03. habitual load keeps the fixed point")

	m := New("lerebours").(*Lerebours)
	if err := m.Init(nil, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}
	res, err := Solve(m, 0, 100, nil)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	n := res.Len()
	chk.Scalar(tst, "final fbm", 1e-5, res.Y[5][n-1], 0.95)
	for k := 0; k < n; k++ {
		chk.Scalar(tst, "volume closure", 1e-8, res.Y[4][k]+res.Y[5][k], 1)
	}
}

func Test_lereb04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lereb04. disuse raises RANKL and resorbs bone")

	m := New("lerebours").(*Lerebours)
	if err := m.Init(loadcase.Disuse(0, 500, 0.5), nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}
	s, err := SteadyState(m)
	if err != nil {
		tst.Errorf("steady state failed: %v\n", err)
		return
	}

	// halving the habitual stress quarters the strain energy density
	if err := m.SetStage(0, 500); err != nil {
		tst.Errorf("set stage failed: %v\n", err)
		return
	}
	x, err := m.strainEffect(s.Pvas, s.Fbm, 250)
	if err != nil {
		tst.Errorf("strain effect failed: %v\n", err)
		return
	}
	if x >= 0 {
		tst.Errorf("disuse must give a negative strain effect: %g\n", x)
		return
	}
	if m.ranklMech <= 0 {
		tst.Errorf("disuse must produce extra RANKL: %g\n", m.ranklMech)
		return
	}

	// the net volume rate turns resorptive away from the fixed point
	res, err := Solve(m, 0, 500, s.Vec(m.Nstate()))
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	n := res.Len()
	if res.Y[5][n-1] >= res.Y[5][0] {
		tst.Errorf("bone must be lost under disuse: fbm %g -> %g\n", res.Y[5][0], res.Y[5][n-1])
		return
	}
}
