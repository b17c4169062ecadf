// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_ruffoni01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ruffoni01. mineralisation law and velocity")

	var m Ruffoni
	if err := m.Init(100, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// the law grows monotonically from zero toward its asymptote
	chk.Scalar(tst, "law at zero age", 1e-17, m.lawContent(0), 0)
	if m.lawContent(1) >= m.lawContent(10) || m.lawContent(10) >= m.lawContent(1000) {
		tst.Errorf("mineralisation law must be monotone\n")
		return
	}

	// the velocity decays as the tissue saturates
	v1 := m.velocity(1)
	v20 := m.velocity(20)
	v30 := m.velocity(30)
	if v1 <= v20 || v20 <= v30 || v30 <= 0 {
		tst.Errorf("velocity must decay with content: %g %g %g\n", v1, v20, v30)
		return
	}

	// inverting the law recovers the prescribed rate
	t := 2.0
	chk.Scalar(tst, "velocity at law point", 1e-6, m.velocity(m.lawContent(t)), m.lawRate(t))
}

func Test_ruffoni02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ruffoni02. steady distribution balances turnover")

	var m Ruffoni
	if err := m.Init(200, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// at equilibrium the volume equals formation over resorption
	bv0 := m.BoneVolume()
	chk.Scalar(tst, "steady bone volume", 0.15, bv0, 2.4)

	res, err := m.Solve(2, 0.5)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "first save", 1e-17, res.T[0], 0)
	chk.Scalar(tst, "last save", 1e-12, res.T[len(res.T)-1], 2)
	if len(res.T) < 4 {
		tst.Errorf("too few saved states: %d\n", len(res.T))
		return
	}
	for k, bv := range res.BV {
		if math.Abs(bv-bv0) > 0.05*bv0 {
			tst.Errorf("bone volume drifted at t=%g: %g vs %g\n", res.T[k], bv, bv0)
			return
		}
	}
	for _, row := range res.Dist {
		for _, v := range row {
			if v < 0 {
				tst.Errorf("distribution must stay non-negative\n")
				return
			}
		}
	}
}

func Test_ruffoni03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ruffoni03. raised resorption loses bone volume")

	var m Ruffoni
	prms := m.GetPrms()
	if err := m.Init(100, prms); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}

	// double the resorption after the steady profile is built
	m.resorption *= 2
	res, err := m.Solve(3, 1)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	last := res.BV[len(res.BV)-1]
	if last >= res.BV[0] {
		tst.Errorf("bone volume must fall under doubled resorption: %g -> %g\n", res.BV[0], last)
		return
	}

	// the volume approaches the new balance from above
	target := m.formation * m.vol0 / m.resorption
	if last <= target-0.05 {
		tst.Errorf("volume fell below the new balance: %g vs %g\n", last, target)
		return
	}
}
