// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cmodiz/Bone-Models/loadcase"
)

func Test_pivonka01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pivonka01. steady state and regulation bounds")

	m := New("pivonka").(*Pivonka)
	if err := m.Init(nil, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}
	s, err := SteadyState(m)
	if err != nil {
		tst.Errorf("steady state failed: %v\n", err)
		return
	}
	if !s.Nonneg() {
		tst.Errorf("steady state has negative concentrations: %v\n", s)
		return
	}

	// regulation functions are activation/repression factors in (0,1)
	t := RefTime
	for name, v := range map[string]float64{
		"tgfb act OBu": m.tgfbActivationOBu(s.OCa, t),
		"tgfb rep OBp": m.tgfbRepressionOBp(s.OCa, t),
		"tgfb act OCa": m.tgfbActivationOCa(s.OCa, t),
		"pth act OB":   m.pthActivationOB(t),
		"pth rep OB":   m.pthRepressionOB(t),
		"rankl act":    m.ranklActivationOCp(s.OBp, s.OBa, t),
	} {
		if v <= 0 || v >= 1 {
			tst.Errorf("%s = %g out of (0,1)\n", name, v)
			return
		}
	}
}

func Test_pivonka02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pivonka02. segmented solve is continuous")

	lc := loadcase.RANKLInjection()
	m := New("pivonka")
	if err := m.Init(lc, nil); err != nil {
		tst.Errorf("init failed: %v\n", err)
		return
	}
	res, err := Solve(m, 0, 100, nil)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}

	// samples cover the whole horizon and time is monotone
	chk.Scalar(tst, "t begin", 1e-14, res.T[0], 0)
	chk.Scalar(tst, "t end", 1e-14, res.T[res.Len()-1], 100)
	for k := 1; k < res.Len(); k++ {
		if res.T[k] < res.T[k-1] {
			tst.Errorf("time is not monotone at sample %d\n", k)
			return
		}
	}

	// RANKL supply drives osteoclasts up inside the window
	ss := res.Y[2][0]
	up := 0.0
	for k := 0; k < res.Len(); k++ {
		if res.T[k] > 25 && res.T[k] < 80 && res.Y[2][k] > up {
			up = res.Y[2][k]
		}
	}
	if up <= ss {
		tst.Errorf("OCa did not respond to RANKL: max=%g ss=%g\n", up, ss)
		return
	}
	io.Pforan("OCa steady = %g, max under RANKL = %g\n", ss, up)
}
