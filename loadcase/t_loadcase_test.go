// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadcase

import (
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func base() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "sig0", V: -30e6},
		&fun.Prm{N: "kres", V: 200},
	}
}

func Test_lcase01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lcase01. apply and injection windows")

	lc := PTHInjection()
	if err := lc.Validate(base()); err != nil {
		tst.Errorf("validate failed: %v\n", err)
		return
	}

	chk.Scalar(tst, "inj@10", 1e-17, lc.Injection("pth", 10), 0)
	chk.Scalar(tst, "inj@20", 1e-17, lc.Injection("pth", 20), 1e3)
	chk.Scalar(tst, "inj@50", 1e-17, lc.Injection("pth", 50), 1e3)
	chk.Scalar(tst, "inj@80", 1e-17, lc.Injection("pth", 80), 0)
	chk.Scalar(tst, "inj other channel", 1e-17, lc.Injection("opg", 50), 0)

	if lc.Active(10) || !lc.Active(20) || !lc.Active(79.9) || lc.Active(80) {
		tst.Errorf("Active windows are wrong\n")
		return
	}
	chk.Scalar(tst, "start", 1e-17, lc.Start(), 20)
}

func Test_lcase02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lcase02. multiplicative overrides do not mutate base")

	lc := Disuse(365, 730, 0.5)
	b := base()
	if err := lc.Validate(b); err != nil {
		tst.Errorf("validate failed: %v\n", err)
		return
	}

	eff := lc.Apply(b, 400)
	v, err := Resolve(eff, "disuse", "sig0")
	if err != nil {
		tst.Errorf("resolve failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "scaled sig0", 1e-8, v, -15e6)

	// base untouched
	v0, _ := Resolve(b, "base", "sig0")
	chk.Scalar(tst, "base sig0", 1e-8, v0, -30e6)

	// outside the window the copy equals base
	eff = lc.Apply(b, 100)
	v, _ = Resolve(eff, "disuse", "sig0")
	chk.Scalar(tst, "unscaled sig0", 1e-8, v, -30e6)

	// unchanged parameters are preserved
	k, _ := Resolve(eff, "disuse", "kres")
	chk.Scalar(tst, "kres preserved", 1e-17, k, 200)
}

func Test_lcase03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lcase03. validation and boundaries")

	bad := &Case{Name: "bad", Intervals: []Interval{{T0: 10, T1: 5}}}
	if err := bad.Validate(base()); err == nil {
		tst.Errorf("inverted window must not validate\n")
		return
	}
	if _, ok := bad.Validate(base()).(*InvalidError); !ok {
		tst.Errorf("error must be *InvalidError\n")
		return
	}

	bad = &Case{Name: "bad", Intervals: []Interval{
		{T0: 0, T1: 1, Mult: map[string]float64{"nonexistent": 2}},
	}}
	if err := bad.Validate(base()); err == nil {
		tst.Errorf("unknown override target must not validate\n")
		return
	}

	lc := &Case{Name: "two", Intervals: []Interval{
		{T0: 20, T1: 50, Add: map[string]float64{"pth": 1}},
		{T0: 50, T1: 80, Add: map[string]float64{"pth": 2}},
	}}
	if err := lc.Validate(base()); err != nil {
		tst.Errorf("abutting windows must validate: %v\n", err)
		return
	}
	chk.Vector(tst, "edges", 1e-17, lc.Boundaries(0, 100), []float64{20, 50, 80})
	chk.Vector(tst, "edges clipped", 1e-17, lc.Boundaries(30, 80), []float64{50})
	chk.Scalar(tst, "sequential injections", 1e-17, lc.Injection("pth", 60), 2)

	// nil case is a no-op
	var nilcase *Case
	if nilcase.Boundaries(0, 1) != nil || nilcase.Active(0) {
		tst.Errorf("nil case must be inert\n")
		return
	}
}

func Test_lcase04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lcase04. overlapping targets are rejected")

	// two injections into the same channel over intersecting windows
	bad := &Case{Name: "bad", Intervals: []Interval{
		{T0: 20, T1: 80, Add: map[string]float64{"pth": 1}},
		{T0: 50, T1: 90, Add: map[string]float64{"pth": 2}},
	}}
	err := bad.Validate(base())
	if err == nil {
		tst.Errorf("overlapping injections on one channel must not validate\n")
		return
	}
	if _, ok := err.(*InvalidError); !ok {
		tst.Errorf("error must be *InvalidError\n")
		return
	}

	// two multipliers on the same parameter over intersecting windows
	bad = &Case{Name: "bad", Intervals: []Interval{
		{T0: 0, T1: 100, Mult: map[string]float64{"sig0": 0.5}},
		{T0: 50, T1: 150, Mult: map[string]float64{"sig0": 0.8}},
	}}
	if bad.Validate(base()) == nil {
		tst.Errorf("overlapping multipliers on one parameter must not validate\n")
		return
	}

	// same windows acting on distinct targets are fine
	ok := &Case{Name: "ok", Intervals: []Interval{
		{T0: 0, T1: 100, Mult: map[string]float64{"sig0": 0.5}},
		{T0: 0, T1: 100, Mult: map[string]float64{"kres": 0.8}, Add: map[string]float64{"pth": 1e3}},
	}}
	if err := ok.Validate(base()); err != nil {
		tst.Errorf("distinct targets must validate: %v\n", err)
		return
	}

	// a multiplier and an injection share a name without clashing
	ok = &Case{Name: "ok", Intervals: []Interval{
		{T0: 0, T1: 100, Mult: map[string]float64{"kres": 0.5}},
		{T0: 0, T1: 100, Add: map[string]float64{"kres": 1}},
	}}
	if err := ok.Validate(base()); err != nil {
		tst.Errorf("multiplier and injection namespaces are separate: %v\n", err)
		return
	}
}

func Test_catalog01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("catalog01. lookup and deterministic listing")

	if New("") != nil || New("nonexistent") != nil {
		tst.Errorf("empty and unknown names must map onto nil\n")
		return
	}
	if New("pth-injection") == nil {
		tst.Errorf("catalog lookup failed\n")
		return
	}

	names := CatalogNames()
	if len(names) != 9 {
		tst.Errorf("wrong number of catalog cases: %d\n", len(names))
		return
	}
	if !sort.StringsAreSorted(names) {
		tst.Errorf("catalog names must be sorted: %v\n", names)
		return
	}
}
