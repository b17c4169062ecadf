// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// writeSim writes a simulation file into dir and returns its path
func writeSim(dir, name, content string) string {
	var b bytes.Buffer
	io.Ff(&b, "%s", content)
	io.WriteFileD(dir, name, &b)
	return filepath.Join(dir, name)
}

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read simulation file")

	fn := writeSim(tst.TempDir(), "test.sim", `{
  "desc": "test run",
  "model": "lemaire",
  "tf": 100,
  "prms": [{"n": "kform", "v": 1.6}],
  "case": {"name": "pth-injection"}
}`)

	sim, err := ReadSim(fn)
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	if sim.Model != "lemaire" {
		tst.Errorf("wrong model: %q\n", sim.Model)
		return
	}
	chk.Scalar(tst, "tf", 1e-17, sim.Tf, 100)
	if sim.DirOut == "" {
		tst.Errorf("default output directory not set\n")
		return
	}

	lc := sim.LoadCase()
	if lc == nil {
		tst.Errorf("catalog load case not resolved\n")
		return
	}
	if lc.Name != "pth-injection" {
		tst.Errorf("wrong load case: %q\n", lc.Name)
		return
	}
	chk.Scalar(tst, "injection rate", 1e-17, lc.Injection("pth", 50), 1e3)

	prms := sim.Overrides(nil)
	chk.IntAssert(len(prms), 1)
	if prms[0].N != "kform" {
		tst.Errorf("wrong override name: %q\n", prms[0].N)
		return
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. validation of bad inputs")

	write := func(name, content string) string {
		return writeSim(tst.TempDir(), name, content)
	}

	// neither model nor spatial block
	if _, err := ReadSim(write("a.sim", `{"tf": 10}`)); err == nil {
		tst.Errorf("missing model not caught\n")
		return
	}

	// non-positive horizon
	if _, err := ReadSim(write("b.sim", `{"model": "lemaire"}`)); err == nil {
		tst.Errorf("missing horizon not caught\n")
		return
	}

	// unknown catalog case
	if _, err := ReadSim(write("c.sim", `{"model": "lemaire", "tf": 10, "case": {"name": "nosuch"}}`)); err == nil {
		tst.Errorf("unknown load case not caught\n")
		return
	}

	// unknown geometry
	if _, err := ReadSim(write("d.sim", `{"spatial": {"geometry": "square", "years": 1}}`)); err == nil {
		tst.Errorf("unknown geometry not caught\n")
		return
	}

	// non-positive spatial duration
	if _, err := ReadSim(write("e.sim", `{"spatial": {"geometry": "circular"}}`)); err == nil {
		tst.Errorf("non-positive duration not caught\n")
		return
	}
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. explicit intervals and overrides")

	fn := writeSim(tst.TempDir(), "disuse.sim", `{
  "model": "scheiner",
  "tf": 1000,
  "case": {
    "name": "disuse",
    "intervals": [{"t0": 100, "t1": 465, "mult": {"sig0": 0.5}}]
  }
}`)

	sim, err := ReadSim(fn)
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	lc := sim.LoadCase()
	chk.IntAssert(len(lc.Intervals), 1)
	base := fun.Prms{&fun.Prm{N: "sig0", V: -30e-3}}
	in := lc.Apply(base, 200)
	out := lc.Apply(base, 500)
	chk.Scalar(tst, "sig0 inside window", 1e-17, in[0].V, -15e-3)
	chk.Scalar(tst, "sig0 outside window", 1e-17, out[0].V, -30e-3)
	if sim.Overrides(nil) != nil {
		tst.Errorf("overrides expected to be nil without prms\n")
		return
	}
}
