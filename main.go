// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cmodiz/Bone-Models/inp"
	"github.com/cmodiz/Bone-Models/mcell"
	"github.com/cmodiz/Bone-Models/out"
	"github.com/cmodiz/Bone-Models/spatial"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	doplot := io.ArgToBool(2, false)

	// message
	if verbose {
		io.PfWhite("\nBone-Models -- coupled bone cell population models\n\n")
		io.Pf("Copyright 2024 The Bone-Models Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"plot results", "doplot", doplot,
		))
	}

	// profiling?
	defer utl.DoProf(false)()

	// simulation data
	sim, err := inp.ReadSim(fnamepath)
	if err != nil {
		chk.Panic("cannot read simulation file:\n%v", err)
	}
	if verbose {
		sim.Report()
	}

	// run simulation
	if sim.Spatial != nil {
		err = runSpatial(sim)
	} else {
		err = runModel(sim, doplot)
	}
	if err != nil {
		chk.Panic("run failed:\n%v", err)
	}
	if verbose {
		io.Pf("results saved in %s\n", sim.DirOut)
	}
}

// runModel runs one bone cell population model over the simulation horizon
func runModel(sim *inp.Simulation, doplot bool) (err error) {

	// the distribution transport model runs on its own calcium grid
	if sim.Model == "ruffoni" {
		return runRuffoni(sim)
	}

	m := mcell.New(sim.Model)
	if m == nil {
		return chk.Err("unknown model %q; available models: %v", sim.Model, mcell.ModelNames())
	}
	lc := sim.LoadCase()

	// receptor calibrated model needs its scenario before initialisation
	if mo, ok := m.(*mcell.Modiz); ok {
		s := sim.Scenario
		if s == nil {
			return chk.Err("model %q requires a scenario block in the simulation file", sim.Model)
		}
		err = mo.SetScenario(s.Disease, s.ModelType, s.Calibration)
		if err != nil {
			return
		}
	}
	err = m.Init(lc, sim.Overrides(m.GetPrms()))
	if err != nil {
		return
	}

	// mineralisation model runs the day-stepped bone composition loop
	if mr, ok := m.(*mcell.MartinezReina); ok {
		save := 365.0
		if tr := sim.Treatment; tr != nil {
			if tr.PMOEnd > tr.PMOStart {
				mr.SetPMO(tr.PMOStart, tr.PMOEnd)
			}
			if tr.DenDose > 0 {
				err = mr.SetDenosumab(tr.DenStart, tr.DenEnd, tr.DenPeriod, tr.DenDose)
				if err != nil {
					return
				}
			}
			if tr.SaveInt > 0 {
				save = tr.SaveInt
			}
		}
		res, e := mr.SolveBMDD(0, sim.Tf, nil, save)
		if e != nil {
			return e
		}
		err = out.SaveBMDD(sim.DirOut, sim.Model, res)
		if err == nil && doplot {
			out.PlotBMDD(sim.DirOut, sim.Model, res)
		}
		return
	}

	res, e := mcell.Solve(m, 0, sim.Tf, nil)
	if e != nil {
		return e
	}
	err = out.SaveTrajectory(sim.DirOut, sim.Model, res)
	if err == nil && doplot {
		out.PlotTrajectory(sim.DirOut, sim.Model, res)
	}
	return
}

// runRuffoni evolves the bone mineralisation density distribution
func runRuffoni(sim *inp.Simulation) (err error) {
	md := sim.Mineral
	if md == nil {
		return chk.Err("model %q requires a mineral block in the simulation file", sim.Model)
	}
	nx := md.Grid
	if nx == 0 {
		nx = 100
	}
	save := md.SaveInt
	if save == 0 {
		save = md.Years / 10
	}
	var m mcell.Ruffoni
	if err = m.Init(nx, sim.Overrides(m.GetPrms())); err != nil {
		return
	}
	res, e := m.Solve(md.Years, save)
	if e != nil {
		return e
	}
	return out.SaveDistribution(sim.DirOut, sim.Model, res)
}

// runSpatial runs the cross-section simulation with one model per grid element
func runSpatial(sim *inp.Simulation) (err error) {
	rnd := rand.New(rand.NewSource(sim.Spatial.Seed))
	var cs *spatial.CrossSection
	switch sim.Spatial.Geometry {
	case "circular":
		cs = spatial.CircularCrossSection(rnd)
	default:
		cs = spatial.EllipticalCrossSection(rnd)
	}
	eng := spatial.NewEngine(cs)
	eng.SetLoadCase(sim.LoadCase(), sim.Overrides(nil))
	if sim.Spatial.Interval > 0 {
		eng.Interval = sim.Spatial.Interval
	}
	if sim.Spatial.Workers > 0 {
		eng.Workers = sim.Spatial.Workers
	}
	eng.FailFast = sim.Spatial.FailFast
	err = eng.Init()
	if err != nil {
		return
	}
	hist, e := eng.Run(sim.Spatial.Years * 365)
	if e != nil {
		return e
	}
	return out.SaveHistory(sim.DirOut, "section", cs, hist)
}
