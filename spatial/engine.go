// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spatial

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"

	"github.com/cmodiz/Bone-Models/loadcase"
	"github.com/cmodiz/Bone-Models/mcell"
)

// Engine drives one population model per RVE and redistributes the
// macroscopic load over the cross-section after every interval
type Engine struct {
	CS *CrossSection

	// macroscopic load
	AxialForce float64 // [N]
	MomentY    float64 // [Nm]
	MomentZ    float64 // [Nm]

	// load alteration window, e.g. disuse
	ForceReduction  float64
	MomentReduction float64
	AlterT0, AlterT1 float64

	Interval float64 // days between mechanics updates
	Workers  int     // concurrent local solves, zero means serial
	FailFast bool    // abort the run on the first local failure

	lc   *loadcase.Case
	prms fun.Prms
}

// NewEngine allocates the engine with the femur midshaft load of
// Lerebours et al. (2016)
func NewEngine(cs *CrossSection) *Engine {
	return &Engine{
		CS:              cs,
		AxialForce:      -700,
		MomentY:         50,
		MomentZ:         0,
		ForceReduction:  1,
		MomentReduction: 1,
		Interval:        365,
		Workers:         4,
	}
}

// SetLoadCase attaches a biochemical load case and parameter overrides
// shared by all local models
func (o *Engine) SetLoadCase(lc *loadcase.Case, prms fun.Prms) {
	o.lc = lc
	o.prms = prms
}

// Snapshot is the cross-section state at the end of one interval
type Snapshot struct {
	T      float64
	BVTV   []float64 // per element bone volume fraction
	Stress []float64 // per element axial stress [Pa]
	States [][]float64
}

// History collects the snapshots of a run
type History struct {
	Snaps []*Snapshot
}

// Last returns the final snapshot or nil for an empty history
func (o *History) Last() *Snapshot {
	if len(o.Snaps) == 0 {
		return nil
	}
	return o.Snaps[len(o.Snaps)-1]
}

// Init allocates one porosity-aware population model per element,
// distributes the macroscopic load and computes the local steady states
// used as initial conditions. The local turnover follows the specific
// surface of the element so dense and porous regions remodel at
// different rates.
func (o *Engine) Init() error {
	if o.CS.Nrve() == 0 {
		return chk.Err("spatial: cross-section has no elements")
	}
	for _, r := range o.CS.RVEs {
		m := mcell.New("lerebours").(*mcell.Lerebours)
		prms := append(m.GetPrms(),
			&fun.Prm{N: "fbm0", V: r.BVTV},
			&fun.Prm{N: "pvas0", V: 1 - r.BVTV})
		prms = append(prms, o.prms...)
		if err := m.Init(o.lc, prms); err != nil {
			return err
		}
		r.Model = m
	}
	if err := o.updateStress(mcell.RefTime); err != nil {
		return err
	}
	nfail := o.solveAll(func(r *RVE) error {
		r.Model.SetAxialStress(r.Stress*1e-9, true)
		s, err := mcell.SteadyState(r.Model)
		if err != nil {
			return err
		}
		r.State = s.Vec(r.Model.Nstate())
		return nil
	})
	if nfail > 0 && o.FailFast {
		return o.firstFailure()
	}
	return nil
}

// Run advances the cross-section over the given duration [days]. After
// each interval the local bone volume fractions feed the mechanics update
// and the new stresses seed the next interval.
func (o *Engine) Run(duration float64) (*History, error) {
	if o.CS.RVEs[0].Model == nil {
		return nil, chk.Err("spatial: Init must be called before Run")
	}
	hist := &History{}
	hist.Snaps = append(hist.Snaps, o.snapshot(0))
	nint := int(duration / o.Interval)
	for k := 0; k < nint; k++ {
		t0 := float64(k) * o.Interval
		t1 := t0 + o.Interval
		nfail := o.solveAll(func(r *RVE) error {
			res, err := mcell.Solve(r.Model, t0, t1, r.State)
			if err != nil {
				return err
			}
			r.State = res.LastY()
			r.BVTV = r.State[5]
			return nil
		})
		if nfail > 0 && o.FailFast {
			return hist, o.firstFailure()
		}
		if err := o.updateStress(t1); err != nil {
			return hist, err
		}
		for _, r := range o.CS.RVEs {
			if r.Err == nil {
				r.Model.SetAxialStress(r.Stress*1e-9, false)
			}
		}
		hist.Snaps = append(hist.Snaps, o.snapshot(t1))
	}
	return hist, nil
}

// solveAll applies fn to every healthy element, fanning out over the
// worker pool. Failed elements record their error and keep their state.
func (o *Engine) solveAll(fn func(r *RVE) error) int {
	nw := o.Workers
	if nw < 1 {
		nw = 1
	}
	sem := make(chan struct{}, nw)
	var wg sync.WaitGroup
	var mu sync.Mutex
	nfail := 0
	for _, r := range o.CS.RVEs {
		if r.Err != nil {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(r *RVE) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(r); err != nil {
				mu.Lock()
				r.Err = err
				nfail++
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()
	return nfail
}

func (o *Engine) firstFailure() error {
	for _, r := range o.CS.RVEs {
		if r.Err != nil {
			return chk.Err("spatial: element at (%g,%g) failed:\n%v", r.Y, r.Z, r.Err)
		}
	}
	return nil
}

// updateStress homogenises the element stiffnesses and redistributes the
// macroscopic load into element axial stresses via beam theory
func (o *Engine) updateStress(t float64) error {
	for _, r := range o.CS.RVEs {
		fbm := r.BVTV * 100
		r.Stiffness = r.Model.AxialStiffness(100-fbm, fbm) * 1e9
	}
	eps, ky, kz, yc, zc, err := o.strainDecomposition(t)
	if err != nil {
		return err
	}
	for _, r := range o.CS.RVEs {
		strain := eps - ky*(r.Y-yc) + kz*(r.Z-zc)
		r.Stress = r.Stiffness * strain
	}
	return nil
}

// strainDecomposition solves the beam equilibrium for the axial strain at
// the normal force center and the two curvatures
func (o *Engine) strainDecomposition(t float64) (eps, ky, kz, yc, zc float64, err error) {
	var sumS float64
	for _, r := range o.CS.RVEs {
		sumS += r.Stiffness
		yc += r.Y * r.Stiffness
		zc += r.Z * r.Stiffness
	}
	yc /= sumS
	zc /= sumS
	da := o.CS.DY * o.CS.DZ
	ea := sumS * da
	var iy, iz, iyz float64
	for _, r := range o.CS.RVEs {
		dy := r.Y - yc
		dz := r.Z - zc
		iy += r.Stiffness * dz * dz * da
		iz += r.Stiffness * dy * dy * da
		iyz += r.Stiffness * dy * dz * da
	}
	n, my, mz := o.loadAt(t)
	a := [][]float64{
		{ea, 0, 0},
		{0, iy, -iyz},
		{0, -iyz, iz},
	}
	ai := la.MatAlloc(3, 3)
	if err = la.MatInvG(ai, a, 1e-12); err != nil {
		err = chk.Err("spatial: singular moments of area matrix:\n%v", err)
		return
	}
	x := make([]float64, 3)
	la.MatVecMul(x, 1, ai, []float64{n, my, mz})
	eps, kz, ky = x[0], x[1], x[2]
	return
}

// loadAt returns the macroscopic load, reduced within the alteration
// window
func (o *Engine) loadAt(t float64) (n, my, mz float64) {
	n, my, mz = o.AxialForce, o.MomentY, o.MomentZ
	if t > o.AlterT0 && t < o.AlterT1 {
		n *= o.ForceReduction
		my *= o.MomentReduction
		mz *= o.MomentReduction
	}
	return
}

func (o *Engine) snapshot(t float64) *Snapshot {
	s := &Snapshot{T: t}
	for _, r := range o.CS.RVEs {
		s.BVTV = append(s.BVTV, r.BVTV)
		s.Stress = append(s.Stress, r.Stress)
		cp := make([]float64, len(r.State))
		copy(cp, r.State)
		s.States = append(s.States, cp)
	}
	return s
}
