// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"github.com/cpmech/gosl/fun"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// Lemaire implements the bone cell population model of Lemaire et al. (2004).
// Three channels: OBp, OBa, OCa. TGF-beta regulation enters through the
// osteoclast concentration directly; PTH, OPG and RANKL are algebraic
// mediators evaluated inside the rate function.
type Lemaire struct {

	// configuration
	lc   *loadcase.Case
	base fun.Prms

	// differentiation and apoptosis
	dobu float64 // differentiation rate of uncommitted osteoblasts [pM/day]
	dobp float64 // differentiation rate of pre-osteoblasts [1/day]
	docp float64 // differentiation rate of pre-osteoclasts [pM/day]
	aoba float64 // apoptosis rate of active osteoblasts [1/day]
	aoca float64 // apoptosis rate of active osteoclasts [1/day]
	f0   float64 // correction factor
	cs   float64 // TGFb-OC binding constant [pM]

	// PTH axis
	betaPTH float64 // intrinsic PTH production [pM/day]
	degPTH  float64 // PTH degradation [1/day]
	k5, k6  float64 // PTH binding and unbinding with OB receptors

	// OPG and RANKL axis
	degOPG    float64 // OPG degradation [1/day]
	kopg      float64 // minimal OPG production per cell [1/day]
	ka1, kd1  float64 // RANKL-OPG binding and unbinding
	ka2, kd2  float64 // RANKL-RANK binding and unbinding
	rank      float64 // fixed RANK concentration [pM]
	klp       float64 // maximal RANKL per cell [pM/pM]
	betaRANKL float64 // intrinsic RANKL production [pM/day]

	// bone volume
	kform float64 // formation rate [%/(pM day)]

	// stage cache (injection rates active in the current window)
	injOBp, injOBa, injOCa   float64
	injPTH, injOPG, injRANKL float64

	// hooks replaced by derived models
	pthActivation func(t float64) float64
	pthConc       func(t float64) float64
}

func init() {
	allocators["lemaire"] = func() Model { return new(Lemaire) }
}

// Name returns the model name
func (o *Lemaire) Name() string { return "lemaire" }

// Init initialises the model
func (o *Lemaire) Init(lc *loadcase.Case, prms fun.Prms) error {
	if prms == nil {
		prms = o.GetPrms()
	}
	if err := lc.Validate(prms); err != nil {
		return err
	}
	o.lc = lc
	o.base = prms
	if o.pthActivation == nil {
		o.pthActivation = o.calcPTHActivationOB
	}
	if o.pthConc == nil {
		o.pthConc = o.calcPTHConcentration
	}
	if err := o.setPrms(prms); err != nil {
		return err
	}
	// the pre-osteoblast differentiation rate carries the correction factor
	o.dobp *= o.f0
	return nil
}

// setPrms parses a parameter table into the typed coefficients
func (o *Lemaire) setPrms(prms fun.Prms) error {
	for _, p := range prms {
		switch p.N {
		case "dobu":
			o.dobu = p.V
		case "dobp":
			o.dobp = p.V
		case "docp":
			o.docp = p.V
		case "aoba":
			o.aoba = p.V
		case "aoca":
			o.aoca = p.V
		case "f0":
			o.f0 = p.V
		case "cs":
			o.cs = p.V
		case "betapth":
			o.betaPTH = p.V
		case "degpth":
			o.degPTH = p.V
		case "k5":
			o.k5 = p.V
		case "k6":
			o.k6 = p.V
		case "degopg":
			o.degOPG = p.V
		case "kopg":
			o.kopg = p.V
		case "ka1":
			o.ka1 = p.V
		case "kd1":
			o.kd1 = p.V
		case "ka2":
			o.ka2 = p.V
		case "kd2":
			o.kd2 = p.V
		case "rank":
			o.rank = p.V
		case "klp":
			o.klp = p.V
		case "betarankl":
			o.betaRANKL = p.V
		case "kform":
			o.kform = p.V
		default:
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	return nil
}

// GetPrms returns the parameters of Lemaire et al. (2004)
func (o *Lemaire) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "dobu", V: 7.0e-4},
		&fun.Prm{N: "dobp", V: 0.7},
		&fun.Prm{N: "docp", V: 2.1e-3},
		&fun.Prm{N: "aoba", V: 0.189},
		&fun.Prm{N: "aoca", V: 0.7},
		&fun.Prm{N: "f0", V: 0.05},
		&fun.Prm{N: "cs", V: 5.0e-3},
		&fun.Prm{N: "betapth", V: 250},
		&fun.Prm{N: "degpth", V: 86},
		&fun.Prm{N: "k5", V: 0.02},
		&fun.Prm{N: "k6", V: 3.0},
		&fun.Prm{N: "degopg", V: 0.35},
		&fun.Prm{N: "kopg", V: 2.0e5},
		&fun.Prm{N: "ka1", V: 1.0e-2},
		&fun.Prm{N: "kd1", V: 10.0},
		&fun.Prm{N: "ka2", V: 5.8e-4},
		&fun.Prm{N: "kd2", V: 1.7e-2},
		&fun.Prm{N: "rank", V: 10.0},
		&fun.Prm{N: "klp", V: 3.0e6},
		&fun.Prm{N: "betarankl", V: 1.0e3},
		&fun.Prm{N: "kform", V: 1.571},
	}
}

// LoadCase returns the load case
func (o *Lemaire) LoadCase() *loadcase.Case { return o.lc }

// Nstate returns the number of state channels
func (o *Lemaire) Nstate() int { return 3 }

// Ncell returns the number of cell channels
func (o *Lemaire) Ncell() int { return 3 }

// InitGuess returns the starting point for the steady state search
func (o *Lemaire) InitGuess() []float64 {
	return []float64{0.7734e-3, 0.7282e-3, 0.9127e-3}
}

// SetStage caches effective parameters and injection rates for [t0,t1]
func (o *Lemaire) SetStage(t0, t1 float64) error {
	tmid := 0.5 * (t0 + t1)
	if err := o.setPrms(o.lc.Apply(o.base, tmid)); err != nil {
		return err
	}
	o.dobp *= o.f0
	o.injOBp = o.lc.Injection("obp", tmid)
	o.injOBa = o.lc.Injection("oba", tmid)
	o.injOCa = o.lc.Injection("oca", tmid)
	o.injPTH = o.lc.Injection("pth", tmid)
	o.injOPG = o.lc.Injection("opg", tmid)
	o.injRANKL = o.lc.Injection("rankl", tmid)
	return nil
}

// Rhs computes the rates of the three cell channels
func (o *Lemaire) Rhs(f []float64, t float64, y []float64) error {
	OBp, OBa, OCa := y[0], y[1], y[2]
	piTGFbAct := o.tgfbActivationOBu(OCa)
	piTGFbRep := 1.0 / piTGFbAct
	f[0] = o.dobu*piTGFbAct - o.dobp*o.f0*OBp*piTGFbRep + o.injOBp
	f[1] = o.dobp*o.f0*OBp*piTGFbRep - o.aoba*OBa + o.injOBa
	f[2] = o.docp*o.ranklActivationOCp(OBp, OBa, t) - o.aoca*OCa*piTGFbAct + o.injOCa
	return nil
}

// tgfbActivationOBu is the TGF-beta activation of uncommitted osteoblasts;
// its reciprocal represses pre-osteoblast differentiation and it also gates
// osteoclast apoptosis
func (o *Lemaire) tgfbActivationOBu(OCa float64) float64 {
	return (OCa + o.f0*o.cs) / (OCa + o.cs)
}

// ranklActivationOCp computes the occupancy of RANK receptors on
// pre-osteoclasts, accounting for the OPG decoy and PTH-driven RANKL
// expression on osteoblasts
func (o *Lemaire) ranklActivationOCp(OBp, OBa, t float64) float64 {
	pthEffect := o.klp * o.pthActivation(t) * OBa
	opg := o.opgConcentration(OBp, t)
	kRANKLRANK := o.ka2 / o.kd2
	kRANKLOPG := o.ka1 / o.kd1
	act := kRANKLRANK * pthEffect / (1 + kRANKLRANK*o.rank + kRANKLOPG*opg)
	return act * (1 + o.injRANKLAt(t)/o.betaRANKL)
}

func (o *Lemaire) calcPTHActivationOB(t float64) float64 {
	pth := o.pthConc(t)
	kinetic := o.k6 / o.k5
	return pth / (o.injPTHAt(t)/o.degPTH + kinetic)
}

func (o *Lemaire) calcPTHConcentration(t float64) float64 {
	return (o.betaPTH + o.injPTHAt(t)) / o.degPTH
}

func (o *Lemaire) opgConcentration(OBp, t float64) float64 {
	return (o.kopg*OBp/o.pthActivation(t) + o.injOPGAt(t)) / o.degOPG
}

// injection accessors return 0 at the reference time
func (o *Lemaire) injPTHAt(t float64) float64 {
	if t < 0 {
		return 0
	}
	return o.injPTH
}

func (o *Lemaire) injOPGAt(t float64) float64 {
	if t < 0 {
		return 0
	}
	return o.injOPG
}

func (o *Lemaire) injRANKLAt(t float64) float64 {
	if t < 0 {
		return 0
	}
	return o.injRANKL
}

// Kform returns the bone formation rate
func (o *Lemaire) Kform() float64 { return o.kform }

// PTHActivation evaluates the current PTH activation of osteoblasts
func (o *Lemaire) PTHActivation(t float64) float64 { return o.pthActivation(t) }
