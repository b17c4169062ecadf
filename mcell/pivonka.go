// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"github.com/cpmech/gosl/fun"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// Pivonka implements the bone cell population model of Pivonka et al.
// (2008). Compared with Lemaire, TGF-beta is an explicit mediator released
// by resorption, all regulations are Hill functions, OPG production
// saturates at a carrying capacity and RANKL is limited by an effective
// carrying capacity on osteoblastic cells.
type Pivonka struct {

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

	// Hill coefficients [pM]
	kactTGFbOBu float64
	krepTGFbOBp float64
	kactTGFbOCa float64
	kactPTH     float64
	krepPTH     float64
	kactRANKL   float64

	// degradation rates [1/day]
	degPTH, degOPG, degRANKL, degTGFb float64

	// concentrations and production
	opgmax    float64 // maximal OPG concentration [pM]
	rank      float64 // fixed RANK concentration [pM]
	ka1       float64 // RANKL-OPG association constant [1/(pM day)]
	ka2       float64 // RANKL-RANK association constant [1/(pM day)]
	betaPTH   float64 // intrinsic PTH production [pM/day]
	betaRANKL float64 // intrinsic RANKL production [pM/day]
	kopg      float64 // minimal OPG production per cell [1/day]
	klp       float64 // maximal RANKL per cell [pM/pM]
	alpha     float64 // TGFb content stored in bone matrix

	// bone volume
	kform float64 // formation rate [%/(pM day)]
	kres  float64 // resorption rate [%/(pM day)]

	// stage cache
	injOBp, injOBa, injOCa            float64
	injPTH, injOPG, injRANKL, injTGFb float64

	// hooks replaced by derived models
	extRANKL       func(t float64) float64 // external RANKL supply rate
	ranklBindExtra func(t float64) float64 // extra competitive binding of RANKL
}

func init() {
	allocators["pivonka"] = func() Model { return new(Pivonka) }
}

// Name returns the model name
func (o *Pivonka) Name() string { return "pivonka" }

// Init initialises the model
func (o *Pivonka) Init(lc *loadcase.Case, prms fun.Prms) error {
	if prms == nil {
		prms = o.GetPrms()
	}
	if err := lc.Validate(prms); err != nil {
		return err
	}
	o.lc = lc
	o.base = prms
	if o.extRANKL == nil {
		o.extRANKL = o.injRANKLAt
	}
	if o.ranklBindExtra == nil {
		o.ranklBindExtra = func(t float64) float64 { return 0 }
	}
	for _, p := range prms {
		if !o.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	return nil
}

// setPrm assigns one parameter; returns false for unknown names
func (o *Pivonka) setPrm(p *fun.Prm) bool {
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
	case "kobu":
		o.kactTGFbOBu = p.V
	case "krobp":
		o.krepTGFbOBp = p.V
	case "koca":
		o.kactTGFbOCa = p.V
	case "kpth":
		o.kactPTH = p.V
	case "krpth":
		o.krepPTH = p.V
	case "krr":
		o.kactRANKL = p.V
	case "degpth":
		o.degPTH = p.V
	case "degopg":
		o.degOPG = p.V
	case "degrl":
		o.degRANKL = p.V
	case "degtgfb":
		o.degTGFb = p.V
	case "opgmax":
		o.opgmax = p.V
	case "rank":
		o.rank = p.V
	case "ka1":
		o.ka1 = p.V
	case "ka2":
		o.ka2 = p.V
	case "betapth":
		o.betaPTH = p.V
	case "betarankl":
		o.betaRANKL = p.V
	case "kopg":
		o.kopg = p.V
	case "klp":
		o.klp = p.V
	case "alpha":
		o.alpha = p.V
	case "kform":
		o.kform = p.V
	case "kres":
		o.kres = p.V
	default:
		return false
	}
	return true
}

// GetPrms returns the parameters of Pivonka et al. (2008)
func (o *Pivonka) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "dobu", V: 7.0e-4},
		&fun.Prm{N: "dobp", V: 5.348},
		&fun.Prm{N: "docp", V: 2.1e-3},
		&fun.Prm{N: "aoba", V: 0.189},
		&fun.Prm{N: "aoca", V: 0.7},
		&fun.Prm{N: "f0", V: 0.05},
		&fun.Prm{N: "kobu", V: 4.545454545454545e-3},
		&fun.Prm{N: "krobp", V: 1.415624253823446e-3},
		&fun.Prm{N: "koca", V: 4.545454545454545e-3},
		&fun.Prm{N: "kpth", V: 150},
		&fun.Prm{N: "krpth", V: 2.225814277099542e-1},
		&fun.Prm{N: "krr", V: 13.06},
		&fun.Prm{N: "degpth", V: 86},
		&fun.Prm{N: "degopg", V: 0.35},
		&fun.Prm{N: "degrl", V: 1.0132471014805027e1},
		&fun.Prm{N: "degtgfb", V: 1.0},
		&fun.Prm{N: "opgmax", V: 2.0e8},
		&fun.Prm{N: "rank", V: 10.0},
		&fun.Prm{N: "ka1", V: 1.0e-3},
		&fun.Prm{N: "ka2", V: 3.411764705882353e-2},
		&fun.Prm{N: "betapth", V: 250},
		&fun.Prm{N: "betarankl", V: 1.684195714712206e4},
		&fun.Prm{N: "kopg", V: 1.464e8},
		&fun.Prm{N: "klp", V: 3.0e6},
		&fun.Prm{N: "alpha", V: 1.0},
		&fun.Prm{N: "kform", V: 1.571},
		&fun.Prm{N: "kres", V: 200.0},
	}
}

// LoadCase returns the load case
func (o *Pivonka) LoadCase() *loadcase.Case { return o.lc }

// Nstate returns the number of state channels
func (o *Pivonka) Nstate() int { return 3 }

// Ncell returns the number of cell channels
func (o *Pivonka) Ncell() int { return 3 }

// InitGuess returns the starting point for the steady state search
func (o *Pivonka) InitGuess() []float64 {
	return []float64{0.7734e-3, 0.7282e-3, 0.9127e-3}
}

// SetStage caches effective parameters and injection rates for [t0,t1]
func (o *Pivonka) SetStage(t0, t1 float64) error {
	tmid := 0.5 * (t0 + t1)
	for _, p := range o.lc.Apply(o.base, tmid) {
		if !o.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.injOBp = o.lc.Injection("obp", tmid)
	o.injOBa = o.lc.Injection("oba", tmid)
	o.injOCa = o.lc.Injection("oca", tmid)
	o.injPTH = o.lc.Injection("pth", tmid)
	o.injOPG = o.lc.Injection("opg", tmid)
	o.injRANKL = o.lc.Injection("rankl", tmid)
	o.injTGFb = o.lc.Injection("tgfb", tmid)
	return nil
}

// Rhs computes the rates of the three cell channels
func (o *Pivonka) Rhs(f []float64, t float64, y []float64) error {
	OBp, OBa, OCa := y[0], y[1], y[2]
	f[0] = o.dobu*o.tgfbActivationOBu(OCa, t) - o.dobp*o.f0*OBp*o.tgfbRepressionOBp(OCa, t) + o.injAt(t, o.injOBp)
	f[1] = o.dobp*o.f0*OBp*o.tgfbRepressionOBp(OCa, t) - o.aoba*OBa + o.injAt(t, o.injOBa)
	f[2] = o.docp*o.ranklActivationOCp(OBp, OBa, t) - o.aoca*OCa*o.tgfbActivationOCa(OCa, t) + o.injAt(t, o.injOCa)
	return nil
}

// injAt suppresses injections at the reference time
func (o *Pivonka) injAt(t, v float64) float64 {
	if t < 0 {
		return 0
	}
	return v
}

func (o *Pivonka) injRANKLAt(t float64) float64 { return o.injAt(t, o.injRANKL) }

// mediators ///////////////////////////////////////////////////////////////////////////////////////

// tgfbConcentration: TGF-beta released from the matrix by resorption
func (o *Pivonka) tgfbConcentration(OCa, t float64) float64 {
	return (o.alpha*o.kres*OCa + o.injAt(t, o.injTGFb)) / o.degTGFb
}

func (o *Pivonka) tgfbActivationOBu(OCa, t float64) float64 {
	c := o.tgfbConcentration(OCa, t)
	return c / (c + o.kactTGFbOBu)
}

func (o *Pivonka) tgfbRepressionOBp(OCa, t float64) float64 {
	c := o.tgfbConcentration(OCa, t)
	return o.krepTGFbOBp / (c + o.krepTGFbOBp)
}

func (o *Pivonka) tgfbActivationOCa(OCa, t float64) float64 {
	c := o.tgfbConcentration(OCa, t)
	return c / (c + o.kactTGFbOCa)
}

func (o *Pivonka) pthActivationOB(t float64) float64 {
	pth := o.pthConcentration(t)
	return pth / (pth + o.kactPTH)
}

func (o *Pivonka) pthRepressionOB(t float64) float64 {
	pth := o.pthConcentration(t)
	return o.krepPTH / (pth + o.krepPTH)
}

func (o *Pivonka) pthConcentration(t float64) float64 {
	return (o.betaPTH + o.injAt(t, o.injPTH)) / o.degPTH
}

func (o *Pivonka) opgConcentration(OBp, OBa, t float64) float64 {
	pOB := (o.kopg*OBp + o.kopg*OBa) * o.pthRepressionOB(t)
	return (pOB + o.injAt(t, o.injOPG)) * o.opgmax / (pOB + o.degOPG*o.opgmax)
}

// ranklCarryingCapacity: maximal RANKL expressed on osteoblastic cells
func (o *Pivonka) ranklCarryingCapacity(OBp, OBa, t float64) float64 {
	return (o.klp*OBp + o.klp*OBa) * o.pthActivationOB(t)
}

// ranklConcentration balances production and degradation against the
// carrying capacity, reduced by OPG and RANK binding (and, in derived
// models, drug binding)
func (o *Pivonka) ranklConcentration(OBp, OBa, t float64) float64 {
	leff := o.ranklCarryingCapacity(OBp, OBa, t)
	bound := leff / (1 + o.ka1*o.opgConcentration(OBp, OBa, t) + o.ka2*o.rank + o.ranklBindExtra(t))
	return bound * (o.betaRANKL + o.extRANKL(t)) / (o.betaRANKL + o.degRANKL*leff)
}

func (o *Pivonka) ranklActivationOCp(OBp, OBa, t float64) float64 {
	lr := o.ka2 * o.ranklConcentration(OBp, OBa, t) * o.rank
	return lr / (lr + o.kactRANKL)
}

// Kform returns the bone formation rate
func (o *Pivonka) Kform() float64 { return o.kform }

// Kres returns the bone resorption rate
func (o *Pivonka) Kres() float64 { return o.kres }
