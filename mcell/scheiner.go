// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// Scheiner implements the mechanobiological model of Scheiner et al.
// (2013): the Pivonka regulation structure extended with vascular pore and
// bone matrix volume fraction channels and a strain energy density feedback
// on pre-osteoblast proliferation.
type Scheiner struct {
	Pivonka

	// mechanics parameters
	sig0   float64 // applied axial stress [GPa], negative in compression
	pvas0  float64 // initial vascular pore volume fraction [%]
	fbm0   float64 // initial bone matrix volume fraction [%]
	frac   float64 // fraction of OBu differentiation feeding proliferation
	lam    float64 // strain amplification factor
	mu0    float64 // strain effect at the habitual loading state
	kwater float64 // bulk modulus of pore water [GPa]

	// stiffness tensors [GPa]
	cbm  [][]float64 // bone matrix
	cvas [][]float64 // vascular pores

	// reference state
	sig0Steady float64 // habitual axial stress [GPa]
	ssOBp      float64 // steady state pre-osteoblast concentration [pM]
	sedSS      float64 // strain energy density at the habitual state

	// spatial coupling may pin the stress directly
	sigPinned bool
	sigNow    float64

	// hook replaced by derived models
	sed func(pvas, fbm, sig float64) (float64, error)
}

func init() {
	allocators["scheiner"] = func() Model { return new(Scheiner) }
}

// Name returns the model name
func (o *Scheiner) Name() string { return "scheiner" }

// Init initialises the model
func (o *Scheiner) Init(lc *loadcase.Case, prms fun.Prms) error {
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
	if o.sed == nil {
		o.sed = o.mixtureSED
	}
	for _, p := range prms {
		if !o.setPrm(p) && !o.Pivonka.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.sig0Steady = o.sig0
	o.buildStiffness()
	return nil
}

// setPrm assigns one mechanics parameter; returns false for unknown names
func (o *Scheiner) setPrm(p *fun.Prm) bool {
	switch p.N {
	case "sig0":
		o.sig0 = p.V
	case "pvas0":
		o.pvas0 = p.V
	case "fbm0":
		o.fbm0 = p.V
	case "frac":
		o.frac = p.V
	case "lambda":
		o.lam = p.V
	case "mu0":
		o.mu0 = p.V
	case "kwater":
		o.kwater = p.V
	default:
		return false
	}
	return true
}

// buildStiffness assembles the constituent stiffness tensors in Voigt
// notation. The pore space carries the bulk modulus of water only.
func (o *Scheiner) buildStiffness() {
	o.cbm = [][]float64{
		{18.5, 10.3, 10.4, 0, 0, 0},
		{10.3, 20.8, 11.0, 0, 0, 0},
		{10.4, 11.0, 28.4, 0, 0, 0},
		{0, 0, 0, 12.9, 0, 0},
		{0, 0, 0, 0, 11.5, 0},
		{0, 0, 0, 0, 0, 9.3},
	}
	o.cvas = la.MatAlloc(6, 6)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.cvas[i][j] = o.kwater
		}
	}
}

// GetPrms returns the parameters of Scheiner et al. (2013)
func (o *Scheiner) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "dobu", V: 7.0e-4},
		&fun.Prm{N: "dobp", V: 0.165696312976030},
		&fun.Prm{N: "docp", V: 2.1e-3},
		&fun.Prm{N: "aoba", V: 0.211072625806496},
		&fun.Prm{N: "aoca", V: 5.64874468409633},
		&fun.Prm{N: "f0", V: 0.05},
		&fun.Prm{N: "kobu", V: 0.000563278809675429},
		&fun.Prm{N: "krobp", V: 0.000175426051821094},
		&fun.Prm{N: "koca", V: 0.000563278809675429},
		&fun.Prm{N: "kpth", V: 150},
		&fun.Prm{N: "krpth", V: 0.222581427709954},
		&fun.Prm{N: "krr", V: 5.6797},
		&fun.Prm{N: "degpth", V: 86},
		&fun.Prm{N: "degopg", V: 0.35},
		&fun.Prm{N: "degrl", V: 1.0132471014805027e1},
		&fun.Prm{N: "degtgfb", V: 1.0},
		&fun.Prm{N: "opgmax", V: 2.0e8},
		&fun.Prm{N: "rank", V: 10.0},
		&fun.Prm{N: "ka1", V: 1.0e-3},
		&fun.Prm{N: "ka2", V: 3.411764705882353e-2},
		&fun.Prm{N: "betapth", V: 250},
		&fun.Prm{N: "betarankl", V: 1.684195714712206e2},
		&fun.Prm{N: "kopg", V: 1.624900337835679e8},
		&fun.Prm{N: "klp", V: 2.703476379131062e6},
		&fun.Prm{N: "alpha", V: 1.0},
		&fun.Prm{N: "kform", V: 40.0},
		&fun.Prm{N: "kres", V: 200.0},
		&fun.Prm{N: "sig0", V: -30e-3},
		&fun.Prm{N: "pvas0", V: 5.0},
		&fun.Prm{N: "fbm0", V: 95.0},
		&fun.Prm{N: "frac", V: 0.1},
		&fun.Prm{N: "lambda", V: 1.25},
		&fun.Prm{N: "mu0", V: 0.5},
		&fun.Prm{N: "kwater", V: 2.3},
	}
}

// Nstate returns the number of state channels
func (o *Scheiner) Nstate() int { return 5 }

// Ncell returns the number of cell channels
func (o *Scheiner) Ncell() int { return 3 }

// InitGuess returns the starting point for the steady state search
func (o *Scheiner) InitGuess() []float64 {
	return []float64{6.196390627918603e-4, 5.583931899482344e-4, 8.069635262731931e-4, o.pvas0, o.fbm0}
}

// SetStage caches effective parameters and prepares the reference state.
// The reference (steady state and habitual strain energy density) is
// computed once, before the first transient stage.
func (o *Scheiner) SetStage(t0, t1 float64) error {
	if t0 >= 0 {
		if err := o.ensureReference(); err != nil {
			return err
		}
	}
	tmid := 0.5 * (t0 + t1)
	for _, p := range o.lc.Apply(o.base, tmid) {
		if !o.setPrm(p) && !o.Pivonka.setPrm(p) {
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

// ensureReference computes the steady state and the habitual strain energy
// density used to normalise the mechanical feedback
func (o *Scheiner) ensureReference() (err error) {
	if o.ssOBp > 0 {
		return
	}
	s, err := SteadyState(o)
	if err != nil {
		return err
	}
	o.ssOBp = s.OBp
	o.sedSS, err = o.sed(o.pvas0, o.fbm0, o.sig0Steady)
	return
}

// SetAxialStress pins the axial stress, overriding the sig0 parameter.
// steady also resets the habitual stress defining the reference strain
// energy density. Used by the spatial coupling.
func (o *Scheiner) SetAxialStress(sig float64, steady bool) {
	o.sigPinned = true
	o.sigNow = sig
	if steady {
		o.sig0Steady = sig
		o.sedSS = 0
		o.ssOBp = 0 // reference must be recomputed
	}
}

// currentStress returns the axial stress acting now [GPa]
func (o *Scheiner) currentStress() float64 {
	if o.sigPinned {
		return o.sigNow
	}
	return o.sig0
}

// Rhs computes the rates of the five channels
func (o *Scheiner) Rhs(f []float64, t float64, y []float64) error {
	OBp, OBa, OCa := y[0], y[1], y[2]
	pvas, fbm := y[3], y[4]
	mech, err := o.mechanicalEffectOBp(OBp, OCa, pvas, fbm, t)
	if err != nil {
		return err
	}
	f[0] = o.dobu*o.tgfbActivationOBu(OCa, t) - o.dobp*o.f0*OBp*o.tgfbRepressionOBp(OCa, t) + mech + o.injAt(t, o.injOBp)
	f[1] = o.dobp*o.f0*OBp*o.tgfbRepressionOBp(OCa, t) - o.aoba*OBa + o.injAt(t, o.injOBa)
	f[2] = o.docp*o.ranklActivationDirect(OBp, OBa, t) - o.aoca*OCa*o.tgfbActivationOCa(OCa, t) + o.injAt(t, o.injOCa)
	f[3] = o.kres*OCa - o.kform*OBa
	f[4] = o.kform*OBa - o.kres*OCa
	return nil
}

// ranklActivationDirect is the Hill activation on the RANKL concentration
// itself, as used by the mechanics-aware family
func (o *Scheiner) ranklActivationDirect(OBp, OBa, t float64) float64 {
	l := o.ranklConcentration(OBp, OBa, t)
	return l / (l + o.kactRANKL)
}

// mechanicalEffectOBp converts the strain energy density deviation from the
// habitual state into additional pre-osteoblast proliferation. The
// proliferation rate is anchored so that at the habitual state it equals a
// fraction of the uncommitted differentiation influx.
func (o *Scheiner) mechanicalEffectOBp(OBp, OCa, pvas, fbm, t float64) (float64, error) {
	if t < 0 {
		return 0, nil
	}
	mu, err := o.strainEffectOBp(pvas, fbm, t)
	if err != nil {
		return 0, err
	}
	p := o.dobu * o.frac * o.tgfbActivationOBu(OCa, t) / (o.ssOBp / mu)
	return p * OBp * mu, nil
}

func (o *Scheiner) strainEffectOBp(pvas, fbm, t float64) (float64, error) {
	if t <= o.lc.Start() {
		return o.mu0, nil
	}
	sed, err := o.sed(pvas, fbm, o.currentStress())
	if err != nil {
		return 0, err
	}
	return o.mu0 * (1 + o.lam*(sed-o.sedSS)/o.sedSS), nil
}

// mixtureSED evaluates the strain energy density under the pinned uniaxial
// stress using a volume fraction mixture of the constituent stiffnesses
func (o *Scheiner) mixtureSED(pvas, fbm, sig float64) (float64, error) {
	c := la.MatAlloc(6, 6)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			c[i][j] = fbm/100.0*o.cbm[i][j] + pvas/100.0*o.cvas[i][j]
		}
	}
	s := la.MatAlloc(6, 6)
	if err := la.MatInvG(s, c, 1e-10); err != nil {
		return 0, chk.Err("scheiner: cannot invert stiffness tensor:\n%v", err)
	}
	sigv := []float64{0, 0, sig, 0, 0, 0}
	eps := make([]float64, 6)
	la.MatVecMul(eps, 1, s, sigv)
	return 0.5 * la.VecDot(sigv, eps), nil
}

// AxialStiffness returns the longitudinal component of the mixture
// stiffness tensor for the given bone matrix fraction [GPa]
func (o *Scheiner) AxialStiffness(pvas, fbm float64) float64 {
	return fbm/100.0*o.cbm[2][2] + pvas/100.0*o.cvas[2][2]
}
