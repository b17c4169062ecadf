// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mreceptor implements the two state PTH receptor model of
// Martonova et al. (2023), built on the receptor desensitisation theory of
// Li and Goldbeter. Pulsatile PTH stimulation drives a normalised receptor
// kinetics ODE whose weighted occupancies define the cellular activity;
// the integrated activity and the cellular responsiveness condense one
// pulse of that signal into constants consumed by the population models.
package mreceptor

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/ode"
)

// Activity holds the condensed activity constants of one scenario
type Activity struct {
	Basal          float64 // activity at the tonic baseline
	Integrated     float64 // activity integrated over one pulse
	Responsiveness float64 // pulse sensitivity relative to a step increase
}

// Model evaluates the receptor kinetics for one scenario
type Model struct {

	// desensitisation kinetics [1/min]
	k1  float64 // receptor desensitisation
	km1 float64 // receptor resensitisation
	k2  float64 // complex desensitisation
	km2 float64 // complex resensitisation
	kr  float64 // active complex binding
	kmr float64 // active complex unbinding
	kd  float64 // inactive complex binding
	kmd float64 // inactive complex unbinding

	// equilibrium constants
	kcR float64 // K1, receptor
	kcC float64 // K2, complex
	kcB float64 // Kr, binding

	// activity weights
	a1 float64 // active receptor
	a2 float64 // active complex
	a3 float64 // inactive complex
	a4 float64 // inactive receptor

	// pharmacokinetics of subcutaneous PTH
	pkAbsorb float64 // absorption rate [1/min]
	pkElim   float64 // elimination rate [1/min]
	pkBioav  float64 // bioavailability
	pkVol    float64 // distribution volume [l]

	scn *Scenario
	inj *Pulse // square wave approximation of the drug, nil without drug

	actper  int // periods to adapt before condensing the activity
	rtol    float64
	subdivs float64
}

// NewModel allocates the receptor model for one scenario and derives the
// drug pulse if the scenario administers one
func NewModel(scn *Scenario) (*Model, error) {
	if scn == nil {
		return nil, chk.Err("mreceptor: scenario must not be nil")
	}
	o := &Model{
		k1: 0.012, km1: 0.104,
		k2: 0.222, km2: 0.055,
		kr: 1, kmr: 1000, kd: 1,
		a1: 2000, a3: 1000, a4: 100,
		pkAbsorb: 0.048, pkElim: 0.0127,
		pkBioav: 0.95, pkVol: 5.0,
		scn:    scn,
		actper: 20,
		rtol:   1e-7, subdivs: 10,
	}
	o.kcR = o.k1 / o.km1
	o.kcC = o.k2 / o.km2
	o.kcB = o.kmr / o.kr
	o.kmd = o.kcB / (o.kcR / o.kcC) * o.kr
	o.a2 = ((o.a1*o.kcR+o.a4)/(o.kcR+1)*(o.kcC+1) - o.a3) / o.kcC
	if scn.DrugDose > 0 {
		if err := o.deriveDrugPulse(); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// InjectedPulse returns the derived drug pulse, nil without drug
func (o *Model) InjectedPulse() *Pulse { return o.inj }

// pthConcentration returns the scaled stimulus at time t [min]. Both the
// glandular pulse and, when present, the injected pulse contribute their
// on phase concentration on top of the shared tonic baseline.
func (o *Model) pthConcentration(t float64) float64 {
	b := o.scn.Basal
	c := b.Min
	if o.onPhase(t, b.Period(), b.OnDur) {
		c += b.Max
	}
	if o.inj != nil && o.onPhase(t, o.inj.Period(), o.inj.OnDur) {
		c += o.inj.Max
	}
	return c * o.kcB
}

func (o *Model) onPhase(t, period, on float64) bool {
	k := math.Floor(t / period)
	return t-k*period <= on
}

// rhs evaluates the normalised receptor kinetics: active receptor R,
// active complex C and desensitised complex Cd; the desensitised receptor
// fraction follows from conservation
func (o *Model) rhs(f []float64, t float64, y []float64) {
	r, c, cd := y[0], y[1], y[2]
	rd := 1 - r - c - cd
	pth := o.pthConcentration(t)
	f[0] = -o.kr*r*pth - o.k1*r + o.kmr*c + o.km1*rd
	f[1] = o.kr*r*pth - o.kmr*c - o.k2*c + o.km2*cd
	f[2] = o.k2*c - o.km2*cd - o.kmd*cd + o.kd*pth*rd
}

// alpha returns the cellular activity of a receptor state
func (o *Model) alpha(y []float64) float64 {
	r, c, cd := y[0], y[1], y[2]
	rd := 1 - r - c - cd
	return o.a1*r + o.a2*c + o.a3*cd + o.a4*rd
}

// BasalActivity returns the activity at the tonic baseline
func (o *Model) BasalActivity() float64 {
	return (o.a1*o.kcR + o.a4) / (1 + o.kcR)
}

// Run integrates the receptor kinetics until the pulse response has
// adapted and condenses one pulse into the activity constants
func (o *Model) Run() (*Activity, error) {
	y := []float64{0.9, 0, 0}
	basal := o.BasalActivity()
	bper := o.scn.Basal.Period()

	// let the receptor pool adapt to the pulse train
	ws := float64(o.actper) * bper
	if err := o.integrate(y, 0, ws); err != nil {
		return nil, err
	}

	// integrated activity over the on phase of one adapted pulse
	ai, err := o.integrateActivity(y, ws, ws+o.scn.Basal.OnDur, basal)
	if err != nil {
		return nil, err
	}
	aiStep := o.stepIntegratedActivity(o.scn.Basal.Min + o.scn.Basal.Max)
	res := &Activity{
		Basal:          basal,
		Integrated:     ai,
		Responsiveness: ai / aiStep * ai / bper,
	}
	if o.inj == nil {
		return res, nil
	}

	// drug pulses repeat on a much longer period; condense one of those too
	iws := float64(o.actper) * o.inj.Period()
	if err := o.integrate(y, ws+o.scn.Basal.OnDur, iws); err != nil {
		return nil, err
	}
	aiInj, err := o.integrateActivity(y, iws, iws+o.inj.OnDur, basal)
	if err != nil {
		return nil, err
	}
	aiInjStep := o.stepIntegratedActivity(o.scn.Basal.Min + o.inj.Max)
	res.Integrated += aiInj
	res.Responsiveness += aiInj / aiInjStep * aiInj / o.inj.Period()
	return res, nil
}

// integrate advances the receptor state from a to b, splitting at the
// pulse edges so the stimulus is constant within each solver call
func (o *Model) integrate(y []float64, a, b float64) error {
	fcn := func(f []float64, x float64, yy []float64, args ...interface{}) error {
		o.rhs(f, x, yy)
		return nil
	}
	return o.solvePieces(y, a, b, 3, fcn)
}

// integrateActivity advances the state from a to b while accumulating the
// activity above basal as a quadrature channel; returns the magnitude of
// the accumulated activity
func (o *Model) integrateActivity(y []float64, a, b, basal float64) (float64, error) {
	yy := []float64{y[0], y[1], y[2], 0}
	fcn := func(f []float64, x float64, z []float64, args ...interface{}) error {
		o.rhs(f, x, z)
		f[3] = o.alpha(z) - basal
		return nil
	}
	if err := o.solvePieces(yy, a, b, 4, fcn); err != nil {
		return 0, err
	}
	copy(y, yy[:3])
	return math.Abs(yy[3]), nil
}

func (o *Model) solvePieces(y []float64, a, b float64, ndim int, fcn ode.Cb_fcn) error {
	edges := o.pulseEdges(a, b)
	var sol ode.ODE
	sol.Init("Radau5", ndim, fcn, nil, nil, nil, true)
	sol.Distr = false
	sol.SetTol(o.rtol, o.rtol)
	for i := 1; i < len(edges); i++ {
		s0, s1 := edges[i-1], edges[i]
		if err := sol.Solve(y, s0, s1, (s1-s0)/o.subdivs, false); err != nil {
			return chk.Err("mreceptor: integration failed on [%g,%g]:\n%v", s0, s1, err)
		}
	}
	return nil
}

// pulseEdges returns the sorted phase switch times of all pulse trains
// within [a,b], including both endpoints
func (o *Model) pulseEdges(a, b float64) []float64 {
	edges := []float64{a, b}
	add := func(period, on float64) {
		for k := math.Floor(a / period); k*period < b; k++ {
			for _, e := range []float64{k * period, k*period + on} {
				if e > a && e < b {
					edges = append(edges, e)
				}
			}
		}
	}
	add(o.scn.Basal.Period(), o.scn.Basal.OnDur)
	if o.inj != nil {
		add(o.inj.Period(), o.inj.OnDur)
	}
	sort.Float64s(edges)
	out := edges[:1]
	for _, e := range edges[1:] {
		if e-out[len(out)-1] > 1e-12 {
			out = append(out, e)
		}
	}
	return out
}

// stepIntegratedActivity returns the activity integral responding to a
// step increase of the stimulus from the tonic baseline, from the
// adaptation analytics of Li and Goldbeter
func (o *Model) stepIntegratedActivity(c float64) float64 {
	q := o.adaptedDesensitised(c) - o.adaptedDesensitised(o.scn.Basal.Min)
	dw := o.weightActive(c) - o.weightDesensitised(c)
	tau := 1 / (o.desensContribution(c) + o.resensContribution(c))
	return q * dw * tau
}

// desensContribution is the term u of the adaptation analytics
func (o *Model) desensContribution(c float64) float64 {
	return (o.k1 + o.k2*c) / (1 + c)
}

// resensContribution is the term v of the adaptation analytics
func (o *Model) resensContribution(c float64) float64 {
	k := o.kcR / o.kcC
	return (o.km1 + o.km2*c*k) / (1 + c*k)
}

// adaptedDesensitised returns the desensitised receptor fraction after
// full adaptation to a constant stimulus
func (o *Model) adaptedDesensitised(c float64) float64 {
	u, v := o.desensContribution(c), o.resensContribution(c)
	return u / (u + v)
}

func (o *Model) weightActive(c float64) float64 {
	return (o.a1 + o.a2*c) / (1 + c)
}

func (o *Model) weightDesensitised(c float64) float64 {
	k := o.kcR / o.kcC
	return (o.a4 + o.a3*c*k) / (1 + c*k)
}

// deriveDrugPulse integrates the one compartment subcutaneous absorption
// model until the serum concentration returns to the tonic baseline and
// condenses the response into a square pulse of equal area and peak
func (o *Model) deriveDrugPulse() error {
	dose := o.scn.DrugDose * 1e6 / 4117.8 // mg to pmol
	base := o.scn.Basal.Min * 1000        // nM to pM
	y := []float64{dose, base, 0}
	fcn := func(f []float64, x float64, z []float64, args ...interface{}) error {
		f[0] = -o.pkAbsorb * z[0] * o.pkBioav
		f[1] = o.pkBioav/o.pkVol*o.pkAbsorb*z[0] - o.pkElim*z[1]
		f[2] = z[1]
		return nil
	}
	var sol ode.ODE
	sol.Init("Radau5", 3, fcn, nil, nil, nil, true)
	sol.Distr = false
	sol.SetTol(o.rtol, o.rtol)
	horizon := o.scn.InjFreq * 60
	cmax, tend := base, horizon
	risen := false
	for t := 0.0; t < horizon; t += 1.0 {
		if err := sol.Solve(y, t, t+1, 0.1, false); err != nil {
			return chk.Err("mreceptor: pharmacokinetics failed at t=%g:\n%v", t, err)
		}
		if y[1] > cmax {
			cmax = y[1]
		}
		if y[1] > base*1.001 {
			risen = true
		}
		if risen && y[1] <= base {
			tend = t + 1
			break
		}
	}
	if cmax <= base {
		return chk.Err("mreceptor: drug dose %g mg produces no concentration rise", o.scn.DrugDose)
	}
	area := y[2] - base*tend
	on := area / (cmax - base) * 60
	o.inj = &Pulse{
		Max:    (cmax - base) / 1000, // pM to nM
		OnDur:  on,
		OffDur: horizon - on,
	}
	return nil
}
