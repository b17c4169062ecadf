// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Ruffoni evolves the bone mineralisation density distribution (BMDD) of
// Ruffoni et al. (2007). Newly formed bone enters at zero calcium content,
// the mineralisation velocity transports it toward higher content and
// resorption removes it uniformly across all contents:
//
//	d(rho)/dt + d(rho v)/dC = -r rho,  rho(0,t) v(0) = f(t)
//
// The distribution lives on a fixed finite volume grid in calcium content
// and is advanced with upwind fluxes. Unlike the population models, time is
// measured in years here, following the turnover scale of the source.
type Ruffoni struct {

	// grid
	nx   int     // number of cells in calcium content
	cmax float64 // maximum calcium content [%wt]

	// turnover
	formation  float64 // formed volume per unit reference volume [1/year]
	resorption float64 // resorption rate [1/year]
	vol0       float64 // reference bone volume [mm^3]

	// double hyperbolic mineralisation law
	cprim, csec float64 // asymptotic contents of the two phases [%wt]
	rprim, rsec float64 // characteristic times of the two phases [year]

	// derived
	dx    float64
	cc    []float64 // cell center contents [%wt]
	vface []float64 // mineralisation velocity at the faces [%wt/year]
	rho   []float64 // distribution over the cells [mm^3/%wt]
}

// RuffoniResults holds the saved evolution of the distribution
type RuffoniResults struct {
	Calcium []float64   // cell center calcium contents [%wt]
	T       []float64   // saved times [year]
	BV      []float64   // bone volume at the saved times [mm^3]
	Dist    [][]float64 // distribution at the saved times [len(T)][nx]
}

// GetPrms returns the parameters of Ruffoni et al. (2007)
func (o *Ruffoni) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "formation", V: 0.1},
		&fun.Prm{N: "resorption", V: 0.1},
		&fun.Prm{N: "vol0", V: 2.4},
		&fun.Prm{N: "cmax", V: 31.0},
		&fun.Prm{N: "cprim", V: 11.9},
		&fun.Prm{N: "csec", V: 19.2},
		&fun.Prm{N: "rprim", V: 150.0},
		&fun.Prm{N: "rsec", V: 0.1},
	}
}

// Init builds the calcium grid, the face velocities from the mineralisation
// law and the steady distribution sustained by the habitual turnover
func (o *Ruffoni) Init(nx int, prms fun.Prms) error {
	if nx < 2 {
		return chk.Err("ruffoni: grid needs at least 2 cells, got %d", nx)
	}
	if prms == nil {
		prms = o.GetPrms()
	}
	for _, p := range prms {
		switch p.N {
		case "formation":
			o.formation = p.V
		case "resorption":
			o.resorption = p.V
		case "vol0":
			o.vol0 = p.V
		case "cmax":
			o.cmax = p.V
		case "cprim":
			o.cprim = p.V
		case "csec":
			o.csec = p.V
		case "rprim":
			o.rprim = p.V
		case "rsec":
			o.rsec = p.V
		default:
			return chk.Err("ruffoni: unknown parameter %q", p.N)
		}
	}
	if o.cprim+o.csec <= o.cmax {
		return chk.Err("ruffoni: the law must reach cmax=%g; asymptote is %g", o.cmax, o.cprim+o.csec)
	}

	o.nx = nx
	o.dx = o.cmax / float64(nx)
	o.cc = make([]float64, nx)
	o.vface = make([]float64, nx+1)
	for j := 0; j < nx; j++ {
		o.cc[j] = (float64(j) + 0.5) * o.dx
	}
	for i := 0; i <= nx; i++ {
		o.vface[i] = o.velocity(float64(i) * o.dx)
	}

	// steady distribution: rho(C) = F/v(C) exp(-int r/v dC')
	F := o.formation * o.vol0
	o.rho = make([]float64, nx)
	integ, prev := 0.0, o.resorption/o.velocity(0)
	for j := 0; j < nx; j++ {
		g := o.resorption / o.velocity(o.cc[j])
		w := o.dx
		if j == 0 {
			w = 0.5 * o.dx
		}
		integ += 0.5 * w * (prev + g)
		prev = g
		o.rho[j] = F / o.velocity(o.cc[j]) * math.Exp(-integ)
	}
	return nil
}

// lawContent is the double hyperbolic mineralisation law mapping tissue age
// to calcium content
func (o *Ruffoni) lawContent(t float64) float64 {
	return o.cprim*(t/o.rprim)/(1+t/o.rprim) + o.csec*(t/o.rsec)/(1+t/o.rsec)
}

func (o *Ruffoni) lawRate(t float64) float64 {
	a := 1 + t/o.rprim
	b := 1 + t/o.rsec
	return o.cprim/(o.rprim*a*a) + o.csec/(o.rsec*b*b)
}

// velocity is the mineralisation velocity at calcium content c, obtained by
// inverting the monotone law with bisection
func (o *Ruffoni) velocity(c float64) float64 {
	const vmin = 1e-9
	if c <= 0 {
		return o.lawRate(0)
	}
	lo, hi := 0.0, 1.0
	for o.lawContent(hi) < c {
		hi *= 2
		if hi > 1e12 {
			return vmin
		}
	}
	for k := 0; k < 80; k++ {
		mid := 0.5 * (lo + hi)
		if o.lawContent(mid) < c {
			lo = mid
		} else {
			hi = mid
		}
	}
	v := o.lawRate(0.5 * (lo + hi))
	if v < vmin {
		return vmin
	}
	return v
}

// BoneVolume integrates the distribution over the calcium axis
func (o *Ruffoni) BoneVolume() float64 {
	var sum float64
	for _, r := range o.rho {
		sum += r
	}
	return sum * o.dx
}

// Solve advances the distribution to tf [year], saving every save years.
// The time step obeys the advective stability limit of the fastest face.
func (o *Ruffoni) Solve(tf, save float64) (*RuffoniResults, error) {
	if o.nx == 0 {
		return nil, chk.Err("ruffoni: Init must be called before Solve")
	}
	if tf <= 0 {
		return nil, chk.Err("ruffoni: final time must be positive, got %g", tf)
	}
	vmax := o.vface[0]
	for _, v := range o.vface {
		if v > vmax {
			vmax = v
		}
	}
	dt := 0.5 * o.dx / vmax
	if dt*o.resorption > 0.5 {
		dt = 0.5 / o.resorption
	}

	res := &RuffoniResults{Calcium: o.cc}
	record := func(t float64) {
		cp := make([]float64, o.nx)
		copy(cp, o.rho)
		res.T = append(res.T, t)
		res.BV = append(res.BV, o.BoneVolume())
		res.Dist = append(res.Dist, cp)
	}
	record(0)

	flux := make([]float64, o.nx+1)
	t, lastSave := 0.0, 0.0
	for t < tf {
		if t+dt > tf {
			dt = tf - t
		}
		flux[0] = o.formation * o.vol0
		for i := 1; i < o.nx; i++ {
			flux[i] = o.vface[i] * o.rho[i-1]
		}
		flux[o.nx] = o.vface[o.nx] * o.rho[o.nx-1]
		for j := 0; j < o.nx; j++ {
			o.rho[j] += dt * (-(flux[j+1]-flux[j])/o.dx - o.resorption*o.rho[j])
			if o.rho[j] < 0 {
				o.rho[j] = 0
			}
		}
		t += dt
		if save > 0 && t-lastSave >= save-1e-12 {
			record(t)
			lastSave = t
		}
	}
	if len(res.T) == 0 || res.T[len(res.T)-1] < tf {
		record(tf)
	}
	return res, nil
}
