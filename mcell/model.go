// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mcell implements bone cell population models: coupled systems of
// ordinary differential equations for the concentrations of pre-osteoblasts,
// active osteoblasts and active osteoclasts, regulated by the biochemical
// factors TGF-beta, PTH, OPG, RANKL and RANK. Mechanics-aware variants add
// vascular pore and bone matrix volume fractions and feed strain energy
// density back into cell proliferation.
package mcell

import (
	"sort"

	"github.com/cmodiz/Bone-Models/loadcase"
	"github.com/cpmech/gosl/fun"
)

// RefTime is the time handed to rate functions when evaluating the
// unperturbed steady state. Load cases act on t >= 0 only, so any negative
// time sees the intrinsic parameter values.
const RefTime = -1.0

// Model defines bone cell population models
type Model interface {

	// Name returns the registered name of the model
	Name() string

	// Init initialises the model with a load case and parameters.
	// prms == nil means the default parameter set from GetPrms.
	Init(lc *loadcase.Case, prms fun.Prms) error

	// GetPrms returns the default parameters
	GetPrms() fun.Prms

	// LoadCase returns the load case given to Init
	LoadCase() *loadcase.Case

	// SetStage prepares the model for integrating over [t0,t1]: effective
	// parameters and injection rates are resolved once for the window, so
	// the rate function runs free of name lookups
	SetStage(t0, t1 float64) error

	// Nstate returns the number of state channels
	Nstate() int

	// Ncell returns the number of leading cell concentration channels.
	// Only these participate in root finding for the steady state; volume
	// fraction channels are balanced identically there.
	Ncell() int

	// InitGuess returns the starting point for the steady state search
	InitGuess() []float64

	// Rhs computes the rates f := dy/dt at time t
	Rhs(f []float64, t float64, y []float64) error
}

// allocators holds all available models
var allocators = make(map[string]func() Model)

// New returns a new model or nil if name is not available
func New(name string) Model {
	if alloc, ok := allocators[name]; ok {
		return alloc()
	}
	return nil
}

// ModelNames returns the names of all available models
func ModelNames() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
