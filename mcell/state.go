// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

// State holds the instantaneous condition of a cell population model
type State struct {

	// essential
	OBp float64 // pre-osteoblast concentration [pM]
	OBa float64 // active osteoblast concentration [pM]
	OCa float64 // active osteoclast concentration [pM]

	// resolved pre-osteoclasts (if Nstate > 5)
	OCp float64 // pre-osteoclast concentration [pM]

	// mechanics-aware variants (if Nstate > 3); six-channel models carry
	// fractions in [0,1] here instead of percentages
	Pvas float64 // vascular pore volume fraction
	Fbm  float64 // bone matrix volume fraction
}

// NewState builds a state from a raw solution vector with nstate channels
func NewState(y []float64, nstate int) *State {
	if nstate > 5 {
		return &State{OBp: y[0], OBa: y[1], OCp: y[2], OCa: y[3], Pvas: y[4], Fbm: y[5]}
	}
	s := &State{OBp: y[0], OBa: y[1], OCa: y[2]}
	if nstate > 3 {
		s.Pvas = y[3]
		s.Fbm = y[4]
	}
	return s
}

// Vec writes the state into a raw solution vector with nstate channels
func (o *State) Vec(nstate int) []float64 {
	y := make([]float64, nstate)
	if nstate > 5 {
		y[0], y[1], y[2], y[3] = o.OBp, o.OBa, o.OCp, o.OCa
		y[4], y[5] = o.Pvas, o.Fbm
		return y
	}
	y[0], y[1], y[2] = o.OBp, o.OBa, o.OCa
	if nstate > 3 {
		y[3] = o.Pvas
		y[4] = o.Fbm
	}
	return y
}

// Set copies states
func (o *State) Set(other *State) {
	*o = *other
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := *o
	return &other
}

// Nonneg tells whether all concentrations are non-negative
func (o *State) Nonneg() bool {
	return o.OBp >= 0 && o.OBa >= 0 && o.OCp >= 0 && o.OCa >= 0
}
