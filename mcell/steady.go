// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"

	"github.com/cpmech/gosl/num"
)

// ssRtol is the residual tolerance for accepting a steady state
const ssRtol = 1e-8

// steadyStater is implemented by models with a dedicated fixed point
// computation replacing the generic root solve
type steadyStater interface {
	steadyState() (*State, error)
}

// SteadyState finds the unperturbed fixed point of the model by solving
// Rhs = 0 at the reference time. Only the leading Ncell channels are
// unknowns; volume fraction channels carry their initial values since their
// rates vanish when formation and resorption balance.
func SteadyState(m Model) (*State, error) {
	if ss, ok := m.(steadyStater); ok {
		return ss.steadyState()
	}
	if err := m.SetStage(RefTime, RefTime); err != nil {
		return nil, err
	}
	nc, n := m.Ncell(), m.Nstate()
	full := m.InitGuess()
	f := make([]float64, n)
	ffcn := func(fx, x []float64) error {
		copy(full[:nc], x)
		if err := m.Rhs(f, RefTime, full); err != nil {
			return err
		}
		copy(fx, f[:nc])
		return nil
	}

	var nls num.NlSolver
	nls.Init(nc, ffcn, nil, nil, false, true, nil)
	defer nls.Clean()
	nls.ChkConv = false

	x := make([]float64, nc)
	copy(x, full[:nc])
	if err := nls.Solve(x, true); err != nil {
		return nil, &SteadyStateError{Model: m.Name(), Msg: err.Error()}
	}
	copy(full[:nc], x)

	// admissibility
	if err := m.Rhs(f, RefTime, full); err != nil {
		return nil, err
	}
	for i := 0; i < nc; i++ {
		if math.Abs(f[i]) > ssRtol {
			return nil, &SteadyStateError{Model: m.Name(), Msg: "residual above tolerance"}
		}
	}
	s := NewState(full, n)
	if !s.Nonneg() {
		return nil, &SteadyStateError{Model: m.Name(), Msg: "negative concentration"}
	}
	return s, nil
}
