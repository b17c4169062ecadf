// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"github.com/cpmech/gosl/ode"
)

// Trajectory holds the sampled solution of a model, channel-major:
// Y[i][k] is the value of channel i at time T[k]
type Trajectory struct {
	T []float64   // sample times [day]
	Y [][]float64 // channel values at the sample times [nstate][len(T)]
}

func newTrajectory(nstate int) *Trajectory {
	return &Trajectory{Y: make([][]float64, nstate)}
}

func (o *Trajectory) append(t float64, y []float64) {
	o.T = append(o.T, t)
	for i := range o.Y {
		o.Y[i] = append(o.Y[i], y[i])
	}
}

// Len returns the number of samples
func (o *Trajectory) Len() int { return len(o.T) }

// LastY returns the state at the final sample
func (o *Trajectory) LastY() []float64 {
	y := make([]float64, len(o.Y))
	for i := range o.Y {
		y[i] = o.Y[i][len(o.T)-1]
	}
	return y
}

// LastState returns the final sample as a State
func (o *Trajectory) LastState() *State {
	return NewState(o.LastY(), len(o.Y))
}

// Solve integrates the model from t0 to tf. y0 == nil starts from the
// computed steady state. The integration restarts at every load case
// boundary so box-profile interventions are resolved exactly.
func Solve(m Model, t0, tf float64, y0 []float64) (res *Trajectory, err error) {
	n := m.Nstate()
	if y0 == nil {
		s, err := SteadyState(m)
		if err != nil {
			return nil, err
		}
		y0 = s.Vec(n)
	}
	y := make([]float64, n)
	copy(y, y0)
	res = newTrajectory(n)
	res.append(t0, y)
	a := t0
	for _, b := range append(m.LoadCase().Boundaries(t0, tf), tf) {
		if b <= a {
			continue
		}
		if err = solveSegment(m, a, b, y, res); err != nil {
			return nil, err
		}
		a = b
	}
	return
}

// solveSegment integrates one window with stage-constant parameters
func solveSegment(m Model, a, b float64, y []float64, res *Trajectory) error {
	if err := m.SetStage(a, b); err != nil {
		return err
	}
	fcn := func(f []float64, x float64, yy []float64, args ...interface{}) error {
		return m.Rhs(f, x, yy)
	}
	out := func(first bool, dx, x float64, yy []float64, args ...interface{}) error {
		if !first {
			res.append(x, yy)
		}
		return nil
	}
	var sol ode.ODE
	sol.Init("Radau5", m.Nstate(), fcn, nil, nil, out, true)
	sol.Distr = false
	sol.SetTol(1e-8, 1e-8)
	if err := sol.Solve(y, a, b, (b-a)/10.0, false); err != nil {
		return &IntegrationError{Model: m.Name(), T0: a, T1: b, Last: res.LastY(), Msg: err.Error()}
	}
	return nil
}

// VolumeFractionChange integrates the net bone matrix balance along a
// trajectory of a three-channel model. kform and kres are the formation and
// resorption rates; obaSS and ocaSS the steady state concentrations whose
// contribution is balanced. Returns the cumulative change at every sample.
func VolumeFractionChange(res *Trajectory, kform, kres, obaSS, ocaSS float64) []float64 {
	n := res.Len()
	d := make([]float64, n)
	rate := func(k int) float64 {
		return kform*(res.Y[1][k]-obaSS) - kres*(res.Y[2][k]-ocaSS)
	}
	for k := 1; k < n; k++ {
		dt := res.T[k] - res.T[k-1]
		d[k] = d[k-1] + 0.5*dt*(rate(k)+rate(k-1))
	}
	return d
}
