// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadcase defines external interventions applied to bone cell
// population models: parameter overrides and concentration injections that
// act over finite time windows.
package loadcase

import (
	"fmt"
	"sort"

	"github.com/cpmech/gosl/fun"
)

// UnknownParamError indicates a lookup of a parameter name that is absent
// from a parameter set
type UnknownParamError struct {
	Set  string // set or model name
	Name string // parameter name
}

func (o *UnknownParamError) Error() string {
	return fmt.Sprintf("parameter named %q is not in set %q", o.Name, o.Set)
}

// InvalidError indicates a malformed load case definition
type InvalidError struct {
	Case string // case name
	Msg  string // what is wrong
}

func (o *InvalidError) Error() string {
	return fmt.Sprintf("load case %q is invalid: %s", o.Case, o.Msg)
}

// Interval applies one intervention over the window [T0,T1). Mult entries
// scale named model parameters; Add entries inject a constant rate into a
// named concentration channel while the window is active.
type Interval struct {
	T0   float64            // start time [day]
	T1   float64            // end time [day]
	Mult map[string]float64 // multiplicative parameter overrides
	Add  map[string]float64 // additive concentration injections [pM/day]
}

// Case holds a named collection of intervention intervals. The zero value
// is a valid case with no interventions.
type Case struct {
	Name      string
	Intervals []Interval
}

// Resolve returns the value of the named parameter in prms
func Resolve(prms fun.Prms, set, name string) (float64, error) {
	for _, p := range prms {
		if p.N == name {
			return p.V, nil
		}
	}
	return 0, &UnknownParamError{Set: set, Name: name}
}

// Validate checks interval windows and override targets against a base
// parameter set. Unknown override targets and inverted windows are errors,
// and no two intervals acting on the same target may overlap in time.
func (o *Case) Validate(base fun.Prms) error {
	if o == nil {
		return nil
	}
	for i, iv := range o.Intervals {
		if iv.T1 <= iv.T0 {
			return &InvalidError{Case: o.Name, Msg: fmt.Sprintf("interval %d has T1=%g <= T0=%g", i, iv.T1, iv.T0)}
		}
		for name := range iv.Mult {
			if _, err := Resolve(base, o.Name, name); err != nil {
				return &InvalidError{Case: o.Name, Msg: fmt.Sprintf("interval %d overrides unknown parameter %q", i, name)}
			}
		}
	}
	if err := o.checkOverlaps("multiplier", func(iv Interval) map[string]float64 { return iv.Mult }); err != nil {
		return err
	}
	return o.checkOverlaps("injection", func(iv Interval) map[string]float64 { return iv.Add })
}

// checkOverlaps rejects pairs of intervals whose windows intersect while
// acting on the same target. Multiplier and injection targets live in
// separate namespaces.
func (o *Case) checkOverlaps(kind string, targets func(iv Interval) map[string]float64) error {
	type window struct {
		i      int
		t0, t1 float64
	}
	byTarget := make(map[string][]window)
	for i, iv := range o.Intervals {
		for name := range targets(iv) {
			byTarget[name] = append(byTarget[name], window{i, iv.T0, iv.T1})
		}
	}
	for name, ws := range byTarget {
		sort.Slice(ws, func(a, b int) bool { return ws[a].t0 < ws[b].t0 })
		for k := 1; k < len(ws); k++ {
			if ws[k].t0 < ws[k-1].t1 {
				return &InvalidError{Case: o.Name, Msg: fmt.Sprintf(
					"intervals %d and %d overlap on %s %q", ws[k-1].i, ws[k].i, kind, name)}
			}
		}
	}
	return nil
}

// Apply returns a copy of base with all overrides active at time t applied.
// base is not modified. Validate guarantees at most one interval acts on a
// given parameter at any time.
func (o *Case) Apply(base fun.Prms, t float64) fun.Prms {
	res := make(fun.Prms, len(base))
	for i, p := range base {
		q := *p
		res[i] = &q
	}
	if o == nil {
		return res
	}
	for _, iv := range o.Intervals {
		if t < iv.T0 || t >= iv.T1 {
			continue
		}
		for name, m := range iv.Mult {
			for _, p := range res {
				if p.N == name {
					p.V *= m
				}
			}
		}
	}
	return res
}

// Injection returns the total additive rate for the named channel at time t
func (o *Case) Injection(name string, t float64) (sum float64) {
	if o == nil {
		return 0
	}
	for _, iv := range o.Intervals {
		if t < iv.T0 || t >= iv.T1 {
			continue
		}
		sum += iv.Add[name]
	}
	return
}

// Boundaries returns the sorted set of interval edges strictly inside
// (t0,tf). Integrations must restart at these times so that box-profile
// interventions do not fall inside an adaptive step.
func (o *Case) Boundaries(t0, tf float64) []float64 {
	if o == nil {
		return nil
	}
	seen := make(map[float64]bool)
	var edges []float64
	add := func(t float64) {
		if t > t0 && t < tf && !seen[t] {
			seen[t] = true
			edges = append(edges, t)
		}
	}
	for _, iv := range o.Intervals {
		add(iv.T0)
		add(iv.T1)
	}
	sort.Float64s(edges)
	return edges
}

// Active tells whether any interval covers time t
func (o *Case) Active(t float64) bool {
	if o == nil {
		return false
	}
	for _, iv := range o.Intervals {
		if t >= iv.T0 && t < iv.T1 {
			return true
		}
	}
	return false
}

// Start returns the earliest interval start, or 0 if the case is empty
func (o *Case) Start() float64 {
	if o == nil || len(o.Intervals) == 0 {
		return 0
	}
	t := o.Intervals[0].T0
	for _, iv := range o.Intervals[1:] {
		if iv.T0 < t {
			t = iv.T0
		}
	}
	return t
}
