// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadcase

import "sort"

// Catalog of canonical interventions. The hormone and cell injection cases
// reproduce the perturbation studies of Lemaire et al. (2004): a single
// constant-rate injection or removal acting over days 20 to 80. The
// mechanical cases scale the applied axial stress of mechanics-aware models.

// injection builds a single box injection on channel name over [20,80)
func injection(caseName, channel string, rate float64) *Case {
	return &Case{
		Name: caseName,
		Intervals: []Interval{
			{T0: 20, T1: 80, Add: map[string]float64{channel: rate}},
		},
	}
}

// ActiveOsteoblastInjection raises active osteoblasts by 1e-4 pM/day
func ActiveOsteoblastInjection() *Case { return injection("oba-injection", "oba", 1e-4) }

// ActiveOsteoblastRemoval depletes active osteoblasts at 8.3e-5 pM/day
func ActiveOsteoblastRemoval() *Case { return injection("oba-removal", "oba", -8.3e-5) }

// PTHInjection administers parathyroid hormone at 1e3 pM/day
func PTHInjection() *Case { return injection("pth-injection", "pth", 1e3) }

// ActiveOsteoclastInjection raises active osteoclasts by 1e-4 pM/day
func ActiveOsteoclastInjection() *Case { return injection("oca-injection", "oca", 1e-4) }

// ActiveOsteoclastRemoval depletes active osteoclasts at 2.9e-4 pM/day
func ActiveOsteoclastRemoval() *Case { return injection("oca-removal", "oca", -2.9e-4) }

// OPGInjection administers osteoprotegerin at 2e5 pM/day
func OPGInjection() *Case { return injection("opg-injection", "opg", 2e5) }

// PreOsteoblastInjection raises pre-osteoblasts by 1e-4 pM/day
func PreOsteoblastInjection() *Case { return injection("obp-injection", "obp", 1e-4) }

// PreOsteoblastRemoval depletes pre-osteoblasts at 1.2e-3 pM/day
func PreOsteoblastRemoval() *Case { return injection("obp-removal", "obp", -1.2e-3) }

// RANKLInjection administers RANKL at 10 pM/day
func RANKLInjection() *Case { return injection("rankl-injection", "rankl", 10) }

// Disuse scales the applied axial stress by factor f in [0,1) over the
// window [t0,t1). f=0 removes the habitual load entirely.
func Disuse(t0, t1, f float64) *Case {
	return &Case{
		Name: "disuse",
		Intervals: []Interval{
			{T0: t0, T1: t1, Mult: map[string]float64{"sig0": f}},
		},
	}
}

// Overuse scales the applied axial stress by factor f > 1 over [t0,t1)
func Overuse(t0, t1, f float64) *Case {
	return &Case{
		Name: "overuse",
		Intervals: []Interval{
			{T0: t0, T1: t1, Mult: map[string]float64{"sig0": f}},
		},
	}
}

// catalog maps names onto the canonical interventions
var catalog = map[string]func() *Case{
	"oba-injection":   ActiveOsteoblastInjection,
	"oba-removal":     ActiveOsteoblastRemoval,
	"pth-injection":   PTHInjection,
	"oca-injection":   ActiveOsteoclastInjection,
	"oca-removal":     ActiveOsteoclastRemoval,
	"opg-injection":   OPGInjection,
	"obp-injection":   PreOsteoblastInjection,
	"obp-removal":     PreOsteoblastRemoval,
	"rankl-injection": RANKLInjection,
}

// New returns a catalog case by name; nil for unknown names. The empty
// name maps onto the inert nil case.
func New(name string) *Case {
	if name == "" {
		return nil
	}
	mk, ok := catalog[name]
	if !ok {
		return nil
	}
	return mk()
}

// CatalogNames returns the sorted names of the canonical interventions
func CatalogNames() (names []string) {
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
