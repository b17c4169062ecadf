// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreceptor

// Pulse describes a square wave PTH concentration: a tonic baseline Min
// with pulses of amplitude Max on top. Concentrations in nM, durations in
// minutes.
type Pulse struct {
	Min    float64 // tonic concentration during the off phase [nM]
	Max    float64 // additional concentration during the on phase [nM]
	OnDur  float64 // duration of the on phase [min]
	OffDur float64 // duration of the off phase [min]
}

// Period returns the pulse period [min]
func (o Pulse) Period() float64 { return o.OnDur + o.OffDur }

// Scenario selects the glandular PTH pulse pattern of a physiological
// state, optionally with a periodic subcutaneous drug injection
type Scenario struct {
	Name     string
	Basal    Pulse
	DrugDose float64 // administered dose [mg], zero means no drug
	InjFreq  float64 // injection interval [h]
}

// scenarios maps names onto scenario makers
var scenarios = make(map[string]func() *Scenario)

// NewScenario returns a new scenario or nil for unknown names
func NewScenario(name string) *Scenario {
	mk, ok := scenarios[name]
	if !ok {
		return nil
	}
	return mk()
}

// ScenarioNames returns the registered scenario names
func ScenarioNames() (names []string) {
	for name := range scenarios {
		names = append(names, name)
	}
	return
}

func init() {
	scenarios["healthy"] = func() *Scenario {
		return &Scenario{Name: "healthy",
			Basal: Pulse{Min: 0.00332, Max: 0.00276, OnDur: 4.2, OffDur: 6.4}}
	}
	scenarios["hyperparathyroidism"] = func() *Scenario {
		return &Scenario{Name: "hyperparathyroidism",
			Basal: Pulse{Min: 0.02, Max: 0.00358, OnDur: 2.6, OffDur: 8.0}}
	}
	scenarios["osteoporosis"] = func() *Scenario {
		return &Scenario{Name: "osteoporosis",
			Basal: Pulse{Min: 0.0030177, Max: 0.002, OnDur: 4.2, OffDur: 6.4}}
	}
	scenarios["postmenopausal-osteoporosis"] = func() *Scenario {
		return &Scenario{Name: "postmenopausal-osteoporosis",
			Basal: Pulse{Min: 0.00332, Max: 0.002152, OnDur: 3.5, OffDur: 7.1}}
	}
	scenarios["hypercalcemia"] = func() *Scenario {
		return &Scenario{Name: "hypercalcemia",
			Basal: Pulse{Min: 0.00064, Max: 0.0005212, OnDur: 1.6, OffDur: 9.0}}
	}
	scenarios["hypocalcemia"] = func() *Scenario {
		return &Scenario{Name: "hypocalcemia",
			Basal: Pulse{Min: 0.0298, Max: 0.0148884, OnDur: 5.6, OffDur: 5.0}}
	}
	scenarios["glucocorticoid-osteoporosis"] = func() *Scenario {
		return &Scenario{Name: "glucocorticoid-osteoporosis",
			Basal: Pulse{Min: 0.00392, Max: 0.0025036, OnDur: 3.3, OffDur: 7.3}}
	}
	scenarios["hyperparathyroidism-drug"] = func() *Scenario {
		return &Scenario{Name: "hyperparathyroidism-drug",
			Basal:    Pulse{Min: 0.02, Max: 0.00358, OnDur: 2.6, OffDur: 8.0},
			DrugDose: 0.02, InjFreq: 24}
	}
}

// Elevation compares the total PTH exposure of a scenario against a
// reference, as the ratio of the pulse concentration sums
func Elevation(disease, healthy *Scenario) float64 {
	return (disease.Basal.Min + disease.Basal.Max) / (healthy.Basal.Min + healthy.Basal.Max)
}
