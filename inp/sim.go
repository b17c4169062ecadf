// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// PrmData holds one parameter override
type PrmData struct {
	N string  `json:"n"` // name
	V float64 `json:"v"` // value
}

// CaseData selects a load case: either a catalog name or explicit
// intervals
type CaseData struct {
	Name      string          `json:"name"`      // catalog name; e.g. "pth-injection"
	Intervals []*IntervalData `json:"intervals"` // explicit intervals, override the catalog
}

// IntervalData holds one load case interval
type IntervalData struct {
	T0   float64            `json:"t0"`   // window start [day]
	T1   float64            `json:"t1"`   // window end [day]
	Mult map[string]float64 `json:"mult"` // parameter multipliers
	Add  map[string]float64 `json:"add"`  // injection rates [pM/day]
}

// ScenarioData configures the receptor driven model
type ScenarioData struct {
	Disease     string `json:"disease"`     // receptor scenario; e.g. "hyperparathyroidism"
	ModelType   string `json:"modeltype"`   // "cellular-responsiveness" or "integrated-activity"
	Calibration string `json:"calibration"` // "all" or "healthy-only"
}

// TreatmentData configures the mineralisation model interventions
type TreatmentData struct {
	PMOStart  float64 `json:"pmostart"`  // onset of the estrogen deficit [day]
	PMOEnd    float64 `json:"pmoend"`    // end of the osteoporotic period [day]
	DenStart  float64 `json:"denstart"`  // first administration [day]
	DenEnd    float64 `json:"denend"`    // end of the treatment [day]
	DenPeriod float64 `json:"denperiod"` // administration interval [day]
	DenDose   float64 `json:"dendose"`   // administered dose [ng]
	SaveInt   float64 `json:"saveint"`   // days between distribution snapshots; 0 means 365
}

// MineralData configures the mineralisation distribution transport model
type MineralData struct {
	Grid    int     `json:"grid"`    // cells in calcium content; 0 means 100
	Years   float64 `json:"years"`   // duration [year]
	SaveInt float64 `json:"saveint"` // years between saved distributions; 0 means years/10
}

// SpatialData configures the cross-section simulation
type SpatialData struct {
	Geometry string  `json:"geometry"` // "elliptical" or "circular"
	Seed     int64   `json:"seed"`     // seed of the volume fraction field
	Years    float64 `json:"years"`    // duration [years]
	Interval float64 `json:"interval"` // days between mechanics updates; 0 means 365
	Workers  int     `json:"workers"`  // concurrent local solves
	FailFast bool    `json:"failfast"` // abort on the first local failure
}

// Simulation holds all data read from a .sim file
type Simulation struct {

	// global information
	Desc   string `json:"desc"`   // description of simulation
	DirOut string `json:"dirout"` // directory for output; e.g. /tmp/bone-models

	// problem definition
	Model     string         `json:"model"`     // population model name; e.g. "lemaire"
	Tf        float64        `json:"tf"`        // simulation horizon [day]
	Prms      []*PrmData     `json:"prms"`      // parameter overrides
	Case      *CaseData      `json:"case"`      // load case
	Scenario  *ScenarioData  `json:"scenario"`  // receptor scenario, modiz only
	Treatment *TreatmentData `json:"treatment"` // interventions, martinez-reina only
	Mineral   *MineralData   `json:"mineral"`   // distribution transport, ruffoni only
	Spatial   *SpatialData   `json:"spatial"`   // cross-section run instead of a single model

	// derived
	Path string // path of the .sim file
}

// ReadSim reads a simulation from a .sim file
func ReadSim(simfilepath string) (*Simulation, error) {
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}
	var o Simulation
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, chk.Err("cannot parse simulation file %q:\n%v", simfilepath, err)
	}
	o.Path = simfilepath
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "bone-models", fnkey(simfilepath))
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (o *Simulation) validate() error {
	if o.Spatial == nil && o.Model == "" {
		return chk.Err("%q: either a model or a spatial block must be given", o.Path)
	}
	if o.Tf <= 0 && o.Spatial == nil && o.Mineral == nil {
		return chk.Err("%q: simulation horizon tf must be positive", o.Path)
	}
	if o.Mineral != nil && o.Mineral.Years <= 0 {
		return chk.Err("%q: mineral duration must be positive", o.Path)
	}
	if o.Case != nil && o.Case.Name != "" && len(o.Case.Intervals) == 0 {
		if loadcase.New(o.Case.Name) == nil {
			return chk.Err("%q: unknown load case %q, available: %v",
				o.Path, o.Case.Name, loadcase.CatalogNames())
		}
	}
	if o.Spatial != nil {
		switch o.Spatial.Geometry {
		case "", "elliptical", "circular":
		default:
			return chk.Err("%q: unknown geometry %q", o.Path, o.Spatial.Geometry)
		}
		if o.Spatial.Years <= 0 {
			return chk.Err("%q: spatial duration must be positive", o.Path)
		}
	}
	return nil
}

// LoadCase builds the load case selected by the input
func (o *Simulation) LoadCase() *loadcase.Case {
	if o.Case == nil {
		return nil
	}
	if len(o.Case.Intervals) > 0 {
		lc := &loadcase.Case{Name: o.Case.Name}
		for _, iv := range o.Case.Intervals {
			lc.Intervals = append(lc.Intervals, loadcase.Interval{
				T0: iv.T0, T1: iv.T1, Mult: iv.Mult, Add: iv.Add,
			})
		}
		return lc
	}
	return loadcase.New(o.Case.Name)
}

// Overrides converts the parameter overrides; nil when none are given so
// models fall back to their defaults
func (o *Simulation) Overrides(defaults fun.Prms) fun.Prms {
	if len(o.Prms) == 0 {
		return nil
	}
	prms := defaults
	for _, p := range o.Prms {
		prms = append(prms, &fun.Prm{N: p.N, V: p.V})
	}
	return prms
}

// fnkey returns the file name without directory and extension
func fnkey(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Report prints a summary of the input
func (o *Simulation) Report() {
	io.Pf("%v\n", io.ArgsTable(
		"description", "desc", o.Desc,
		"simulation file", "path", o.Path,
		"output directory", "dirout", o.DirOut,
		"population model", "model", o.Model,
		"horizon [day]", "tf", o.Tf,
	))
}
