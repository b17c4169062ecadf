// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spatial couples a grid of bone cell population models into a
// whole cross-section simulation. Each representative volume element
// (RVE) carries its own population model; beam theory distributes the
// macroscopic axial force and bending moments into element level stresses
// which feed back into the mechanobiological regulation.
package spatial

import (
	"math"
	"math/rand"

	"github.com/cmodiz/Bone-Models/mcell"
)

// RVE is one representative volume element of the cross-section
type RVE struct {
	Y, Z      float64 // position of the element center [m]
	BVTV      float64 // bone volume fraction [-]
	Model     *mcell.Lerebours
	State     []float64
	Stiffness float64 // longitudinal stiffness [Pa]
	Stress    float64 // axial stress [Pa]
	Err       error   // failure of the local model, nil while healthy
}

// CrossSection is the set of RVEs spanning the bone midshaft
type CrossSection struct {
	RVEs   []*RVE
	DY, DZ float64 // element size [m]
}

// grid resolution of the idealised midshaft sections
const (
	gridElements = 40
	gridSizeMM   = 0.8
)

// zone volume fractions: dense cortical bone and the transitional cortex
// get uniformly perturbed values clipped away from the singular limits
func corticalBVTV(rnd *rand.Rand) float64 {
	return clip(0.8+0.2*rnd.Float64(), 0.01, 0.99)
}

func transitionalBVTV(rnd *rand.Rand) float64 {
	return clip(0.3+0.1*rnd.Float64(), 0.01, 0.99)
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// EllipticalCrossSection builds an idealised femur midshaft: an outer
// elliptical cortical ring around a transitional cortex enclosing the
// medullary cavity. The marrow and the exterior carry no elements.
func EllipticalCrossSection(rnd *rand.Rand) *CrossSection {
	const (
		periY, periZ = 17.0, 14.0 // periosteal radii [mm]
		midY, midZ   = 10.0, 7.0  // mid-cortical radii [mm]
		endoY, endoZ = 7.0, 4.0   // endosteal radii [mm]
	)
	cs := newGrid()
	forEachGridPoint(func(y, z float64) {
		inPeri := inEllipse(y, z, periY, periZ)
		inMid := inEllipse(y, z, midY, midZ)
		inEndo := inEllipse(y, z, endoY, endoZ)
		switch {
		case inPeri && !inMid:
			cs.add(y, z, corticalBVTV(rnd))
		case inMid && !inEndo:
			cs.add(y, z, transitionalBVTV(rnd))
		}
	})
	return cs
}

// CircularCrossSection builds a simplified circular midshaft with radial
// zones: cortical bone between 10 and 17 mm, transitional between 7 and
// 10 mm
func CircularCrossSection(rnd *rand.Rand) *CrossSection {
	cs := newGrid()
	forEachGridPoint(func(y, z float64) {
		r := math.Sqrt(y*y + z*z)
		switch {
		case r > 10 && r <= 17:
			cs.add(y, z, corticalBVTV(rnd))
		case r > 7 && r <= 10:
			cs.add(y, z, transitionalBVTV(rnd))
		}
	})
	return cs
}

// UniformCrossSection builds a full square grid of n by n elements with
// one common volume fraction. Used for verification.
func UniformCrossSection(n int, bvtv float64) *CrossSection {
	cs := &CrossSection{DY: gridSizeMM * 1e-3, DZ: gridSizeMM * 1e-3}
	length := float64(n) * gridSizeMM
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			y := gridCoord(i, n, length)
			z := gridCoord(j, n, length)
			cs.add(y, z, bvtv)
		}
	}
	return cs
}

func newGrid() *CrossSection {
	return &CrossSection{DY: gridSizeMM * 1e-3, DZ: gridSizeMM * 1e-3}
}

func forEachGridPoint(visit func(y, z float64)) {
	length := float64(gridElements) * gridSizeMM
	for i := 0; i < gridElements; i++ {
		for j := 0; j < gridElements; j++ {
			visit(gridCoord(i, gridElements, length), gridCoord(j, gridElements, length))
		}
	}
}

// gridCoord maps index i of n equally spaced points onto [-l/2, l/2] [mm]
func gridCoord(i, n int, l float64) float64 {
	return -l/2 + l*float64(i)/float64(n-1)
}

func inEllipse(y, z, ry, rz float64) bool {
	return (y/ry)*(y/ry)+(z/rz)*(z/rz) <= 1
}

// add appends one element at position (y,z) [mm], stored in meters
func (o *CrossSection) add(y, z, bvtv float64) {
	o.RVEs = append(o.RVEs, &RVE{Y: y * 1e-3, Z: z * 1e-3, BVTV: bvtv})
}

// Nrve returns the number of elements
func (o *CrossSection) Nrve() int { return len(o.RVEs) }

// MeanBVTV returns the average bone volume fraction over all elements
func (o *CrossSection) MeanBVTV() float64 {
	if len(o.RVEs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range o.RVEs {
		sum += r.BVTV
	}
	return sum / float64(len(o.RVEs))
}
