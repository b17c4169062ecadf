// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/cmodiz/Bone-Models/mcell"
)

// PlotTrajectory draws the cell channels of a trajectory over time and
// saves the figure into dirout
func PlotTrajectory(dirout, fnkey string, res *mcell.Trajectory) {
	if res == nil || res.Len() == 0 {
		return
	}
	n := len(res.Y)
	labels := Labels(n)
	for i := 0; i < n; i++ {
		plt.Subplot(n, 1, i+1)
		plt.Plot(res.T, res.Y[i], io.Sf("'b-', label='%s'", labels[i]))
		plt.Gll("$t$ [day]", io.Sf("%s [pM]", labels[i]), "")
	}
	plt.SaveD(dirout, fnkey+".eps")
}

// PlotBMDD draws the tissue composition of a mineralisation run
func PlotBMDD(dirout, fnkey string, res *mcell.BMDDResults) {
	if res == nil || len(res.T) == 0 {
		return
	}
	plt.Subplot(3, 1, 1)
	plt.Plot(res.T, res.Mineral, "'b-', label='mineral'")
	plt.Gll("$t$ [day]", "mineral content [-]", "")
	plt.Subplot(3, 1, 2)
	plt.Plot(res.T, res.Ash, "'r-', label='ash'")
	plt.Gll("$t$ [day]", "ash fraction [-]", "")
	plt.Subplot(3, 1, 3)
	plt.Plot(res.T, res.Density, "'g-', label='density'")
	plt.Gll("$t$ [day]", "apparent density [g/cm3]", "")
	plt.SaveD(dirout, fnkey+".eps")
}
