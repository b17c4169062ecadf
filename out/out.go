// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements simulation output handling for analyses and plotting
package out

import (
	"bytes"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cmodiz/Bone-Models/mcell"
	"github.com/cmodiz/Bone-Models/spatial"
)

// channel labels of the population models, by state index
var ChannelLabels = []string{"OBp", "OBa", "OCa", "Pvas", "Fbm"}

// channel labels of the six channel variant resolving both osteoclast
// stages
var ChannelLabels6 = []string{"OBp", "OBa", "OCp", "OCa", "Pvas", "Fbm"}

// Labels returns the channel labels matching the number of state channels
func Labels(nstate int) []string {
	if nstate == 6 {
		return ChannelLabels6
	}
	return ChannelLabels[:nstate]
}

// SaveTrajectory writes a sampled trajectory as a whitespace separated
// table, one row per sample, first column the time
func SaveTrajectory(dirout, fnkey string, res *mcell.Trajectory) error {
	if res == nil || res.Len() == 0 {
		return chk.Err("out: trajectory is empty")
	}
	labels := Labels(len(res.Y))
	var b bytes.Buffer
	io.Ff(&b, "%23s", "t")
	for i := range res.Y {
		io.Ff(&b, "%23s", labels[i])
	}
	io.Ff(&b, "\n")
	for k := 0; k < res.Len(); k++ {
		io.Ff(&b, "%23.15e", res.T[k])
		for i := range res.Y {
			io.Ff(&b, "%23.15e", res.Y[i][k])
		}
		io.Ff(&b, "\n")
	}
	io.WriteFileD(dirout, fnkey+".res", &b)
	return nil
}

// SaveBMDD writes the output of a mineralisation run as three tables, each
// on its own time axis: the dense cell trajectory (fnkey_cells.res), the
// daily tissue composition (fnkey.res) and, when snapshots were taken, the
// mineral distribution with one column per snapshot day (fnkey_bmdd.res)
func SaveBMDD(dirout, fnkey string, res *mcell.BMDDResults) error {
	if res == nil || len(res.T) == 0 {
		return chk.Err("out: mineralisation results are empty")
	}
	if err := SaveTrajectory(dirout, fnkey+"_cells", res.Cells); err != nil {
		return err
	}
	var b bytes.Buffer
	io.Ff(&b, "%23s%23s%23s%23s%23s\n", "t", "mineral", "ash", "density", "stiffness")
	for k := range res.T {
		io.Ff(&b, "%23.15e%23.15e%23.15e%23.15e%23.15e\n",
			res.T[k], res.Mineral[k], res.Ash[k], res.Density[k], res.Stiff[k])
	}
	io.WriteFileD(dirout, fnkey+".res", &b)
	if len(res.TDist) == 0 {
		return nil
	}
	var d bytes.Buffer
	io.Ff(&d, "%23s", "mineral")
	for _, t := range res.TDist {
		io.Ff(&d, "%23s", io.Sf("t=%g", t))
	}
	io.Ff(&d, "\n")
	for i := range res.MineralAxis {
		io.Ff(&d, "%23.15e", res.MineralAxis[i])
		for k := range res.TDist {
			io.Ff(&d, "%23.15e", res.Dist[k][i])
		}
		io.Ff(&d, "\n")
	}
	io.WriteFileD(dirout, fnkey+"_bmdd.res", &d)
	return nil
}

// SaveDistribution writes the evolution of a mineralisation density
// distribution: the bone volume series (fnkey.res) and the distribution
// with one column per saved time (fnkey_dist.res)
func SaveDistribution(dirout, fnkey string, res *mcell.RuffoniResults) error {
	if res == nil || len(res.T) == 0 {
		return chk.Err("out: distribution results are empty")
	}
	var b bytes.Buffer
	io.Ff(&b, "%23s%23s\n", "t", "bv")
	for k := range res.T {
		io.Ff(&b, "%23.15e%23.15e\n", res.T[k], res.BV[k])
	}
	io.WriteFileD(dirout, fnkey+".res", &b)
	var d bytes.Buffer
	io.Ff(&d, "%23s", "calcium")
	for _, t := range res.T {
		io.Ff(&d, "%23s", io.Sf("t=%g", t))
	}
	io.Ff(&d, "\n")
	for i := range res.Calcium {
		io.Ff(&d, "%23.15e", res.Calcium[i])
		for k := range res.T {
			io.Ff(&d, "%23.15e", res.Dist[k][i])
		}
		io.Ff(&d, "\n")
	}
	io.WriteFileD(dirout, fnkey+"_dist.res", &d)
	return nil
}

// SaveCrossSection writes one snapshot of the spatial run: element
// positions, volume fractions and axial stresses
func SaveCrossSection(dirout, fnkey string, cs *spatial.CrossSection, snap *spatial.Snapshot) error {
	if cs == nil || snap == nil || cs.Nrve() != len(snap.BVTV) {
		return chk.Err("out: cross-section and snapshot do not match")
	}
	var b bytes.Buffer
	io.Ff(&b, "# t = %g\n", snap.T)
	io.Ff(&b, "%23s%23s%23s%23s\n", "y", "z", "bvtv", "stress")
	for i, r := range cs.RVEs {
		io.Ff(&b, "%23.15e%23.15e%23.15e%23.15e\n", r.Y, r.Z, snap.BVTV[i], snap.Stress[i])
	}
	io.WriteFileD(dirout, io.Sf("%s_t%g.res", fnkey, snap.T), &b)
	return nil
}

// SaveHistory writes every snapshot of a spatial run
func SaveHistory(dirout, fnkey string, cs *spatial.CrossSection, hist *spatial.History) error {
	for _, snap := range hist.Snaps {
		if err := SaveCrossSection(dirout, fnkey, cs, snap); err != nil {
			return err
		}
	}
	return nil
}

// ResPath returns the path of a result file written by this package
func ResPath(dirout, fnkey string) string {
	return filepath.Join(dirout, fnkey+".res")
}
