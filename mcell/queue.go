// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// AgeingQueue tracks daily bone packets by tissue age for the computation
// of the average mineral content. Slot 0 holds today's formed volume, slot
// i holds the volume formed i days ago, and the last slot accumulates all
// volume older than the queue length. Resorption removes volume
// proportionally from packets older than the resorption lag; packets still
// inside the lag are protected because osteoclasts cannot reach them yet.
type AgeingQueue struct {
	vols []float64 // volume fraction per daily packet [-]
	lag  int       // resorption lag [days]
	eps  float64   // numerical floor for packet volumes
}

// NewAgeingQueue allocates a queue of n daily packets with the whole
// initial volume already fully aged
func NewAgeingQueue(n, lag int, initial float64) *AgeingQueue {
	o := &AgeingQueue{
		vols: make([]float64, n),
		lag:  lag,
		eps:  1e-13,
	}
	o.vols[n-1] = initial
	return o
}

// Prime runs the queue through one full turnover at the given steady daily
// rates. The resulting age profile reflects sustained remodelling: young
// packets still mineralising in the front slots, the rest accumulated in
// the terminal slot. Without priming the whole volume would sit fully aged.
func (o *AgeingQueue) Prime(formed, resorbed, fbm float64) error {
	for i := 0; i < len(o.vols); i++ {
		if err := o.Update(formed, resorbed, fbm); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of daily packets
func (o *AgeingQueue) Len() int { return len(o.vols) }

// Count returns the number of packets holding volume above the numerical
// floor
func (o *AgeingQueue) Count() (n int) {
	for _, v := range o.vols {
		if v > o.eps {
			n++
		}
	}
	return
}

// TotalVolume returns the summed volume fraction of all packets [-]
func (o *AgeingQueue) TotalVolume() (sum float64) {
	for _, v := range o.vols {
		sum += v
	}
	return
}

// Packets returns the internal packet volumes (not a copy)
func (o *AgeingQueue) Packets() []float64 { return o.vols }

// Update advances the queue by one day: ages all packets, inserts the
// newly formed volume at the front and removes the resorbed volume
// proportionally from the packets older than the resorption lag. The last
// slot is set from the volume balance so that the total matches the bone
// matrix fraction tracked by the cell model.
func (o *AgeingQueue) Update(formed, resorbed, fbm float64) error {
	if resorbed > fbm {
		return &QueueError{Msg: io.Sf("resorbed volume %g exceeds bone matrix fraction %g", resorbed, fbm)}
	}
	n := len(o.vols)
	keep := 1.0
	if resorbed > 0 {
		keep = 1.0 - resorbed/fbm
	}
	next := make([]float64, n)
	next[0] = formed
	for i := 1; i < n-1; i++ {
		v := o.vols[i-1]
		if i > o.lag {
			v *= keep
		}
		next[i] = math.Max(v, o.eps)
	}
	var partial float64
	for i := 0; i < n-1; i++ {
		partial += next[i]
	}
	last := fbm + formed - resorbed - partial
	if last < -1e-8 {
		return &QueueError{Msg: io.Sf("volume balance violated: terminal packet = %g", last)}
	}
	next[n-1] = math.Max(last, o.eps)
	o.vols = next
	return nil
}

// MineralisationLaw describes the mineral content of a bone packet as a
// function of its tissue age: zero during the mineralisation lag, a linear
// primary phase, then an exponential approach to the maximum content.
type MineralisationLaw struct {
	Lag        float64 // mineralisation lag [days]
	PrimaryDur float64 // duration of the primary phase [days]
	PrimaryMax float64 // mineral content at the end of the primary phase
	Max        float64 // maximum mineral content
	Rate       float64 // rate of the secondary phase [1/day]
}

// Content returns the mineral content of a packet of tissue age t [days]
func (o *MineralisationLaw) Content(t float64) float64 {
	switch {
	case t <= o.Lag:
		return 0
	case t <= o.Lag+o.PrimaryDur:
		return o.PrimaryMax * (t - o.Lag) / o.PrimaryDur
	default:
		return o.Max - (o.Max-o.PrimaryMax)*math.Exp(-o.Rate*(t-o.Lag-o.PrimaryDur))
	}
}

// AverageMineral returns the volume weighted average mineral content of
// the queue, normalised by the bone matrix fraction fbm [-]. The terminal
// packet is taken at the maximum content.
func (o *AgeingQueue) AverageMineral(law *MineralisationLaw, fbm float64) float64 {
	n := len(o.vols)
	var sum float64
	for i := 0; i < n-1; i++ {
		sum += o.vols[i] * law.Content(float64(i))
	}
	sum += o.vols[n-1] * law.Max
	return sum / fbm
}
