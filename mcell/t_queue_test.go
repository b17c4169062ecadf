// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_queue01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("queue01. ageing and volume balance")

	q := NewAgeingQueue(10, 3, 0.95)
	chk.Scalar(tst, "initial volume", 1e-15, q.TotalVolume(), 0.95)

	// one day: form 0.002, resorb 0.001; the balance puts the tracked
	// fraction plus the net change into the queue
	if err := q.Update(0.002, 0.001, 0.95); err != nil {
		tst.Errorf("update failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "volume after update", 1e-12, q.TotalVolume(), 0.951)
	chk.Scalar(tst, "today's packet", 1e-15, q.Packets()[0], 0.002)

	// packets within the resorption lag are not resorbed
	q2 := NewAgeingQueue(10, 3, 0.95)
	for i := 0; i < 3; i++ {
		if err := q2.Update(0.01, 0, q2.TotalVolume()+0.01); err != nil {
			tst.Errorf("update failed: %v\n", err)
			return
		}
	}
	vol := q2.TotalVolume()
	if err := q2.Update(0, 0.005, vol-0.005); err != nil {
		tst.Errorf("update failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "protected packet 1", 1e-15, q2.Packets()[1], 0.01)
	chk.Scalar(tst, "protected packet 2", 1e-15, q2.Packets()[2], 0.01)
	chk.Scalar(tst, "protected packet 3", 1e-15, q2.Packets()[3], 0.01)

	// resorbing more than the available volume must fail
	if err := q2.Update(0, 2.0, 1.0); err == nil {
		tst.Errorf("over-resorption must return an error\n")
		return
	}
}

func Test_queue02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("queue02. mineralisation law and average content")

	law := &MineralisationLaw{Lag: 12, PrimaryDur: 10, PrimaryMax: 0.121, Max: 0.442, Rate: 0.003}

	chk.Scalar(tst, "within lag", 1e-17, law.Content(5), 0)
	chk.Scalar(tst, "end of lag", 1e-17, law.Content(12), 0)
	chk.Scalar(tst, "half primary", 1e-15, law.Content(17), 0.0605)
	chk.Scalar(tst, "end of primary", 1e-15, law.Content(22), 0.121)
	if law.Content(1000) <= 0.121 || law.Content(1000) >= 0.442 {
		tst.Errorf("secondary phase out of range: %g\n", law.Content(1000))
		return
	}

	// fully aged queue sits at the maximum content
	q := NewAgeingQueue(100, 3, 0.95)
	chk.Scalar(tst, "aged average", 1e-14, q.AverageMineral(law, 0.95), 0.442)
}

func Test_queue03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("queue03. primed age profile and packet count")

	law := &MineralisationLaw{Lag: 12, PrimaryDur: 10, PrimaryMax: 0.121, Max: 0.442, Rate: 0.003}

	// priming at a steady turnover spreads young packets over the front
	// slots, so the average mineral content starts strictly below the
	// maximum instead of at the fully aged value
	q := NewAgeingQueue(60, 3, 0)
	if err := q.Prime(0.002, 0.002, 0.95); err != nil {
		tst.Errorf("prime failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "primed volume", 1e-9, q.TotalVolume(), 0.95)
	vm := q.AverageMineral(law, 0.95)
	if vm <= 0 || vm >= law.Max {
		tst.Errorf("primed average must lie strictly below the maximum: %g\n", vm)
		return
	}

	// ten days of pure formation leave exactly ten packets; the protected
	// young tissue is never resorbed
	q2 := NewAgeingQueue(20, 3, 0)
	for i := 0; i < 10; i++ {
		if err := q2.Update(0.01, 0, 0.01*float64(i)); err != nil {
			tst.Errorf("update failed: %v\n", err)
			return
		}
	}
	chk.IntAssert(q2.Count(), 10)
	chk.Scalar(tst, "formed volume", 1e-12, 0.01*float64(q2.Count()), 0.1)
}
