// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreceptor

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_receptor01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("receptor01. scenarios and derived constants")

	if NewScenario("no-such") != nil {
		tst.Errorf("unknown scenario must return nil\n")
		return
	}
	if len(ScenarioNames()) != 8 {
		tst.Errorf("wrong number of registered scenarios: %d\n", len(ScenarioNames()))
		return
	}

	m, err := NewModel(NewScenario("healthy"))
	if err != nil {
		tst.Errorf("new model failed: %v\n", err)
		return
	}

	// equilibrium constants
	chk.Scalar(tst, "K1", 1e-15, m.kcR, 0.012/0.104)
	chk.Scalar(tst, "K2", 1e-15, m.kcC, 0.222/0.055)
	chk.Scalar(tst, "Kr", 1e-15, m.kcB, 1000.0)

	// the active complex weight closes the activity interpolation
	a2 := ((2000*m.kcR+100)/(m.kcR+1)*(m.kcC+1) - 1000) / m.kcC
	chk.Scalar(tst, "a2", 1e-12, m.a2, a2)

	// basal activity of the adapted receptor pool
	chk.Scalar(tst, "basal activity", 1e-12, m.BasalActivity(), (2000*m.kcR+100)/(1+m.kcR))

	if _, err := NewModel(nil); err == nil {
		tst.Errorf("nil scenario must be rejected\n")
		return
	}
}

func Test_receptor02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("receptor02. pulse train stimulus")

	m, err := NewModel(NewScenario("healthy"))
	if err != nil {
		tst.Errorf("new model failed: %v\n", err)
		return
	}

	// on phase carries baseline plus amplitude, off phase only baseline
	on := m.pthConcentration(1.0)
	off := m.pthConcentration(5.0)
	chk.Scalar(tst, "on phase", 1e-12, on, (0.00332+0.00276)*1000)
	chk.Scalar(tst, "off phase", 1e-12, off, 0.00332*1000)

	// the pattern repeats with the pulse period
	chk.Scalar(tst, "periodic on", 1e-12, m.pthConcentration(1.0+10.6), on)
	chk.Scalar(tst, "periodic off", 1e-12, m.pthConcentration(5.0+10.6), off)

	// phase edges of two periods
	edges := m.pulseEdges(0, 21.2)
	chk.IntAssert(len(edges), 5)
	chk.Vector(tst, "edges", 1e-12, edges, []float64{0, 4.2, 10.6, 14.8, 21.2})
}

func Test_receptor03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("receptor03. flat stimulus produces no pulse response")

	scn := &Scenario{Name: "flat", Basal: Pulse{Min: 0.00332, Max: 0, OnDur: 4.2, OffDur: 6.4}}
	m, err := NewModel(scn)
	if err != nil {
		tst.Errorf("new model failed: %v\n", err)
		return
	}
	act, err := m.Run()
	if err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}

	// with zero pulse amplitude the receptor pool settles and the
	// integrated activity above the adapted level is negligible
	if act.Integrated > 1e-2*act.Basal {
		tst.Errorf("flat stimulus must not produce integrated activity: %g\n", act.Integrated)
		return
	}
	if act.Basal <= 0 {
		tst.Errorf("basal activity must be positive: %g\n", act.Basal)
		return
	}
}

func Test_receptor04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("receptor04. healthy pulses activate above basal")

	m, err := NewModel(NewScenario("healthy"))
	if err != nil {
		tst.Errorf("new model failed: %v\n", err)
		return
	}
	act, err := m.Run()
	if err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}
	if act.Integrated <= 0 {
		tst.Errorf("integrated activity must be positive: %g\n", act.Integrated)
		return
	}
	if act.Responsiveness <= 0 {
		tst.Errorf("cellular responsiveness must be positive: %g\n", act.Responsiveness)
		return
	}
	io.Pforan("basal=%g integrated=%g responsiveness=%g\n", act.Basal, act.Integrated, act.Responsiveness)
}

func Test_receptor05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("receptor05. drug pulse derivation")

	m, err := NewModel(NewScenario("hyperparathyroidism-drug"))
	if err != nil {
		tst.Errorf("new model failed: %v\n", err)
		return
	}
	inj := m.InjectedPulse()
	if inj == nil {
		tst.Errorf("drug scenario must derive an injected pulse\n")
		return
	}
	if inj.Max <= 0 {
		tst.Errorf("injected amplitude must be positive: %g\n", inj.Max)
		return
	}
	if inj.OnDur <= 0 || inj.OnDur >= inj.Period() {
		tst.Errorf("injected on duration out of range: %g of %g\n", inj.OnDur, inj.Period())
		return
	}
	chk.Scalar(tst, "injected period", 1e-12, inj.Period(), 24*60)
}
