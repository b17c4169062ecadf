// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/num"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// Lerebours implements the multiscale model of Lerebours et al. (2016):
// the Scheiner regulation structure rebuilt around the local porosity. A
// sixth channel resolves pre-osteoclasts, the uncommitted pools are held
// at steady values set by the bone surface available for remodelling, and
// mechanical disuse feeds an additional RANKL production. The volume
// fraction channels carry fractions in [0,1] instead of percentages.
type Lerebours struct {
	Scheiner

	// differentiation and proliferation
	docu    float64 // differentiation rate of uncommitted osteoclasts [1/day]
	prolOBp float64 // baseline pre-osteoblast proliferation rate [1/day]

	// regulation
	kactMCSF float64 // MCSF Hill coefficient [pM]
	mcsf     float64 // fixed MCSF concentration [pM]

	// calibration
	calibOCa  float64 // TGFb release calibration
	calibOBa  float64 // OPG production calibration
	calibTurn float64 // turnover per unit specific surface [%/day]
	ssmult    float64 // specific surface multiplier

	// mechanics
	kappaRANKL float64 // RANKL production per unit disuse stimulus [pM/day]
	corrK      float64 // regularisation of the strain effect normalisation

	// reference state: uncommitted pools stay at their steady values
	obu, ocu  float64
	ranklMech float64 // disuse driven RANKL production, set during Rhs
}

func init() {
	allocators["lerebours"] = func() Model { return new(Lerebours) }
}

// Name returns the model name
func (o *Lerebours) Name() string { return "lerebours" }

// Init initialises the model
func (o *Lerebours) Init(lc *loadcase.Case, prms fun.Prms) error {
	if prms == nil {
		prms = o.GetPrms()
	}
	if err := lc.Validate(prms); err != nil {
		return err
	}
	o.lc = lc
	o.base = prms
	if o.extRANKL == nil {
		o.extRANKL = o.injRANKLAt
	}
	if o.sed == nil {
		o.sed = o.mixtureSED
	}
	for _, p := range prms {
		if !o.setPrm(p) && !o.Scheiner.setPrm(p) && !o.Pivonka.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.sig0Steady = o.sig0
	o.buildStiffness()
	return nil
}

// setPrm assigns one parameter; returns false for unknown names
func (o *Lerebours) setPrm(p *fun.Prm) bool {
	switch p.N {
	case "docu":
		o.docu = p.V
	case "prolobp":
		o.prolOBp = p.V
	case "kmcsf":
		o.kactMCSF = p.V
	case "mcsf":
		o.mcsf = p.V
	case "caliboca":
		o.calibOCa = p.V
	case "caliboba":
		o.calibOBa = p.V
	case "calibturn":
		o.calibTurn = p.V
	case "ssmult":
		o.ssmult = p.V
	case "kapparl":
		o.kappaRANKL = p.V
	case "corrk":
		o.corrK = p.V
	default:
		return false
	}
	return true
}

// GetPrms returns the parameters of Lerebours et al. (2016)
func (o *Lerebours) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "dobu", V: 0.7},
		&fun.Prm{N: "dobp", V: 0.165696312976030},
		&fun.Prm{N: "docu", V: 0.42},
		&fun.Prm{N: "docp", V: 2.1},
		&fun.Prm{N: "aoba", V: 0.211072625806496},
		&fun.Prm{N: "aoca", V: 5.64874468409633},
		&fun.Prm{N: "prolobp", V: 3.5e-3},
		&fun.Prm{N: "kobu", V: 0.000563278809675429},
		&fun.Prm{N: "krobp", V: 0.00189},
		&fun.Prm{N: "koca", V: 0.000563278809675429},
		&fun.Prm{N: "kpth", V: 150},
		&fun.Prm{N: "krpth", V: 0.222581427709954},
		&fun.Prm{N: "krr", V: 16.65},
		&fun.Prm{N: "kmcsf", V: 0.001},
		&fun.Prm{N: "degopg", V: 0.35},
		&fun.Prm{N: "degrl", V: 1.0132471014805027e1},
		&fun.Prm{N: "degtgfb", V: 2.0},
		&fun.Prm{N: "opgmax", V: 2.0e8},
		&fun.Prm{N: "mcsf", V: 0.001},
		&fun.Prm{N: "rank", V: 10.0},
		&fun.Prm{N: "ka1", V: 1.0e-3},
		&fun.Prm{N: "ka2", V: 3.411764705882353e-2},
		&fun.Prm{N: "betapth", V: 2.907},
		&fun.Prm{N: "betarankl", V: 1.684195714712206e5},
		&fun.Prm{N: "kopg", V: 1.624900337835679e8},
		&fun.Prm{N: "klp", V: 2.7e6},
		&fun.Prm{N: "alpha", V: 0.01},
		&fun.Prm{N: "caliboca", V: 0.09},
		&fun.Prm{N: "caliboba", V: 1.132},
		&fun.Prm{N: "calibturn", V: 5.961e-3},
		&fun.Prm{N: "ssmult", V: 1.0},
		&fun.Prm{N: "kform", V: 40.0},
		&fun.Prm{N: "kres", V: 200.0},
		&fun.Prm{N: "lambda", V: 0.5},
		&fun.Prm{N: "kapparl", V: 18.0},
		&fun.Prm{N: "corrk", V: 1.0e-6},
		&fun.Prm{N: "sig0", V: -30e-3},
		&fun.Prm{N: "pvas0", V: 0.05},
		&fun.Prm{N: "fbm0", V: 0.95},
		&fun.Prm{N: "kwater", V: 2.3},
	}
}

// Nstate returns the number of state channels
func (o *Lerebours) Nstate() int { return 6 }

// Ncell returns the number of cell channels
func (o *Lerebours) Ncell() int { return 4 }

// InitGuess returns the starting point for the steady state search: the
// uncommitted and precursor pools followed by the volume fractions
func (o *Lerebours) InitGuess() []float64 {
	return []float64{1e-4, 1e-4, 1e-3, 1e-4, o.pvas0, o.fbm0}
}

// SetStage caches effective parameters and injection rates for [t0,t1].
// The reference (steady state and habitual strain energy density) is
// computed once, before the first transient stage.
func (o *Lerebours) SetStage(t0, t1 float64) error {
	if t0 >= 0 {
		if err := o.ensureRef(); err != nil {
			return err
		}
	}
	tmid := 0.5 * (t0 + t1)
	for _, p := range o.lc.Apply(o.base, tmid) {
		if !o.setPrm(p) && !o.Scheiner.setPrm(p) && !o.Pivonka.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.injPTH = o.lc.Injection("pth", tmid)
	o.injOPG = o.lc.Injection("opg", tmid)
	o.injRANKL = o.lc.Injection("rankl", tmid)
	return nil
}

func (o *Lerebours) ensureRef() error {
	if o.obu > 0 {
		return nil
	}
	_, err := o.steadyState()
	return err
}

// SetAxialStress pins the axial stress; steady also resets the reference
// so the next stage recomputes the fixed point. Used by the spatial
// coupling.
func (o *Lerebours) SetAxialStress(sig float64, steady bool) {
	o.Scheiner.SetAxialStress(sig, steady)
	if steady {
		o.obu, o.ocu = 0, 0
	}
}

// specificSurface evaluates the polynomial fit of the bone surface
// available for remodelling as a function of porosity
func (o *Lerebours) specificSurface(p float64) float64 {
	q := 1 - p
	return o.ssmult * (32.2*q - 93.9*q*q + 134*q*q*q - 101*q*q*q*q + 28.8*q*q*q*q*q)
}

// turnover is the steady remodelling rate sustained by the local surface.
// It vanishes at the singular limits where no surface is available.
func (o *Lerebours) turnover(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return o.calibTurn * o.specificSurface(p)
}

// steadyState pins the active cells to the porosity driven turnover and
// root-solves the uncommitted and precursor pools. The uncommitted
// concentrations and the habitual strain energy density are stored for all
// further transient stages.
func (o *Lerebours) steadyState() (*State, error) {
	if err := o.SetStage(RefTime, RefTime); err != nil {
		return nil, err
	}
	tau := o.turnover(o.pvas0)
	oca := tau / o.kres
	oba := tau / o.kform
	f := make([]float64, o.Nstate())
	ffcn := func(fx, x []float64) error {
		obu, obp, ocu, ocp := x[0], x[1], x[2], x[3]
		if err := o.rates(f, RefTime, obu, obp, oba, ocu, ocp, oca, o.pvas0, o.fbm0); err != nil {
			return err
		}
		copy(fx, f[:4])
		return nil
	}

	var nls num.NlSolver
	nls.Init(4, ffcn, nil, nil, false, true, nil)
	defer nls.Clean()
	nls.ChkConv = false

	g := o.InitGuess()
	x := g[:4]
	if err := nls.Solve(x, true); err != nil {
		return nil, &SteadyStateError{Model: o.Name(), Msg: err.Error()}
	}
	o.obu, o.ocu = x[0], x[2]

	// admissibility
	full := []float64{x[1], oba, x[3], oca, o.pvas0, o.fbm0}
	if err := o.Rhs(f, RefTime, full); err != nil {
		return nil, err
	}
	for i := 0; i < 4; i++ {
		if math.Abs(f[i]) > ssRtol {
			return nil, &SteadyStateError{Model: o.Name(), Msg: "residual above tolerance"}
		}
	}
	s := NewState(full, o.Nstate())
	if !s.Nonneg() || o.obu < 0 || o.ocu < 0 {
		return nil, &SteadyStateError{Model: o.Name(), Msg: "negative concentration"}
	}
	var err error
	o.sedSS, err = o.sed(o.pvas0*100, o.fbm0*100, o.sig0Steady)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Rhs computes the rates of the six channels
func (o *Lerebours) Rhs(f []float64, t float64, y []float64) error {
	return o.rates(f, t, o.obu, y[0], y[1], o.ocu, y[2], y[3], y[4], y[5])
}

// rates evaluates the six rates with the uncommitted pools held at obu and
// ocu. The mechanical term comes first since disuse also feeds the RANKL
// production read by the osteoclastic lines.
func (o *Lerebours) rates(f []float64, t, obu, obp, oba, ocu, ocp, oca, pvas, fbm float64) error {
	mech, err := o.proliferationOBp(obp, pvas, fbm, t)
	if err != nil {
		return err
	}
	rep := o.tgfbRepressionOBp(oca)
	act := o.ranklActivation(obp, oba, t)
	f[0] = o.dobu*o.tgfbActivationOBu(oca)*obu - o.dobp*obp*rep + mech
	f[1] = o.dobp*obp*rep - o.aoba*oba
	f[2] = o.docu*act*o.mcsfActivation()*ocu - o.docp*act*ocp
	f[3] = o.docp*act*ocp - o.aoca*oca*o.tgfbActivationOCa(oca)
	f[4] = o.kres*oca - o.kform*oba
	f[5] = o.kform*oba - o.kres*oca
	return nil
}

// strainEffect is the relative deviation of the strain energy density from
// the habitual state. Disuse drives it negative and switches on the extra
// RANKL production.
func (o *Lerebours) strainEffect(pvas, fbm, t float64) (float64, error) {
	if t < 0 || t <= o.lc.Start() {
		o.ranklMech = 0
		return 0, nil
	}
	sed, err := o.sed(pvas*100, fbm*100, o.currentStress())
	if err != nil {
		return 0, err
	}
	x := (sed - o.sedSS) / (o.sedSS + o.corrK)
	if x > 0 {
		o.ranklMech = 0
	} else {
		o.ranklMech = -o.kappaRANKL * x
	}
	return x, nil
}

// proliferationOBp applies the piecewise mechanotransduction law to the
// baseline pre-osteoblast proliferation
func (o *Lerebours) proliferationOBp(obp, pvas, fbm, t float64) (float64, error) {
	x, err := o.strainEffect(pvas, fbm, t)
	if err != nil {
		return 0, err
	}
	switch {
	case x <= 0:
		return o.prolOBp * obp, nil
	case x < 1/o.lam:
		return o.prolOBp * (1 + o.lam*x) * obp, nil
	}
	return 2 * o.prolOBp * obp, nil
}

// mediators ///////////////////////////////////////////////////////////////////////////////////////

// tgfbConcentration: resorption releases the growth factor stored in the
// matrix, scaled by the osteoclast calibration
func (o *Lerebours) tgfbConcentration(oca float64) float64 {
	return o.alpha * oca * o.kres / (o.calibOCa * o.degTGFb)
}

func (o *Lerebours) tgfbActivationOBu(oca float64) float64 {
	c := o.tgfbConcentration(oca)
	return c / (c + o.kactTGFbOBu)
}

func (o *Lerebours) tgfbRepressionOBp(oca float64) float64 {
	c := o.tgfbConcentration(oca)
	return o.krepTGFbOBp / (c + o.krepTGFbOBp)
}

func (o *Lerebours) tgfbActivationOCa(oca float64) float64 {
	c := o.tgfbConcentration(oca)
	return c / (c + o.kactTGFbOCa)
}

// pthConcentration is the systemic level plus any injection, without a
// production and degradation balance
func (o *Lerebours) pthConcentration(t float64) float64 {
	return o.betaPTH + o.injAt(t, o.injPTH)
}

func (o *Lerebours) pthActivationOB(t float64) float64 {
	pth := o.pthConcentration(t)
	return pth / (pth + o.kactPTH)
}

func (o *Lerebours) pthRepressionOB(t float64) float64 {
	pth := o.pthConcentration(t)
	return o.krepPTH / (pth + o.krepPTH)
}

func (o *Lerebours) mcsfActivation() float64 {
	return o.mcsf / (o.mcsf + o.kactMCSF)
}

// opgConcentration: only active osteoblasts express the decoy receptor,
// repressed by PTH and scaled by the osteoblast calibration
func (o *Lerebours) opgConcentration(oba, t float64) float64 {
	pOB := o.kopg * oba / o.calibOBa * o.pthRepressionOB(t)
	return (pOB + o.injAt(t, o.injOPG)) * o.opgmax / (pOB + o.degOPG*o.opgmax)
}

// ranklConcentration: only pre-osteoblasts carry the ligand; production is
// proportional to their pool and supplemented by the disuse term
func (o *Lerebours) ranklConcentration(obp, oba, t float64) float64 {
	leff := o.klp * obp * o.pthActivationOB(t)
	bound := leff / (1 + o.ka1*o.opgConcentration(oba, t) + o.ka2*o.rank)
	prod := o.betaRANKL * obp
	return bound * (prod + o.extRANKL(t) + o.ranklMech) / (prod + o.degRANKL*leff)
}

// ranklActivation is the Hill activation on the RANKL concentration,
// shared by the uncommitted and precursor osteoclastic lines
func (o *Lerebours) ranklActivation(obp, oba, t float64) float64 {
	l := o.ranklConcentration(obp, oba, t)
	return l / (l + o.kactRANKL)
}
