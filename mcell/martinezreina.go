// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/ode"

	"github.com/cmodiz/Bone-Models/loadcase"
)

// MartinezReina implements the bone mineral density model of Martinez-Reina
// and Pivonka (2019): the Scheiner mechanobiological model extended with a
// tissue age queue resolving the mineral content distribution, an ash
// fraction dependent stiffness, postmenopausal RANKL excess and denosumab
// pharmacokinetics.
type MartinezReina struct {
	Scheiner

	// mineralisation
	lagDays    float64 // mineralisation lag [days]
	primDur    float64 // duration of the primary phase [days]
	primMax    float64 // mineral content after the primary phase
	mineralMax float64 // maximum mineral content
	mineralRt  float64 // secondary mineralisation rate [1/day]
	queueLen   float64 // tissue age resolution of the queue [days]

	// tissue composition
	rhoMin float64 // density of the mineral phase [g/cm3]
	rhoOrg float64 // density of the organic phase [g/cm3]
	vorg   float64 // organic volume fraction of the matrix
	nu     float64 // Poisson ratio of the tissue

	// postmenopausal RANKL excess
	pmoInc float64 // additional RANKL production at onset [pM/day]
	pmoXi  float64 // shape factor of the decay
	pmoTau float64 // characteristic decay time [days]
	pmoT0  float64 // onset [days]
	pmoT1  float64 // end of the osteoporotic period [days]
	pmoOn  bool

	// denosumab pharmacokinetics
	denKa     float64 // absorption rate [1/day]
	denF      float64 // bioavailability
	denVol    float64 // distribution volume [ml]
	denKm     float64 // Michaelis-Menten constant [ng/ml]
	denVmax   float64 // maximum elimination rate [ng/day]
	denKel    float64 // linear elimination rate [1/day]
	denMolar  float64 // molar mass [kg/mol]
	denAccess float64 // accessibility of RANKL to the drug
	denKbind  float64 // denosumab-RANKL association constant [1/pM]

	// treatment schedule
	denStart, denEnd float64 // treatment window [days]
	denPeriod        float64 // administration interval [days]
	denDose          float64 // administered dose [ng]
	denOn            bool
	cden             []float64 // one period of serum concentration, daily [ng/ml]

	law *MineralisationLaw
	ash float64 // current average ash fraction
}

func init() {
	allocators["martinez-reina"] = func() Model { return new(MartinezReina) }
}

// Name returns the model name
func (o *MartinezReina) Name() string { return "martinez-reina" }

// Init initialises the model
func (o *MartinezReina) Init(lc *loadcase.Case, prms fun.Prms) error {
	if prms == nil {
		prms = o.GetPrms()
	}
	if err := lc.Validate(prms); err != nil {
		return err
	}
	o.lc = lc
	o.base = prms
	o.extRANKL = o.ranklSupply
	o.ranklBindExtra = o.denosumabBinding
	o.sed = o.isotropicSED
	for _, p := range prms {
		if !o.setPrm(p) && !o.Scheiner.setPrm(p) && !o.Pivonka.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.sig0Steady = o.sig0
	o.buildStiffness()
	o.law = &MineralisationLaw{
		Lag:        o.lagDays,
		PrimaryDur: o.primDur,
		PrimaryMax: o.primMax,
		Max:        o.mineralMax,
		Rate:       o.mineralRt,
	}
	// the initial tissue is fully mineralised
	o.ash = o.ashFraction(o.mineralMax)
	return nil
}

// setPrm assigns one parameter; returns false for unknown names
func (o *MartinezReina) setPrm(p *fun.Prm) bool {
	switch p.N {
	case "minlag":
		o.lagDays = p.V
	case "primdur":
		o.primDur = p.V
	case "primmax":
		o.primMax = p.V
	case "minmax":
		o.mineralMax = p.V
	case "minrate":
		o.mineralRt = p.V
	case "qlen":
		o.queueLen = p.V
	case "rhomin":
		o.rhoMin = p.V
	case "rhoorg":
		o.rhoOrg = p.V
	case "vorg":
		o.vorg = p.V
	case "nu":
		o.nu = p.V
	case "pmoinc":
		o.pmoInc = p.V
	case "pmoxi":
		o.pmoXi = p.V
	case "pmotau":
		o.pmoTau = p.V
	case "denka":
		o.denKa = p.V
	case "denf":
		o.denF = p.V
	case "denvol":
		o.denVol = p.V
	case "denkm":
		o.denKm = p.V
	case "denvmax":
		o.denVmax = p.V
	case "denkel":
		o.denKel = p.V
	case "denmolar":
		o.denMolar = p.V
	case "denaccess":
		o.denAccess = p.V
	case "denkbind":
		o.denKbind = p.V
	default:
		return false
	}
	return true
}

// GetPrms returns the parameters of Martinez-Reina and Pivonka (2019)
func (o *MartinezReina) GetPrms() fun.Prms {
	prms := o.Scheiner.GetPrms()
	for _, p := range prms {
		if p.N == "sig0" {
			p.V = -5e-3
		}
	}
	return append(prms, fun.Prms{
		&fun.Prm{N: "minlag", V: 12},
		&fun.Prm{N: "primdur", V: 10},
		&fun.Prm{N: "primmax", V: 0.121},
		&fun.Prm{N: "minmax", V: 0.442},
		&fun.Prm{N: "minrate", V: 0.003},
		&fun.Prm{N: "qlen", V: 4000},
		&fun.Prm{N: "rhomin", V: 3.2},
		&fun.Prm{N: "rhoorg", V: 1.1},
		&fun.Prm{N: "vorg", V: 0.36},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "pmoinc", V: 1000},
		&fun.Prm{N: "pmoxi", V: 0.5},
		&fun.Prm{N: "pmotau", V: 1095},
		&fun.Prm{N: "denka", V: 0.2568},
		&fun.Prm{N: "denf", V: 0.61},
		&fun.Prm{N: "denvol", V: 2490},
		&fun.Prm{N: "denkm", V: 188},
		&fun.Prm{N: "denvmax", V: 60400},
		&fun.Prm{N: "denkel", V: 0.0266},
		&fun.Prm{N: "denmolar", V: 144.7},
		&fun.Prm{N: "denaccess", V: 0.46},
		&fun.Prm{N: "denkbind", V: 1e9},
	}...)
}

// SetStage caches effective parameters for one integration segment
func (o *MartinezReina) SetStage(t0, t1 float64) error {
	if t0 >= 0 {
		if err := o.ensureReference(); err != nil {
			return err
		}
	}
	tmid := 0.5 * (t0 + t1)
	for _, p := range o.lc.Apply(o.base, tmid) {
		if !o.setPrm(p) && !o.Scheiner.setPrm(p) && !o.Pivonka.setPrm(p) {
			return &loadcase.UnknownParamError{Set: o.Name(), Name: p.N}
		}
	}
	o.injOBp = o.lc.Injection("obp", tmid)
	o.injOBa = o.lc.Injection("oba", tmid)
	o.injOCa = o.lc.Injection("oca", tmid)
	o.injPTH = o.lc.Injection("pth", tmid)
	o.injOPG = o.lc.Injection("opg", tmid)
	o.injRANKL = o.lc.Injection("rankl", tmid)
	o.injTGFb = o.lc.Injection("tgfb", tmid)
	return nil
}

// SetPMO switches on the postmenopausal RANKL excess over [t0,t1]
func (o *MartinezReina) SetPMO(t0, t1 float64) {
	o.pmoOn = true
	o.pmoT0, o.pmoT1 = t0, t1
}

// SetDenosumab activates the treatment: a dose [ng] administered every
// period days within [start,end]. The serum concentration over one period
// is precomputed once from the pharmacokinetic model.
func (o *MartinezReina) SetDenosumab(start, end, period, dose float64) error {
	o.denOn = true
	o.denStart, o.denEnd = start, end
	o.denPeriod = period
	o.denDose = dose
	return o.precomputePK()
}

// ranklSupply adds the postmenopausal excess production to any load case
// injection. The excess decays from the onset of the estrogen deficit.
func (o *MartinezReina) ranklSupply(t float64) float64 {
	r := o.injRANKLAt(t)
	if o.pmoOn && t >= o.pmoT0 && t <= o.pmoT1 {
		u := (t - o.pmoT0) / o.pmoTau
		r += o.pmoInc * o.pmoXi * o.pmoXi / (o.pmoXi*o.pmoXi + u*u)
	}
	return r
}

// denosumabBinding returns the extra competitive RANKL binding due to the
// circulating drug
func (o *MartinezReina) denosumabBinding(t float64) float64 {
	if !o.denOn || t < o.denStart || t > o.denEnd {
		return 0
	}
	return o.denAccess * o.denKbind * o.denConcentration(t)
}

// denConcentration returns the drug concentration [pM] at time t by
// periodic translation into the precomputed administration interval
func (o *MartinezReina) denConcentration(t float64) float64 {
	tau := math.Mod(t-o.denStart, o.denPeriod)
	k := int(tau + 0.5)
	if k >= len(o.cden) {
		k = len(o.cden) - 1
	}
	c := o.cden[k]
	return c / 1e-3 / (o.denMolar * 1e12)
}

// precomputePK integrates the one compartment model with first order
// absorption and parallel Michaelis-Menten and linear elimination over one
// administration interval, sampled daily
func (o *MartinezReina) precomputePK() error {
	vf := o.denVol / o.denF
	fcn := func(f []float64, x float64, y []float64, args ...interface{}) error {
		c := y[0]
		f[0] = o.denKa*(o.denDose/vf)*math.Exp(-o.denKa*x) - c/(o.denKm+c)*(o.denVmax/vf) - o.denKel*c
		return nil
	}
	n := int(o.denPeriod)
	o.cden = make([]float64, n+1)
	y := []float64{0}
	var sol ode.ODE
	sol.Init("Radau5", 1, fcn, nil, nil, nil, true)
	sol.Distr = false
	sol.SetTol(1e-8, 1e-8)
	for k := 0; k < n; k++ {
		if err := sol.Solve(y, float64(k), float64(k+1), 0.1, false); err != nil {
			return &IntegrationError{Model: o.Name(), T0: float64(k), T1: float64(k + 1), Last: []float64{y[0]}, Msg: err.Error()}
		}
		o.cden[k+1] = y[0]
	}
	return nil
}

// ashFraction converts an average mineral content into the ash fraction
func (o *MartinezReina) ashFraction(vm float64) float64 {
	return o.rhoMin * vm / (o.rhoMin*vm + o.rhoOrg*o.vorg)
}

// apparentDensity returns the apparent wet density of the tissue [g/cm3]
func (o *MartinezReina) apparentDensity(vm, fbm float64) float64 {
	return (1 + (o.rhoMin-1)*vm + (o.rhoOrg-1)*o.vorg) * fbm / 100.0
}

// youngsModulus returns the stiffness of the tissue from the bone matrix
// fraction and the current ash fraction [GPa], after Hernandez et al.
func (o *MartinezReina) youngsModulus(fbm float64) float64 {
	return 84.37 * math.Pow(fbm/100.0, 2.58) * math.Pow(o.ash, 2.74)
}

// isotropicSED evaluates the strain energy density under the pinned
// uniaxial stress for the isotropic ash dependent stiffness
func (o *MartinezReina) isotropicSED(pvas, fbm, sig float64) (float64, error) {
	return 0.5 * sig * sig / o.youngsModulus(fbm), nil
}

// BMDDResults collects the output of a bone mineral density simulation.
// The three groups evolve on different time resolutions and keep their own
// axes: the cell trajectory carries the solver's adaptive sampling, the
// composition history advances one sample per daily ageing step, and the
// distribution snapshots are taken every save interval.
type BMDDResults struct {

	// dense cell state trajectory, all daily segments concatenated
	Cells *Trajectory

	// daily composition history
	T       []float64 // sample days
	Mineral []float64 // average mineral content
	Ash     []float64 // ash fraction
	Density []float64 // apparent density [g/cm3]
	Stiff   []float64 // tissue stiffness [GPa]

	// mineral distribution snapshots
	MineralAxis []float64   // mineral content per tissue age slot
	TDist       []float64   // snapshot days
	Dist        [][]float64 // packet volume fractions, one row per snapshot
}

// SolveBMDD runs the coupled simulation from t0 to tf: each day the cell
// populations are integrated, then the tissue age queue, the mineral
// content and the stiffness are updated. A nil y0 starts from the steady
// state. save is the interval [days] between distribution snapshots; a
// non-positive save disables them. Day boundaries align the queue with the
// daily packet resolution.
func (o *MartinezReina) SolveBMDD(t0, tf float64, y0 []float64, save float64) (*BMDDResults, error) {
	if y0 == nil {
		s, err := SteadyState(o)
		if err != nil {
			return nil, err
		}
		y0 = s.Vec(o.Nstate())
	}
	y := make([]float64, len(y0))
	copy(y, y0)
	ndays := int(tf-t0+0.5) + 1
	res := &BMDDResults{
		Cells:   newTrajectory(o.Nstate()),
		T:       make([]float64, 0, ndays),
		Mineral: make([]float64, 0, ndays),
		Ash:     make([]float64, 0, ndays),
		Density: make([]float64, 0, ndays),
		Stiff:   make([]float64, 0, ndays),
	}
	queue := NewAgeingQueue(int(o.queueLen), int(o.lagDays), 0)
	if err := queue.Prime(o.kform*y[1]/100.0, o.kres*y[2]/100.0, y[4]/100.0); err != nil {
		return nil, err
	}
	nq := queue.Len()
	res.MineralAxis = make([]float64, nq)
	for i := 0; i < nq-1; i++ {
		res.MineralAxis[i] = o.law.Content(float64(i))
	}
	res.MineralAxis[nq-1] = o.law.Max
	record := func(t float64) {
		res.T = append(res.T, t)
		vm := queue.AverageMineral(o.law, y[4]/100.0)
		o.ash = o.ashFraction(vm)
		res.Mineral = append(res.Mineral, vm)
		res.Ash = append(res.Ash, o.ash)
		res.Density = append(res.Density, o.apparentDensity(vm, y[4]))
		res.Stiff = append(res.Stiff, o.youngsModulus(y[4]))
	}
	snapshot := func(t float64) {
		res.TDist = append(res.TDist, t)
		cp := make([]float64, nq)
		copy(cp, queue.Packets())
		res.Dist = append(res.Dist, cp)
	}
	record(t0)
	res.Cells.append(t0, y)
	nextSnap := t0
	if save > 0 {
		snapshot(t0)
		nextSnap = t0 + save
	}
	for t := t0; t < tf; t += 1.0 {
		day, err := Solve(o, t, math.Min(t+1.0, tf), y)
		if err != nil {
			return res, err
		}
		yk := make([]float64, o.Nstate())
		for k := 1; k < day.Len(); k++ {
			for i := range yk {
				yk[i] = day.Y[i][k]
			}
			res.Cells.append(day.T[k], yk)
		}
		copy(y, day.LastY())
		formed := o.kform * y[1] / 100.0
		resorbed := o.kres * y[2] / 100.0
		if err := queue.Update(formed, resorbed, y[4]/100.0); err != nil {
			return res, err
		}
		record(t + 1.0)
		if save > 0 && t+1.0 >= nextSnap-1e-9 {
			snapshot(t + 1.0)
			nextSnap += save
		}
	}
	return res, nil
}
