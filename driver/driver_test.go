package driver

import (
	"context"
	"math"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/hydro/diffusion"
	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/pgen"
	"github.com/notargets/gomhd/utils"
)

// newTestDriver wires mesh, EOS, package and driver from an input deck the
// way the solve command does
func newTestDriver(t *testing.T, ip *InputParameters.InputParameters) *Driver {
	var (
		bcs  [3]mesh.BoundaryType
		nvar = mesh.NHydro
	)
	for d := 0; d < 3; d++ {
		bc, ok := mesh.BoundaryNames[ip.BCs[d]]
		require.True(t, ok, "bad BC %q", ip.BCs[d])
		bcs[d] = bc
	}
	if ip.Fluid == "glmmhd" {
		nvar = mesh.NMHD
	}
	m, err := mesh.NewMesh(ip.NX, ip.NBlocks, ip.Xmin, ip.Xmax,
		nvar, ip.NGhost, ip.ParallelDegree, bcs)
	require.NoError(t, err)
	e, err := eos.New(ip.EOS, ip.Gamma, eos.DefaultFloor, eos.DefaultFloor)
	require.NoError(t, err)
	td, err := diffusion.NewThermalDiffusivity(
		diffusion.ConductionNames[ip.Conduction],
		diffusion.ConductionCoeffNames[ip.ConductionCoeff],
		ip.ConductionCoeffValue, ip.MbarOverKb)
	require.NoError(t, err)
	pkg, err := hydro.NewPackage(e, ip.CFL, nvar, td, diffusion.DiffIntNames[ip.DiffInt])
	require.NoError(t, err)
	pkg.UseScratch = ip.UseScratch
	pkg.FirstOrderFluxCorrect = ip.FirstOrderFluxCorrect
	pkg.CalcCh = ip.CalcCh
	d, err := NewDriver(m, pkg, ip.Integrator, ip.FinalTime, ip.MaxCycles)
	require.NoError(t, err)
	pgen.Generate(m, e, ip)
	return d
}

func baseDeck() *InputParameters.InputParameters {
	return &InputParameters.InputParameters{
		Fluid:      "euler",
		EOS:        "adiabatic",
		Gamma:      1.4,
		CFL:        0.4,
		Integrator: "vl2",
		NX:         [3]int{64, 1, 1},
		NBlocks:    [3]int{1, 1, 1},
		Xmin:       [3]float64{0, 0, 0},
		Xmax:       [3]float64{1, 1, 1},
		NGhost:     2,
		BCs:        [3]string{"periodic", "periodic", "periodic"},
		Conduction: "none",
		DiffInt:    "none",
		MaxCycles:  -1,
	}
}

func TestStsStages(t *testing.T) {
	// s = ceil from the stability polynomial, bumped to odd
	assert.Equal(t, 3, stsStages(1, 1))
	assert.Equal(t, 5, stsStages(4, 1))
	// infinite diffusive dt asks for the minimum stage count
	assert.Equal(t, 3, stsStages(1, math.Inf(1)))
	// the Legendre weights start at 1/3 and grow toward 1/2
	assert.Equal(t, 1./3., legendreB(0))
	assert.Equal(t, 1./3., legendreB(2))
	assert.InDelta(t, (9.+3.-2.)/(2.*3.*4.), legendreB(3), 1.e-15)
}

// Sod shock tube against the exact Riemann solution
func TestSodShockTube(t *testing.T) {
	ip := baseDeck()
	ip.NX = [3]int{128, 1, 1}
	ip.NBlocks = [3]int{2, 1, 1}
	ip.ParallelDegree = 2
	ip.BCs = [3]string{"outflow", "periodic", "periodic"}
	ip.FinalTime = 0.2
	ip.ProblemType = "sod"
	ip.FirstOrderFluxCorrect = true
	d := newTestDriver(t, ip)
	require.NoError(t, d.Execute(context.Background()))
	assert.InDelta(t, 0.2, d.Time, 1.e-12)

	// gather interior density and cell centers in global order
	var xs, rhos []float64
	for bi := 0; bi < 2; bi++ {
		mb := d.Mesh.Blocks[bi]
		prim := mb.Data(regBase).Prim
		ib := mb.Bounds(mesh.X1DIR, mesh.Interior)
		for i := ib.S; i <= ib.E; i++ {
			xs = append(xs, mb.Coords.Center(mesh.X1DIR, i))
			rhos = append(rhos, prim.At(mesh.IDN, 0, 0, i))
		}
	}
	exact, _, _ := pgen.SodExact(1.4, 0.2, xs)
	diff := make([]float64, len(xs))
	for i := range xs {
		diff[i] = rhos[i] - exact[i]
	}
	assert.Less(t, utils.L1Norm(diff), 0.02, "Sod density L1 error")
}

// A small-amplitude sound wave returns to its initial state after one period
// on a periodic domain
func TestLinearWaveRoundTrip(t *testing.T) {
	ip := baseDeck()
	ip.FinalTime = 1.0 // crossing time at cs=1
	ip.ProblemType = "linear_wave"
	d := newTestDriver(t, ip)

	mb := d.Mesh.Blocks[0]
	ib := mb.Bounds(mesh.X1DIR, mesh.Interior)
	init := make([]float64, ib.N())
	for i := ib.S; i <= ib.E; i++ {
		init[i-ib.S] = mb.Data(regBase).Cons.At(mesh.IDN, 0, 0, i)
	}
	require.NoError(t, d.Execute(context.Background()))
	diff := make([]float64, ib.N())
	for i := ib.S; i <= ib.E; i++ {
		diff[i-ib.S] = mb.Data(regBase).Cons.At(mesh.IDN, 0, 0, i) - init[i-ib.S]
	}
	// error well below the perturbation amplitude of 1e-6
	assert.Less(t, utils.L1Norm(diff), 1.e-7, "linear wave did not return")
	assert.Less(t, utils.L2Norm(diff), 1.e-7, "linear wave L2 error")
}

// Mass is conserved to round-off on a periodic domain
func TestMassConservation(t *testing.T) {
	ip := baseDeck()
	ip.NX = [3]int{32, 32, 1}
	ip.NBlocks = [3]int{2, 2, 1}
	ip.ParallelDegree = 4
	ip.MaxCycles = 20
	ip.FinalTime = 100 // cycle limited
	ip.ProblemType = "kh"
	ip.UseScratch = true
	d := newTestDriver(t, ip)
	d.exchangeAndPrim(regBase)
	mass0 := d.TotalMass()
	require.NoError(t, d.Execute(context.Background()))
	assert.Equal(t, 20, d.NCycle)
	assert.InDelta(t, mass0, d.TotalMass(), 1.e-12*math.Abs(mass0))
}

// Super-time-stepped conduction relaxes a weak temperature step while
// conserving total energy on a periodic domain
func TestConductionFrontRKL2(t *testing.T) {
	ip := baseDeck()
	ip.NX = [3]int{64, 1, 1}
	ip.MaxCycles = 10
	ip.FinalTime = 100
	ip.Fluid = "glmmhd"
	ip.Conduction = "anisotropic"
	ip.ConductionCoeff = "fixed"
	ip.ConductionCoeffValue = 0.05
	ip.DiffInt = "rkl2"
	ip.ProblemType = "conduction_front"
	// weak contrast keeps the gas dynamics negligible over a few cycles
	ip.ProblemParams = map[string]float64{"thot": 1.002, "tcold": 1.0, "btheta": 0}
	d := newTestDriver(t, ip)
	d.exchangeAndPrim(regBase)

	energy := func() (e float64) {
		for _, mb := range d.Mesh.Blocks {
			cons := mb.Data(regBase).Cons
			ib := mb.Bounds(mesh.X1DIR, mesh.Interior)
			for i := ib.S; i <= ib.E; i++ {
				e += cons.At(mesh.IEN, 0, 0, i)
			}
		}
		return
	}
	tRange := func() (tmin, tmax float64) {
		tmin, tmax = math.Inf(1), math.Inf(-1)
		for _, mb := range d.Mesh.Blocks {
			prim := mb.Data(regBase).Prim
			ib := mb.Bounds(mesh.X1DIR, mesh.Interior)
			for i := ib.S; i <= ib.E; i++ {
				T := prim.At(mesh.IPR, 0, 0, i) / prim.At(mesh.IDN, 0, 0, i)
				tmin = math.Min(tmin, T)
				tmax = math.Max(tmax, T)
			}
		}
		return
	}
	var (
		e0         = energy()
		min0, max0 = tRange()
	)
	require.NoError(t, d.Execute(context.Background()))
	var (
		e1         = energy()
		min1, max1 = tRange()
	)
	assert.InDelta(t, e0, e1, 1.e-10*math.Abs(e0), "total energy drifted")
	// diffusion pulls the extremes together
	assert.True(t, max1 < max0+1.e-12, "maximum temperature rose")
	assert.True(t, min1 > min0-1.e-12, "minimum temperature fell")
	assert.True(t, max1-min1 < max0-min0, "temperature contrast did not shrink")
}

// At the minimum stage count the super-time-step reproduces a single
// explicit diffusion step up to the schemes' O(tau^2) difference
func TestSuperTimeStepMatchesExplicit(t *testing.T) {
	ip := baseDeck()
	ip.FinalTime = 1
	ip.Conduction = "isotropic"
	ip.ConductionCoeff = "fixed"
	ip.ConductionCoeffValue = 0.05
	ip.DiffInt = "rkl2"
	ip.ProblemType = "conduction_front"
	d := newTestDriver(t, ip)
	d.exchangeAndPrim(regBase)
	d.DtDiff = d.Pkg.ThermalDiff.EstimateTimestep(d.Mesh.Blocks, regBase, d.Mesh.NDim)
	tau := 0.2 * d.DtDiff
	require.Equal(t, 3, stsStages(tau, d.DtDiff))

	// forward Euler reference: E + tau * M(E), frozen at the initial state
	var (
		mb     = d.Mesh.Blocks[0]
		cons   = mb.Data(regBase).Cons
		my     = mb.Data(regMY1).Cons
		ib     = mb.Bounds(mesh.X1DIR, mesh.Interior)
		expl   = make([]float64, ib.N())
		change = make([]float64, ib.N())
	)
	d.conductionOperator(mb, my)
	for i := ib.S; i <= ib.E; i++ {
		change[i-ib.S] = tau * my.At(mesh.IEN, 0, 0, i)
		expl[i-ib.S] = cons.At(mesh.IEN, 0, 0, i) + change[i-ib.S]
	}
	require.Greater(t, utils.LInfNorm(change), 0.0)

	d.SuperTimeStep(tau)
	diff := make([]float64, ib.N())
	for i := ib.S; i <= ib.E; i++ {
		diff[i-ib.S] = cons.At(mesh.IEN, 0, 0, i) - expl[i-ib.S]
	}
	assert.Less(t, utils.LInfNorm(diff), 0.1*utils.LInfNorm(change),
		"three-stage step strayed from the explicit update")
}

// The accuracy warning keys on the full-step stiffness ratio 2*tau/dt_diff
func TestDtRatioWarning(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	dtRatioCheck(49, 1)
	assert.Empty(t, hook.Entries, "ratio 98 must not warn")
	dtRatioCheck(51, 1)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	hook.Reset()
	dtRatioCheck(1.e6, math.Inf(1))
	assert.Empty(t, hook.Entries, "no diffusive limit, no warning")
}

// The divergence-cleaning speed follows c_h = CFL * min(dx) / dt_hyp
func TestCalcCh(t *testing.T) {
	ip := baseDeck()
	ip.MaxCycles = 1
	ip.FinalTime = 100
	ip.ProblemType = "uniform"
	ip.CalcCh = true
	d := newTestDriver(t, ip)
	require.NoError(t, d.Execute(context.Background()))
	assert.InDelta(t, d.Pkg.CFL*d.MinDx/d.DtHyp, d.Ch, 1.e-12)
}
