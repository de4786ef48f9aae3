package hydro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/hydro/diffusion"
	"github.com/notargets/gomhd/mesh"
)

func testPackage(t *testing.T, cfl float64) *Package {
	e, err := eos.New("adiabatic", 1.4, eos.DefaultFloor, eos.DefaultFloor)
	require.NoError(t, err)
	td, err := diffusion.NewThermalDiffusivity(diffusion.None, diffusion.Fixed, 0, 0)
	require.NoError(t, err)
	pkg, err := NewPackage(e, cfl, mesh.NHydro, td, diffusion.DiffIntNone)
	require.NoError(t, err)
	return pkg
}

func testMesh(t *testing.T, nx [3]int) *mesh.Mesh {
	m, err := mesh.NewMesh(nx, [3]int{1, 1, 1},
		[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, mesh.NHydro, 2, 1,
		[3]mesh.BoundaryType{mesh.Periodic, mesh.Periodic, mesh.Periodic})
	require.NoError(t, err)
	return m
}

// fillPrim evaluates the state over the entire block, ghosts included, and
// derives the conserved variables
func fillPrim(m *mesh.Mesh, e eos.EOS,
	fn func(x, y, z float64) (rho, vx, vy, vz, p float64)) {
	for _, mb := range m.Blocks {
		var (
			bd = mb.Data("base")
			c  = mb.Coords
			ib = mb.Bounds(mesh.X1DIR, mesh.Entire)
			jb = mb.Bounds(mesh.X2DIR, mesh.Entire)
			kb = mb.Bounds(mesh.X3DIR, mesh.Entire)
		)
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					rho, vx, vy, vz, p := fn(c.Center(mesh.X1DIR, i),
						c.Center(mesh.X2DIR, j), c.Center(mesh.X3DIR, k))
					bd.Prim.Set(mesh.IDN, k, j, i, rho)
					bd.Prim.Set(mesh.IV1, k, j, i, vx)
					bd.Prim.Set(mesh.IV2, k, j, i, vy)
					bd.Prim.Set(mesh.IV3, k, j, i, vz)
					bd.Prim.Set(mesh.IPR, k, j, i, p)
				}
			}
		}
		e.PrimitiveToConserved(bd.Prim, bd.Cons, ib, jb, kb)
	}
}

// A spatially uniform state has zero flux divergence: the update must leave
// the conserved variables untouched
func TestUniformStateNoEvolution(t *testing.T) {
	var (
		pkg = testPackage(t, 0.4)
		m   = testMesh(t, [3]int{8, 8, 1})
	)
	m.AddRegister("u1")
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		return 1, 0.3, -0.2, 0, 1
	})
	for _, mb := range m.Blocks {
		var (
			bd = mb.Data("base")
			u1 = mb.Data("u1")
		)
		u1.Cons.DeepCopy(bd.Cons)
		for stage := 1; stage <= 2; stage++ {
			pkg.CalculateFluxes(bd, stage, m.NDim)
			UpdateWithFluxDivergence(bd, u1, 0, 1, 0.01, m.NDim)
		}
		var (
			ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
		)
		for n := 0; n < mesh.NHydro; n++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					assert.InDelta(t, u1.Cons.At(n, 0, j, i), bd.Cons.At(n, 0, j, i), 1.e-13)
				}
			}
		}
	}
}

// The scratch-row flux path must reproduce the full-array fluxes bit for bit
// in exact arithmetic; we allow round-off
func TestScratchFluxesMatchFullArray(t *testing.T) {
	var (
		pkg = testPackage(t, 0.4)
		m   = testMesh(t, [3]int{8, 8, 8})
		mb  = m.Blocks[0]
		bd  = mb.Data("base")
	)
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		s := math.Sin(2 * math.Pi * x)
		c := math.Cos(2 * math.Pi * y)
		return 1 + 0.2*s*c, 0.3 * s, -0.1 * c, 0.05 * s, 1 + 0.1*math.Sin(2*math.Pi*z)
	})
	for stage := 1; stage <= 2; stage++ {
		var saved [3]mesh.FieldArray
		pkg.UseScratch = false
		pkg.CalculateFluxes(bd, stage, m.NDim)
		for d := 0; d < 3; d++ {
			saved[d] = mesh.NewFieldArray(bd.Flux[d].NVar, bd.Flux[d].N3, bd.Flux[d].N2, bd.Flux[d].N1)
			saved[d].DeepCopy(bd.Flux[d])
		}
		pkg.UseScratch = true
		pkg.CalculateFluxes(bd, stage, m.NDim)
		var (
			ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
		)
		for n := 0; n < mesh.NHydro; n++ {
			for k := kb.S; k <= kb.E; k++ {
				for j := jb.S; j <= jb.E; j++ {
					for i := ib.S; i <= ib.E+1; i++ {
						assert.InDelta(t, saved[0].At(n, k, j, i), bd.Flux[0].At(n, k, j, i),
							1.e-14, "X1 stage %d n=%d k=%d j=%d i=%d", stage, n, k, j, i)
					}
				}
			}
			for k := kb.S; k <= kb.E; k++ {
				for j := jb.S; j <= jb.E+1; j++ {
					for i := ib.S; i <= ib.E; i++ {
						assert.InDelta(t, saved[1].At(n, k, j, i), bd.Flux[1].At(n, k, j, i),
							1.e-14, "X2 stage %d", stage)
					}
				}
			}
			for k := kb.S; k <= kb.E+1; k++ {
				for j := jb.S; j <= jb.E; j++ {
					for i := ib.S; i <= ib.E; i++ {
						assert.InDelta(t, saved[2].At(n, k, j, i), bd.Flux[2].At(n, k, j, i),
							1.e-14, "X3 stage %d", stage)
					}
				}
			}
		}
	}
}

func TestEstimateTimestep(t *testing.T) {
	var (
		pkg = testPackage(t, 0.4)
		m   = testMesh(t, [3]int{8, 1, 1})
	)
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		return 1, 0, 0, 0, 1
	})
	// gas at rest: dt = CFL * dx / cs
	want := 0.4 * 0.125 / math.Sqrt(1.4)
	assert.InDelta(t, want, pkg.EstimateTimestep(m, "base"), 1.e-14)

	// a moving gas tightens the bound to dx/(|v|+cs)
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		return 1, 2, 0, 0, 1
	})
	want = 0.4 * 0.125 / (2 + math.Sqrt(1.4))
	assert.InDelta(t, want, pkg.EstimateTimestep(m, "base"), 1.e-14)
}

func TestFluxCorrect(t *testing.T) {
	var (
		pkg = testPackage(t, 0.4)
		m   = testMesh(t, [3]int{16, 1, 1})
		mb  = m.Blocks[0]
		bd  = mb.Data("base")
	)
	pkg.FirstOrderFluxCorrect = true
	m.AddRegister("u1")
	u1 := mb.Data("u1")
	// strong expansion: outward velocities around the center drain the
	// central cells
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		v := 3.0
		if x < 0.5 {
			v = -3
		}
		return 1, v, 0, 0, 0.01
	})
	u1.Cons.DeepCopy(bd.Cons)
	pkg.CalculateFluxes(bd, 2, m.NDim)

	// a benign step needs no correction
	n := pkg.FluxCorrect(bd, u1, 0, 1, 1.e-8, m.NDim)
	assert.Equal(t, 0, n)
	// a huge step would evacuate cells below the floor and must trigger it
	n = pkg.FluxCorrect(bd, u1, 0, 1, 0.5, m.NDim)
	assert.True(t, n > 0)

	// a corrupted interface flux on a uniform gas: the correction must
	// restore first-order fluxes there and the committed state must sit
	// above both floors
	fillPrim(m, pkg.EOS, func(x, y, z float64) (float64, float64, float64, float64, float64) {
		return 1, 0, 0, 0, 1
	})
	u1.Cons.DeepCopy(bd.Cons)
	pkg.CalculateFluxes(bd, 2, m.NDim)
	var (
		ib     = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb     = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb     = mb.Bounds(mesh.X3DIR, mesh.Interior)
		mid    = (ib.S + ib.E) / 2
		betaDt = 0.01
		gm1    = pkg.EOS.Gamma() - 1
	)
	bd.Flux[mesh.X1DIR].Set(mesh.IDN, kb.S, jb.S, mid, 100)
	bd.Flux[mesh.X1DIR].Set(mesh.IEN, kb.S, jb.S, mid, 100)
	n = pkg.FluxCorrect(bd, u1, 0, 1, betaDt, m.NDim)
	assert.True(t, n > 0, "corrupted interface must trigger the correction")
	UpdateWithFluxDivergence(bd, u1, 0, 1, betaDt, m.NDim)
	for i := ib.S; i <= ib.E; i++ {
		var (
			rho = bd.Cons.At(mesh.IDN, kb.S, jb.S, i)
			mx  = bd.Cons.At(mesh.IM1, kb.S, jb.S, i)
			en  = bd.Cons.At(mesh.IEN, kb.S, jb.S, i)
		)
		assert.True(t, rho >= pkg.EOS.DensityFloor(), "density below floor at %d", i)
		assert.True(t, gm1*(en-0.5*mx*mx/rho) >= pkg.EOS.PressureFloor(),
			"pressure below floor at %d", i)
		// donor-cell fluxes of the uniform gas leave it untouched
		assert.InDelta(t, 1.0, rho, 1.e-14)
		assert.InDelta(t, 1.0/gm1, en, 1.e-13)
	}
}
