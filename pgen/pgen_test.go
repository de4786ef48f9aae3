package pgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

func testSetup(t *testing.T, nvar int, problem string,
	params map[string]float64) (*mesh.Mesh, eos.EOS, *InputParameters.InputParameters) {
	m, err := mesh.NewMesh([3]int{16, 16, 1}, [3]int{1, 1, 1},
		[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, nvar, 2, 1,
		[3]mesh.BoundaryType{mesh.Periodic, mesh.Periodic, mesh.Periodic})
	require.NoError(t, err)
	e, err := eos.New("adiabatic", 1.4, eos.DefaultFloor, eos.DefaultFloor)
	require.NoError(t, err)
	ip := &InputParameters.InputParameters{
		Xmax:          [3]float64{1, 1, 1},
		ProblemType:   problem,
		ProblemParams: params,
	}
	return m, e, ip
}

func TestSodGenerator(t *testing.T) {
	m, e, ip := testSetup(t, mesh.NHydro, "sod", nil)
	Generate(m, e, ip)
	var (
		mb   = m.Blocks[0]
		prim = mb.Data("base").Prim
		cons = mb.Data("base").Cons
		ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
	)
	// left of the diaphragm: the dense state; right: the light one
	assert.Equal(t, 1.0, prim.At(mesh.IDN, 0, jb.S, ib.S))
	assert.Equal(t, 0.125, prim.At(mesh.IDN, 0, jb.S, ib.E))
	assert.Equal(t, 0.1, prim.At(mesh.IPR, 0, jb.S, ib.E))
	// conserved energy follows from the primitives
	assert.InDelta(t, 1.0/0.4, cons.At(mesh.IEN, 0, jb.S, ib.S), 1.e-14)
}

func TestGeneratorsProduceValidStates(t *testing.T) {
	for _, problem := range []string{"uniform", "blast", "kh", "linear_wave"} {
		m, e, ip := testSetup(t, mesh.NHydro, problem, nil)
		Generate(m, e, ip)
		for _, mb := range m.Blocks {
			var (
				prim = mb.Data("base").Prim
				ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
				jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
			)
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					assert.True(t, prim.At(mesh.IDN, 0, j, i) > 0, "%s density", problem)
					assert.True(t, prim.At(mesh.IPR, 0, j, i) > 0, "%s pressure", problem)
				}
			}
		}
	}
}

func TestConductionFrontField(t *testing.T) {
	m, e, ip := testSetup(t, mesh.NMHD, "conduction_front",
		map[string]float64{"btheta": 0, "bmag": 2})
	Generate(m, e, ip)
	var (
		prim = m.Blocks[0].Data("base").Prim
		ib   = m.Blocks[0].Bounds(mesh.X1DIR, mesh.Interior)
		jb   = m.Blocks[0].Bounds(mesh.X2DIR, mesh.Interior)
	)
	assert.Equal(t, 2.0, prim.At(mesh.IB1, 0, jb.S, ib.S))
	assert.Equal(t, 0.0, prim.At(mesh.IB2, 0, jb.S, ib.S))
	// temperature step around x0
	assert.Equal(t, 10.0, prim.At(mesh.IPR, 0, jb.S, ib.S))
	assert.Equal(t, 1.0, prim.At(mesh.IPR, 0, jb.S, ib.E))
}

func TestSodExact(t *testing.T) {
	x := []float64{0.05, 0.45, 0.6, 0.8, 0.95}
	rho, p, u := SodExact(1.4, 0.2, x)
	// untouched end states
	assert.InDelta(t, 1.0, rho[0], 1.e-12)
	assert.InDelta(t, 0.125, rho[4], 1.e-12)
	assert.InDelta(t, 0.0, u[0], 1.e-12)
	// the post-shock pressure of the standard tube is ~0.30313
	assert.InDelta(t, 0.30313, p[2], 1.e-3)
	// contact: pressure continuous, density jumps between x2 and x3
	assert.InDelta(t, p[2], p[3], 1.e-3)
	assert.True(t, rho[2] > rho[3])
}
