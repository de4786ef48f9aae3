package pgen

import (
	log "github.com/sirupsen/logrus"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// Generator fills the primitive variables of every block's base register over
// the interior; ghost zones are filled by the driver's first exchange
type Generator func(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters)

var registry = map[string]Generator{
	"uniform":          Uniform,
	"sod":              SodShockTube,
	"blast":            Blast,
	"kh":               KelvinHelmholtz,
	"linear_wave":      LinearWave,
	"conduction_front": ConductionFront,
}

// Generate runs the named problem generator and derives the conserved
// variables. An unknown problem type is a configuration error.
func Generate(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	g, ok := registry[ip.ProblemType]
	if !ok {
		log.Fatalf("unknown problem type %q", ip.ProblemType)
	}
	g(m, e, ip)
	for _, mb := range m.Blocks {
		var (
			bd = mb.Data("base")
			ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
		)
		e.PrimitiveToConserved(bd.Prim, bd.Cons, ib, jb, kb)
	}
}

// forEachInterior visits every interior cell of every block with its cell
// center coordinates
func forEachInterior(m *mesh.Mesh, fn func(prim mesh.FieldArray, k, j, i int, x, y, z float64)) {
	for _, mb := range m.Blocks {
		var (
			prim = mb.Data("base").Prim
			c    = mb.Coords
			ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb   = mb.Bounds(mesh.X3DIR, mesh.Interior)
		)
		for k := kb.S; k <= kb.E; k++ {
			z := c.Center(mesh.X3DIR, k)
			for j := jb.S; j <= jb.E; j++ {
				y := c.Center(mesh.X2DIR, j)
				for i := ib.S; i <= ib.E; i++ {
					fn(prim, k, j, i, c.Center(mesh.X1DIR, i), y, z)
				}
			}
		}
	}
}

func setState(prim mesh.FieldArray, k, j, i int, rho, vx, vy, vz, p float64) {
	prim.Set(mesh.IDN, k, j, i, rho)
	prim.Set(mesh.IV1, k, j, i, vx)
	prim.Set(mesh.IV2, k, j, i, vy)
	prim.Set(mesh.IV3, k, j, i, vz)
	prim.Set(mesh.IPR, k, j, i, p)
}

func setField(prim mesh.FieldArray, k, j, i int, bx, by, bz float64) {
	if prim.NVar < mesh.NMHD {
		return
	}
	prim.Set(mesh.IB1, k, j, i, bx)
	prim.Set(mesh.IB2, k, j, i, by)
	prim.Set(mesh.IB3, k, j, i, bz)
}
