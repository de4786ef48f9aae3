package hydro

import (
	"github.com/notargets/gomhd/mesh"
)

// ResetFluxes zeroes the flux arrays of one register so the conduction
// kernels can accumulate into them
func ResetFluxes(bd *mesh.BlockData, ndim int) {
	for d := 0; d < ndim; d++ {
		bd.Flux[d].Zero()
	}
}

// fluxDiv is the right-hand side contribution of cell (k,j,i): the net inflow
// of variable n through its interfaces per unit volume
func fluxDiv(bd *mesh.BlockData, n, k, j, i, ndim int) (div float64) {
	c := bd.Block.Coords
	div = (bd.Flux[mesh.X1DIR].At(n, k, j, i) - bd.Flux[mesh.X1DIR].At(n, k, j, i+1)) /
		c.Dx[mesh.X1DIR]
	if ndim >= 2 {
		div += (bd.Flux[mesh.X2DIR].At(n, k, j, i) - bd.Flux[mesh.X2DIR].At(n, k, j+1, i)) /
			c.Dx[mesh.X2DIR]
	}
	if ndim >= 3 {
		div += (bd.Flux[mesh.X3DIR].At(n, k, j, i) - bd.Flux[mesh.X3DIR].At(n, k+1, j, i)) /
			c.Dx[mesh.X3DIR]
	}
	return
}

// UpdateWithFluxDivergence advances the conserved variables of u0 over the
// interior:
//
//	u0 <- gam0*u0 + gam1*u1 + betaDt*div(F(u0))
//
// with the stage weights of the outer integrator. Variables beyond the hydro
// set carry zero hyperbolic flux and only feel the register blend.
func UpdateWithFluxDivergence(u0, u1 *mesh.BlockData, gam0, gam1, betaDt float64, ndim int) {
	var (
		mb = u0.Block
		ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	for n := 0; n < u0.Cons.NVar; n++ {
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					u0.Cons.Set(n, k, j, i,
						gam0*u0.Cons.At(n, k, j, i)+gam1*u1.Cons.At(n, k, j, i)+
							betaDt*fluxDiv(u0, n, k, j, i, ndim))
				}
			}
		}
	}
}

// FluxDivergence evaluates div(F) of one register into out over the interior,
// leaving the register itself untouched. The super-time-stepper uses this to
// freeze the right-hand side of the initial state.
func FluxDivergence(bd *mesh.BlockData, out mesh.FieldArray, ndim int) {
	var (
		mb = bd.Block
		ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	for n := 0; n < bd.Cons.NVar; n++ {
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					out.Set(n, k, j, i, fluxDiv(bd, n, k, j, i, ndim))
				}
			}
		}
	}
}
