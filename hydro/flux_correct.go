package hydro

import (
	log "github.com/sirupsen/logrus"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/riemann"
)

// fofcMaxPasses bounds the retry loop: correcting a cell's interfaces can push
// a neighbor below the floors, so the trial is repeated, but donor-cell fluxes
// are a fixed point and the loop settles within a few passes
const fofcMaxPasses = 4

// FluxCorrect replays the stage update per interior cell without committing
// it. Cells that would land below the density or pressure floor get all their
// interface fluxes replaced by first-order donor-cell fluxes, which are
// positivity preserving, before the real update runs.
func (pkg *Package) FluxCorrect(u0, u1 *mesh.BlockData, gam0, gam1, betaDt float64, ndim int) (ncorrected int) {
	var (
		mb     = u0.Block
		e      = pkg.EOS
		gm1    = e.Gamma() - 1
		dfloor = e.DensityFloor()
		pfloor = e.PressureFloor()
		ib     = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb     = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb     = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	for pass := 0; pass < fofcMaxPasses; pass++ {
		nbad := 0
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					var u [mesh.NHydro]float64
					for n := 0; n < mesh.NHydro; n++ {
						u[n] = gam0*u0.Cons.At(n, k, j, i) +
							gam1*u1.Cons.At(n, k, j, i) +
							betaDt*fluxDiv(u0, n, k, j, i, ndim)
					}
					ke := 0.5 * (u[mesh.IM1]*u[mesh.IM1] + u[mesh.IM2]*u[mesh.IM2] +
						u[mesh.IM3]*u[mesh.IM3]) / u[mesh.IDN]
					if u[mesh.IDN] >= dfloor && gm1*(u[mesh.IEN]-ke) >= pfloor {
						continue
					}
					nbad++
					pkg.replaceWithDonorCellFluxes(u0, k, j, i, ndim)
				}
			}
		}
		ncorrected += nbad
		if nbad == 0 {
			return
		}
	}
	log.Warnf("block %d: cells still below floors after %d flux correction passes",
		mb.ID, fofcMaxPasses)
	return
}

// replaceWithDonorCellFluxes overwrites the 2*ndim interface fluxes of cell
// (k,j,i) with first-order upwind fluxes from the stage primitives
func (pkg *Package) replaceWithDonorCellFluxes(bd *mesh.BlockData, k, j, i, ndim int) {
	var (
		prim  = bd.Prim
		gamma = pkg.EOS.Gamma()
		wl    [mesh.NHydro]float64
		wr    [mesh.NHydro]float64
	)
	// the flux at an interface is indexed by its upper cell (k1,j1,i1)
	dc := func(flx mesh.FieldArray, ivx, k0, j0, i0, k1, j1, i1 int) {
		for n := 0; n < mesh.NHydro; n++ {
			wl[n] = prim.At(n, k0, j0, i0)
			wr[n] = prim.At(n, k1, j1, i1)
		}
		f := riemann.HLLE(gamma, wl[:], wr[:], ivx)
		for n := 0; n < mesh.NHydro; n++ {
			flx.Set(n, k1, j1, i1, f[n])
		}
	}
	dc(bd.Flux[mesh.X1DIR], mesh.IV1, k, j, i-1, k, j, i)
	dc(bd.Flux[mesh.X1DIR], mesh.IV1, k, j, i, k, j, i+1)
	if ndim >= 2 {
		dc(bd.Flux[mesh.X2DIR], mesh.IV2, k, j-1, i, k, j, i)
		dc(bd.Flux[mesh.X2DIR], mesh.IV2, k, j, i, k, j+1, i)
	}
	if ndim >= 3 {
		dc(bd.Flux[mesh.X3DIR], mesh.IV3, k-1, j, i, k, j, i)
		dc(bd.Flux[mesh.X3DIR], mesh.IV3, k, j, i, k+1, j, i)
	}
}
