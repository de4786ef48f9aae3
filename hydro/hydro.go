package hydro

import (
	"math"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/recon"
	"github.com/notargets/gomhd/riemann"
)

// ConsToPrim refreshes the primitive array of one register over the entire
// block, ghosts included
func (pkg *Package) ConsToPrim(bd *mesh.BlockData) {
	var (
		mb = bd.Block
		ib = mb.Bounds(mesh.X1DIR, mesh.Entire)
		jb = mb.Bounds(mesh.X2DIR, mesh.Entire)
		kb = mb.Bounds(mesh.X3DIR, mesh.Entire)
	)
	pkg.EOS.ConservedToPrimitive(bd.Cons, bd.Prim, ib, jb, kb)
}

// EstimateTimestep returns the CFL-limited hyperbolic timestep over the whole
// mesh from the current primitives of the named register
func (pkg *Package) EstimateTimestep(m *mesh.Mesh, reg string) float64 {
	var (
		e    = pkg.EOS
		ndim = m.NDim
	)
	return pkg.CFL * m.GlobalMin(func(mb *mesh.MeshBlock) float64 {
		var (
			prim  = mb.Data(reg).Prim
			c     = mb.Coords
			ib    = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb    = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb    = mb.Bounds(mesh.X3DIR, mesh.Interior)
			minDt = math.Inf(1)
		)
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					cs := e.SoundSpeed(prim.At(mesh.IDN, k, j, i), prim.At(mesh.IPR, k, j, i))
					minDt = math.Min(minDt,
						c.Dx[mesh.X1DIR]/(math.Abs(prim.At(mesh.IV1, k, j, i))+cs))
					if ndim >= 2 {
						minDt = math.Min(minDt,
							c.Dx[mesh.X2DIR]/(math.Abs(prim.At(mesh.IV2, k, j, i))+cs))
					}
					if ndim >= 3 {
						minDt = math.Min(minDt,
							c.Dx[mesh.X3DIR]/(math.Abs(prim.At(mesh.IV3, k, j, i))+cs))
					}
				}
			}
		}
		return minDt
	})
}

// CalculateFluxes fills the interface flux arrays of one register. Stage 1 of
// a multi-stage step reconstructs donor-cell states; later stages use the
// limited piecewise linear states. Transverse loop limits extend one cell
// beyond the interior in active dimensions so corner-adjacent fluxes exist
// for the flux correction pass.
func (pkg *Package) CalculateFluxes(bd *mesh.BlockData, stage, ndim int) {
	if pkg.UseScratch {
		pkg.calculateFluxesWScratch(bd, stage, ndim)
		return
	}
	var (
		mb     = bd.Block
		prim   = bd.Prim
		gamma  = pkg.EOS.Gamma()
		nhydro = pkg.NHydro
		ib     = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb     = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb     = mb.Bounds(mesh.X3DIR, mesh.Interior)

		jl, ju = jb.S, jb.E
		kl, ku = kb.S, kb.E
	)
	if ndim >= 2 {
		jl, ju = jb.S-1, jb.E+1
	}
	if ndim >= 3 {
		kl, ku = kb.S-1, kb.E+1
	}
	// X1 interfaces ib.S .. ib.E+1
	if stage == 1 {
		recon.DonorCellX1(prim, bd.Wl, bd.Wr, nhydro, kl, ku, jl, ju, ib.S, ib.E+1)
	} else {
		recon.PiecewiseLinearX1(prim, bd.Wl, bd.Wr, nhydro, kl, ku, jl, ju, ib.S, ib.E+1)
	}
	riemann.Fluxes(gamma, bd.Wl, bd.Wr, bd.Flux[mesh.X1DIR], mesh.IV1,
		kl, ku, jl, ju, ib.S, ib.E+1)

	if ndim < 2 {
		return
	}
	il, iu := ib.S-1, ib.E+1
	if stage == 1 {
		recon.DonorCellX2(prim, bd.Wl, bd.Wr, nhydro, kl, ku, jb.S, jb.E+1, il, iu)
	} else {
		recon.PiecewiseLinearX2(prim, bd.Wl, bd.Wr, nhydro, kl, ku, jb.S, jb.E+1, il, iu)
	}
	riemann.Fluxes(gamma, bd.Wl, bd.Wr, bd.Flux[mesh.X2DIR], mesh.IV2,
		kl, ku, jb.S, jb.E+1, il, iu)

	if ndim < 3 {
		return
	}
	if stage == 1 {
		recon.DonorCellX3(prim, bd.Wl, bd.Wr, nhydro, kb.S, kb.E+1, jl, ju, il, iu)
	} else {
		recon.PiecewiseLinearX3(prim, bd.Wl, bd.Wr, nhydro, kb.S, kb.E+1, jl, ju, il, iu)
	}
	riemann.Fluxes(gamma, bd.Wl, bd.Wr, bd.Flux[mesh.X3DIR], mesh.IV3,
		kb.S, kb.E+1, jl, ju, il, iu)
}

// calculateFluxesWScratch is the row-buffered variant. X2/X3 sweeps carry the
// upper-face states of the previous cell row in a second pad and swap the two
// pads each row, so every interface pairs the left state from the row below
// with the right state from the row above.
func (pkg *Package) calculateFluxesWScratch(bd *mesh.BlockData, stage, ndim int) {
	var (
		mb     = bd.Block
		prim   = bd.Prim
		gamma  = pkg.EOS.Gamma()
		nhydro = pkg.NHydro
		n1     = mb.NCells(mesh.X1DIR, mesh.Entire)
		ib     = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb     = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb     = mb.Bounds(mesh.X3DIR, mesh.Interior)

		wl  = recon.NewScratchPad(nhydro, n1+1)
		wlb = recon.NewScratchPad(nhydro, n1+1)
		wr  = recon.NewScratchPad(nhydro, n1+1)

		jl, ju = jb.S, jb.E
		kl, ku = kb.S, kb.E
	)
	if ndim >= 2 {
		jl, ju = jb.S-1, jb.E+1
	}
	if ndim >= 3 {
		kl, ku = kb.S-1, kb.E+1
	}
	// X1: one row covers all of its interfaces, no swap needed
	for k := kl; k <= ku; k++ {
		for j := jl; j <= ju; j++ {
			if stage == 1 {
				recon.DonorCellX1Row(prim, nhydro, k, j, ib.S-1, ib.E+1, wl, wr)
			} else {
				recon.PiecewiseLinearX1Row(prim, nhydro, k, j, ib.S-1, ib.E+1, wl, wr)
			}
			riemann.FluxesRow(gamma, wl, wr, bd.Flux[mesh.X1DIR], mesh.IV1,
				k, j, ib.S, ib.E+1)
		}
	}
	if ndim < 2 {
		return
	}
	il, iu := ib.S-1, ib.E+1
	for k := kl; k <= ku; k++ {
		for j := jb.S - 1; j <= jb.E+1; j++ {
			if stage == 1 {
				recon.DonorCellX2Row(prim, nhydro, k, j, il, iu, wl, wr)
			} else {
				recon.PiecewiseLinearX2Row(prim, nhydro, k, j, il, iu, wl, wr)
			}
			if j > jb.S-1 {
				riemann.FluxesRow(gamma, wlb, wr, bd.Flux[mesh.X2DIR], mesh.IV2,
					k, j, il, iu)
			}
			wl, wlb = wlb, wl
		}
	}
	if ndim < 3 {
		return
	}
	for j := jl; j <= ju; j++ {
		for k := kb.S - 1; k <= kb.E+1; k++ {
			if stage == 1 {
				recon.DonorCellX3Row(prim, nhydro, k, j, il, iu, wl, wr)
			} else {
				recon.PiecewiseLinearX3Row(prim, nhydro, k, j, il, iu, wl, wr)
			}
			if k > kb.S-1 {
				riemann.FluxesRow(gamma, wlb, wr, bd.Flux[mesh.X3DIR], mesh.IV3,
					k, j, il, iu)
			}
			wl, wlb = wlb, wl
		}
	}
}
