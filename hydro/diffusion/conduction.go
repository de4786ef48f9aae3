package diffusion

import (
	"math"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/recon"
	"github.com/notargets/gomhd/utils"
)

// CalcDiffFluxes adds the conductive energy fluxes of one block to its flux
// arrays. Hydro fluxes for the stage must already be in place; conduction only
// ever increments the IEN component.
func (td ThermalDiffusivity) CalcDiffFluxes(bd *mesh.BlockData, ndim int) {
	if td.cond == None {
		return
	}
	if td.cond == Isotropic && td.coeffType == Fixed {
		thermalFluxIsoFixed(td, bd, ndim)
		return
	}
	thermalFluxGeneral(td, bd, ndim)
}

// Fast path for constant isotropic diffusivity: plain centered temperature
// differences, no limiting needed
func thermalFluxIsoFixed(td ThermalDiffusivity, bd *mesh.BlockData, ndim int) {
	var (
		mb   = bd.Block
		prim = bd.Prim
		c    = mb.Coords
		chi  = td.Get(0, 0, 0)
		ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb   = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	flx := bd.Flux[mesh.X1DIR]
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E+1; i++ {
				denf := 0.5 * (prim.At(mesh.IDN, k, j, i-1) + prim.At(mesh.IDN, k, j, i))
				dTdx := (prim.At(mesh.IPR, k, j, i)/prim.At(mesh.IDN, k, j, i) -
					prim.At(mesh.IPR, k, j, i-1)/prim.At(mesh.IDN, k, j, i-1)) / c.Dx[mesh.X1DIR]
				flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdx)
			}
		}
	}
	if ndim < 2 {
		return
	}
	flx = bd.Flux[mesh.X2DIR]
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E+1; j++ {
			for i := ib.S; i <= ib.E; i++ {
				denf := 0.5 * (prim.At(mesh.IDN, k, j-1, i) + prim.At(mesh.IDN, k, j, i))
				dTdy := (prim.At(mesh.IPR, k, j, i)/prim.At(mesh.IDN, k, j, i) -
					prim.At(mesh.IPR, k, j-1, i)/prim.At(mesh.IDN, k, j-1, i)) / c.Dx[mesh.X2DIR]
				flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdy)
			}
		}
	}
	if ndim < 3 {
		return
	}
	flx = bd.Flux[mesh.X3DIR]
	for k := kb.S; k <= kb.E+1; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				denf := 0.5 * (prim.At(mesh.IDN, k-1, j, i) + prim.At(mesh.IDN, k, j, i))
				dTdz := (prim.At(mesh.IPR, k, j, i)/prim.At(mesh.IDN, k, j, i) -
					prim.At(mesh.IPR, k-1, j, i)/prim.At(mesh.IDN, k-1, j, i)) / c.Dx[mesh.X3DIR]
				flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdz)
			}
		}
	}
}

func temp(prim mesh.FieldArray, k, j, i int) float64 {
	return prim.At(mesh.IPR, k, j, i) / prim.At(mesh.IDN, k, j, i)
}

// General path: variable (Spitzer) diffusivity or anisotropic transport.
// Transverse gradients at an interface are built from four one-sided
// differences through the double van Leer limiter, which keeps the full
// gradient monotone at sharp fronts. The anisotropic flux is the projection
// of the gradient onto the interface-averaged field, transported along the
// field's normal component.
func thermalFluxGeneral(td ThermalDiffusivity, bd *mesh.BlockData, ndim int) {
	var (
		mb    = bd.Block
		prim  = bd.Prim
		c     = mb.Coords
		aniso = td.cond == Anisotropic
		ib    = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb    = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb    = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	if aniso && prim.NVar < mesh.NMHD {
		panic("anisotropic conduction requires magnetic field components")
	}
	// X1 interfaces
	flx := bd.Flux[mesh.X1DIR]
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E+1; i++ {
				dTdx := (temp(prim, k, j, i) - temp(prim, k, j, i-1)) / c.Dx[mesh.X1DIR]
				dTdy, dTdz := 0.0, 0.0
				if ndim >= 2 {
					dTdy = recon.Lim4(
						temp(prim, k, j+1, i)-temp(prim, k, j, i),
						temp(prim, k, j, i)-temp(prim, k, j-1, i),
						temp(prim, k, j+1, i-1)-temp(prim, k, j, i-1),
						temp(prim, k, j, i-1)-temp(prim, k, j-1, i-1)) / c.Dx[mesh.X2DIR]
				}
				if ndim >= 3 {
					dTdz = recon.Lim4(
						temp(prim, k+1, j, i)-temp(prim, k, j, i),
						temp(prim, k, j, i)-temp(prim, k-1, j, i),
						temp(prim, k+1, j, i-1)-temp(prim, k, j, i-1),
						temp(prim, k, j, i-1)-temp(prim, k-1, j, i-1)) / c.Dx[mesh.X3DIR]
				}
				gradTmag := math.Sqrt(utils.SQR(dTdx) + utils.SQR(dTdy) + utils.SQR(dTdz))
				denf := 0.5 * (prim.At(mesh.IDN, k, j, i-1) + prim.At(mesh.IDN, k, j, i))
				chi := 0.5 * (td.Get(prim.At(mesh.IPR, k, j, i-1), prim.At(mesh.IDN, k, j, i-1), gradTmag) +
					td.Get(prim.At(mesh.IPR, k, j, i), prim.At(mesh.IDN, k, j, i), gradTmag))
				if !aniso {
					flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdx)
					continue
				}
				var (
					bx = 0.5 * (prim.At(mesh.IB1, k, j, i-1) + prim.At(mesh.IB1, k, j, i))
					by = 0.5 * (prim.At(mesh.IB2, k, j, i-1) + prim.At(mesh.IB2, k, j, i))
					bz = 0.5 * (prim.At(mesh.IB3, k, j, i-1) + prim.At(mesh.IB3, k, j, i))
				)
				bmag2 := math.Max(bx*bx+by*by+bz*bz, utils.Tiny)
				flx.Add(mesh.IEN, k, j, i,
					-chi*denf*bx*(bx*dTdx+by*dTdy+bz*dTdz)/bmag2)
			}
		}
	}
	if ndim < 2 {
		return
	}
	// X2 interfaces
	flx = bd.Flux[mesh.X2DIR]
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E+1; j++ {
			for i := ib.S; i <= ib.E; i++ {
				dTdy := (temp(prim, k, j, i) - temp(prim, k, j-1, i)) / c.Dx[mesh.X2DIR]
				dTdx := recon.Lim4(
					temp(prim, k, j, i+1)-temp(prim, k, j, i),
					temp(prim, k, j, i)-temp(prim, k, j, i-1),
					temp(prim, k, j-1, i+1)-temp(prim, k, j-1, i),
					temp(prim, k, j-1, i)-temp(prim, k, j-1, i-1)) / c.Dx[mesh.X1DIR]
				dTdz := 0.0
				if ndim >= 3 {
					dTdz = recon.Lim4(
						temp(prim, k+1, j, i)-temp(prim, k, j, i),
						temp(prim, k, j, i)-temp(prim, k-1, j, i),
						temp(prim, k+1, j-1, i)-temp(prim, k, j-1, i),
						temp(prim, k, j-1, i)-temp(prim, k-1, j-1, i)) / c.Dx[mesh.X3DIR]
				}
				gradTmag := math.Sqrt(utils.SQR(dTdx) + utils.SQR(dTdy) + utils.SQR(dTdz))
				denf := 0.5 * (prim.At(mesh.IDN, k, j-1, i) + prim.At(mesh.IDN, k, j, i))
				chi := 0.5 * (td.Get(prim.At(mesh.IPR, k, j-1, i), prim.At(mesh.IDN, k, j-1, i), gradTmag) +
					td.Get(prim.At(mesh.IPR, k, j, i), prim.At(mesh.IDN, k, j, i), gradTmag))
				if !aniso {
					flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdy)
					continue
				}
				var (
					bx = 0.5 * (prim.At(mesh.IB1, k, j-1, i) + prim.At(mesh.IB1, k, j, i))
					by = 0.5 * (prim.At(mesh.IB2, k, j-1, i) + prim.At(mesh.IB2, k, j, i))
					bz = 0.5 * (prim.At(mesh.IB3, k, j-1, i) + prim.At(mesh.IB3, k, j, i))
				)
				bmag2 := math.Max(bx*bx+by*by+bz*bz, utils.Tiny)
				flx.Add(mesh.IEN, k, j, i,
					-chi*denf*by*(bx*dTdx+by*dTdy+bz*dTdz)/bmag2)
			}
		}
	}
	if ndim < 3 {
		return
	}
	// X3 interfaces
	flx = bd.Flux[mesh.X3DIR]
	for k := kb.S; k <= kb.E+1; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				dTdz := (temp(prim, k, j, i) - temp(prim, k-1, j, i)) / c.Dx[mesh.X3DIR]
				dTdx := recon.Lim4(
					temp(prim, k, j, i+1)-temp(prim, k, j, i),
					temp(prim, k, j, i)-temp(prim, k, j, i-1),
					temp(prim, k-1, j, i+1)-temp(prim, k-1, j, i),
					temp(prim, k-1, j, i)-temp(prim, k-1, j, i-1)) / c.Dx[mesh.X1DIR]
				dTdy := recon.Lim4(
					temp(prim, k, j+1, i)-temp(prim, k, j, i),
					temp(prim, k, j, i)-temp(prim, k, j-1, i),
					temp(prim, k-1, j+1, i)-temp(prim, k-1, j, i),
					temp(prim, k-1, j, i)-temp(prim, k-1, j-1, i)) / c.Dx[mesh.X2DIR]
				gradTmag := math.Sqrt(utils.SQR(dTdx) + utils.SQR(dTdy) + utils.SQR(dTdz))
				denf := 0.5 * (prim.At(mesh.IDN, k-1, j, i) + prim.At(mesh.IDN, k, j, i))
				chi := 0.5 * (td.Get(prim.At(mesh.IPR, k-1, j, i), prim.At(mesh.IDN, k-1, j, i), gradTmag) +
					td.Get(prim.At(mesh.IPR, k, j, i), prim.At(mesh.IDN, k, j, i), gradTmag))
				if !aniso {
					flx.Add(mesh.IEN, k, j, i, -chi*denf*dTdz)
					continue
				}
				var (
					bx = 0.5 * (prim.At(mesh.IB1, k-1, j, i) + prim.At(mesh.IB1, k, j, i))
					by = 0.5 * (prim.At(mesh.IB2, k-1, j, i) + prim.At(mesh.IB2, k, j, i))
					bz = 0.5 * (prim.At(mesh.IB3, k-1, j, i) + prim.At(mesh.IB3, k, j, i))
				)
				bmag2 := math.Max(bx*bx+by*by+bz*bz, utils.Tiny)
				flx.Add(mesh.IEN, k, j, i,
					-chi*denf*bz*(bx*dTdx+by*dTdy+bz*dTdz)/bmag2)
			}
		}
	}
}
