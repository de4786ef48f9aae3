package riemann

import (
	"math"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/recon"
)

// HLLE resolves the flux of the five hydro conserved variables at one
// interface from the left/right primitive states. ivx selects the wave
// direction (mesh.IV1/IV2/IV3); the two transverse velocities follow
// cyclically. Signal speeds are Einfeldt bounds from the Roe average and the
// one-sided sound speeds; the flux is the convex blend of the two
// Rankine-Hugoniot fluxes, reducing to pure upwinding at supersonic
// interfaces.
func HLLE(gamma float64, wl, wr []float64, ivx int) (flx [mesh.NHydro]float64) {
	var (
		gm1 = gamma - 1
		ivy = mesh.IV1 + (ivx-mesh.IV1+1)%3
		ivz = mesh.IV1 + (ivx-mesh.IV1+2)%3

		rhol, vxl, vyl, vzl, pl = wl[mesh.IDN], wl[ivx], wl[ivy], wl[ivz], wl[mesh.IPR]
		rhor, vxr, vyr, vzr, pr = wr[mesh.IDN], wr[ivx], wr[ivy], wr[ivz], wr[mesh.IPR]

		el = pl/gm1 + 0.5*rhol*(vxl*vxl+vyl*vyl+vzl*vzl)
		er = pr/gm1 + 0.5*rhor*(vxr*vxr+vyr*vyr+vzr*vzr)
	)
	// Roe averages for the wave-speed estimate
	sqrtdl, sqrtdr := math.Sqrt(rhol), math.Sqrt(rhor)
	isdlpdr := 1. / (sqrtdl + sqrtdr)
	vroe := (sqrtdl*vxl + sqrtdr*vxr) * isdlpdr
	vyroe := (sqrtdl*vyl + sqrtdr*vyr) * isdlpdr
	vzroe := (sqrtdl*vzl + sqrtdr*vzr) * isdlpdr
	hroe := ((el+pl)/sqrtdl + (er+pr)/sqrtdr) * isdlpdr
	a2 := gm1 * (hroe - 0.5*(vroe*vroe+vyroe*vyroe+vzroe*vzroe))
	if a2 < 0 {
		a2 = 0
	}
	var (
		a  = math.Sqrt(a2)
		cl = math.Sqrt(gamma * pl / rhol)
		cr = math.Sqrt(gamma * pr / rhor)
		al = math.Min(vroe-a, vxl-cl)
		ar = math.Max(vroe+a, vxr+cr)
		bp = math.Max(ar, 0)
		bm = math.Min(al, 0)
	)
	if bp == bm {
		return // degenerate interface, no transport
	}
	var fl, fr, ul, ur [mesh.NHydro]float64
	fl[mesh.IDN] = rhol * vxl
	fl[ivx] = rhol*vxl*vxl + pl
	fl[ivy] = rhol * vxl * vyl
	fl[ivz] = rhol * vxl * vzl
	fl[mesh.IEN] = vxl * (el + pl)
	fr[mesh.IDN] = rhor * vxr
	fr[ivx] = rhor*vxr*vxr + pr
	fr[ivy] = rhor * vxr * vyr
	fr[ivz] = rhor * vxr * vzr
	fr[mesh.IEN] = vxr * (er + pr)
	ul[mesh.IDN], ul[ivx], ul[ivy], ul[ivz], ul[mesh.IEN] =
		rhol, rhol*vxl, rhol*vyl, rhol*vzl, el
	ur[mesh.IDN], ur[ivx], ur[ivy], ur[ivz], ur[mesh.IEN] =
		rhor, rhor*vxr, rhor*vyr, rhor*vzr, er
	oobd := 1. / (bp - bm)
	for n := 0; n < mesh.NHydro; n++ {
		flx[n] = (bp*fl[n] - bm*fr[n] + bp*bm*(ur[n]-ul[n])) * oobd
	}
	return
}

// Fluxes fills the flux array over the given interface ranges from full
// left/right state arrays
func Fluxes(gamma float64, wl, wr, flx mesh.FieldArray, ivx, kl, ku, jl, ju, il, iu int) {
	var (
		wli, wri [mesh.NHydro]float64
	)
	for k := kl; k <= ku; k++ {
		for j := jl; j <= ju; j++ {
			for i := il; i <= iu; i++ {
				for n := 0; n < mesh.NHydro; n++ {
					wli[n] = wl.At(n, k, j, i)
					wri[n] = wr.At(n, k, j, i)
				}
				f := HLLE(gamma, wli[:], wri[:], ivx)
				for n := 0; n < mesh.NHydro; n++ {
					flx.Set(n, k, j, i, f[n])
				}
			}
		}
	}
}

// FluxesRow is the scratch-path variant operating on one reconstructed row.
// The (k,j) pair addresses the flux array row; for X2/X3 sweeps j or k is the
// interface index.
func FluxesRow(gamma float64, wl, wr recon.ScratchPad, flx mesh.FieldArray, ivx, k, j, il, iu int) {
	var (
		wli, wri [mesh.NHydro]float64
	)
	for i := il; i <= iu; i++ {
		for n := 0; n < mesh.NHydro; n++ {
			wli[n] = wl[n][i]
			wri[n] = wr[n][i]
		}
		f := HLLE(gamma, wli[:], wri[:], ivx)
		for n := 0; n < mesh.NHydro; n++ {
			flx.Set(n, k, j, i, f[n])
		}
	}
}
