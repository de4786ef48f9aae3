package driver

import (
	"math"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// Scratch registers of the super-time-stepper: the substep recursion blends
// the initial state Y0, the two previous iterates (base holds Y_{j-1}, regYjm2
// holds Y_{j-2}) and the frozen initial operator MY0; regMY1 receives the
// operator of the current iterate.
const (
	regY0   = "sts_Y0"
	regYjm2 = "sts_Yjm2"
	regMY0  = "sts_MY0"
	regMY1  = "sts_MY1"
)

var stsRegisters = []string{regY0, regYjm2, regMY0, regMY1}

// stsStages returns the number of substeps needed to cover tau with the
// diffusive stability limit dtDiff, rounded up to the next odd count
func stsStages(tau, dtDiff float64) (s int) {
	s = int(0.5*(math.Sqrt(9+16*tau/dtDiff)-1)) + 1
	if s%2 == 0 {
		s++
	}
	return
}

// legendreB is the b_j weight of the RKL2 recursion (Meyer, Balsara &
// Aslam 2012, eq. 16)
func legendreB(j int) float64 {
	if j < 3 {
		return 1.0 / 3.0
	}
	fj := float64(j)
	return (fj*fj + fj - 2) / (2 * fj * (fj + 1))
}

// conductionOperator evaluates the conductive right-hand side of one block's
// base register into the out array
func (d *Driver) conductionOperator(mb *mesh.MeshBlock, out mesh.FieldArray) {
	bd := mb.Data(regBase)
	hydro.ResetFluxes(bd, d.Mesh.NDim)
	d.Pkg.ThermalDiff.CalcDiffFluxes(bd, d.Mesh.NDim)
	hydro.FluxDivergence(bd, out, d.Mesh.NDim)
}

// SuperTimeStep advances the conduction operator over tau with the RKL2
// scheme. Each substage touches ghost zones of its predecessor, so the
// exchange plus primitive refresh runs after every one of them.
func (d *Driver) SuperTimeStep(tau float64) {
	var (
		m          = d.Mesh
		blocks     = m.Blocks
		ib, jb, kb mesh.IndexRange
	)
	dtRatioCheck(tau, d.DtDiff)
	s := stsStages(tau, d.DtDiff)
	var (
		w1   = 4.0 / (float64(s)*float64(s) + float64(s) - 2)
		bjm2 = legendreB(0)
		bjm1 = legendreB(1)
	)
	// Freeze Y0 and MY0, run the first substage Y1 = Y0 + mu~_1 tau MY0
	muTilde := bjm1 * w1
	for _, mb := range blocks {
		mb.Data(regY0).Cons.DeepCopy(mb.Data(regBase).Cons)
		mb.Data(regYjm2).Cons.DeepCopy(mb.Data(regBase).Cons)
		my0 := mb.Data(regMY0).Cons
		d.conductionOperator(mb, my0)
		base := mb.Data(regBase).Cons
		ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
		for n := 0; n < base.NVar; n++ {
			for k := kb.S; k <= kb.E; k++ {
				for j := jb.S; j <= jb.E; j++ {
					for i := ib.S; i <= ib.E; i++ {
						base.Add(n, k, j, i, muTilde*tau*my0.At(n, k, j, i))
					}
				}
			}
		}
	}
	d.exchangeAndPrim(regBase)

	for j := 2; j <= s; j++ {
		var (
			fj     = float64(j)
			bj     = legendreB(j)
			mu     = (2*fj - 1) / fj * bj / bjm1
			nu     = -(fj - 1) / fj * bj / bjm2
			muT    = mu * w1
			gammaT = -(1 - bjm1) * muT
		)
		for _, mb := range blocks {
			var (
				base = mb.Data(regBase).Cons
				y0   = mb.Data(regY0).Cons
				yjm2 = mb.Data(regYjm2).Cons
				my0  = mb.Data(regMY0).Cons
				my1  = mb.Data(regMY1).Cons
			)
			d.conductionOperator(mb, my1)
			ib = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb = mb.Bounds(mesh.X3DIR, mesh.Interior)
			for n := 0; n < base.NVar; n++ {
				for kk := kb.S; kk <= kb.E; kk++ {
					for jj := jb.S; jj <= jb.E; jj++ {
						for ii := ib.S; ii <= ib.E; ii++ {
							var (
								yjm1 = base.At(n, kk, jj, ii)
								ynew = mu*yjm1 + nu*yjm2.At(n, kk, jj, ii) +
									(1-mu-nu)*y0.At(n, kk, jj, ii) +
									muT*tau*my1.At(n, kk, jj, ii) +
									gammaT*tau*my0.At(n, kk, jj, ii)
							)
							yjm2.Set(n, kk, jj, ii, yjm1)
							base.Set(n, kk, jj, ii, ynew)
						}
					}
				}
			}
		}
		d.exchangeAndPrim(regBase)
		bjm2, bjm1 = bjm1, bj
	}
}
