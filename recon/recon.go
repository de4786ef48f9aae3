package recon

import "github.com/notargets/gomhd/mesh"

// Reconstruction produces left/right primitive states at cell interfaces.
// wl(n,k,j,i) and wr(n,k,j,i) are the states on either side of interface i
// (between cells i-1 and i for X1 sweeps; analogous for X2/X3). The loop
// ranges run over interfaces in the sweep direction and over cells in the
// transverse directions.

//----------------------------------------------------------------------------------------
// Donor cell (first order): no limiting, pure upwind states

func DonorCellX1(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k, j, i-1))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

func DonorCellX2(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k, j-1, i))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

func DonorCellX3(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k-1, j, i))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

//----------------------------------------------------------------------------------------
// Piecewise linear (second order): van Leer limited slopes extrapolated half
// a cell width to each interface. Must not introduce new extrema.

func PiecewiseLinearX1(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					// left state from cell i-1
					dql := w.At(n, k, j, i-1) - w.At(n, k, j, i-2)
					dqr := w.At(n, k, j, i) - w.At(n, k, j, i-1)
					wl.Set(n, k, j, i, w.At(n, k, j, i-1)+0.5*VanLeer(dql, dqr))
					// right state from cell i
					dql = dqr
					dqr = w.At(n, k, j, i+1) - w.At(n, k, j, i)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*VanLeer(dql, dqr))
				}
			}
		}
	}
}

func PiecewiseLinearX2(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					dql := w.At(n, k, j-1, i) - w.At(n, k, j-2, i)
					dqr := w.At(n, k, j, i) - w.At(n, k, j-1, i)
					wl.Set(n, k, j, i, w.At(n, k, j-1, i)+0.5*VanLeer(dql, dqr))
					dql = dqr
					dqr = w.At(n, k, j+1, i) - w.At(n, k, j, i)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*VanLeer(dql, dqr))
				}
			}
		}
	}
}

func PiecewiseLinearX3(w, wl, wr mesh.FieldArray, nvar, kl, ku, jl, ju, il, iu int) {
	for n := 0; n < nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					dql := w.At(n, k-1, j, i) - w.At(n, k-2, j, i)
					dqr := w.At(n, k, j, i) - w.At(n, k-1, j, i)
					wl.Set(n, k, j, i, w.At(n, k-1, j, i)+0.5*VanLeer(dql, dqr))
					dql = dqr
					dqr = w.At(n, k+1, j, i) - w.At(n, k, j, i)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*VanLeer(dql, dqr))
				}
			}
		}
	}
}
