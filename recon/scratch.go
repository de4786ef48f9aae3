package recon

import "github.com/notargets/gomhd/mesh"

// ScratchPad is a per-worker (nvar, n1) row buffer. The scratch flux path
// reconstructs one sweep row at a time into pads that are reused and swapped
// across rows instead of allocating full 4D wl/wr arrays. Results are
// identical to the full-array path; only the resource reuse differs.
//
// Row functions are cell-centric: from cell row i (or j, k), wl receives the
// state extrapolated to the upper face, which is the LEFT state of the next
// interface, while wr receives the lower-face state, the RIGHT state of the
// current interface. The caller swaps wl buffers between rows so that each
// interface sees the left state produced by the previous row.
type ScratchPad [][]float64

func NewScratchPad(nvar, n1 int) (sp ScratchPad) {
	sp = make(ScratchPad, nvar)
	for n := range sp {
		sp[n] = make([]float64, n1)
	}
	return
}

// DonorCellX1Row: cells il..iu of row (k,j); wl[i+1] and wr[i] both take the
// cell value
func DonorCellX1Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			wl[n][i+1] = q
			wr[n][i] = q
		}
	}
}

func PiecewiseLinearX1Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			dql := q - w.At(n, k, j, i-1)
			dqr := w.At(n, k, j, i+1) - q
			dqm := VanLeer(dql, dqr)
			wl[n][i+1] = q + 0.5*dqm
			wr[n][i] = q - 0.5*dqm
		}
	}
}

// DonorCellX2Row: cell row j of plane k; wl holds the left state of
// interface j+1, wr the right state of interface j
func DonorCellX2Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			wl[n][i] = q
			wr[n][i] = q
		}
	}
}

func PiecewiseLinearX2Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			dql := q - w.At(n, k, j-1, i)
			dqr := w.At(n, k, j+1, i) - q
			dqm := VanLeer(dql, dqr)
			wl[n][i] = q + 0.5*dqm
			wr[n][i] = q - 0.5*dqm
		}
	}
}

// DonorCellX3Row: cell plane k of row j; wl holds the left state of
// interface k+1, wr the right state of interface k
func DonorCellX3Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			wl[n][i] = q
			wr[n][i] = q
		}
	}
}

func PiecewiseLinearX3Row(w mesh.FieldArray, nvar, k, j, il, iu int, wl, wr ScratchPad) {
	for n := 0; n < nvar; n++ {
		for i := il; i <= iu; i++ {
			q := w.At(n, k, j, i)
			dql := q - w.At(n, k-1, j, i)
			dqr := w.At(n, k+1, j, i) - q
			dqm := VanLeer(dql, dqr)
			wl[n][i] = q + 0.5*dqm
			wr[n][i] = q - 0.5*dqm
		}
	}
}
