package mesh

import "math"

// Tag marks the block for refinement or derefinement based on the maximum
// relative second difference of density over the interior. The AMR
// collaborator consumes RefineFlag; the core only computes the criterion.
func (mb *MeshBlock) Tag(reg string) {
	var (
		prim = mb.Data(reg).Prim
		m    = mb.mesh
		ib   = mb.Bounds(X1DIR, Interior)
		jb   = mb.Bounds(X2DIR, Interior)
		kb   = mb.Bounds(X3DIR, Interior)
		maxd float64
	)
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				rho := prim.At(IDN, k, j, i)
				d2 := math.Abs(prim.At(IDN, k, j, i+1) - 2*rho + prim.At(IDN, k, j, i-1))
				if m.NDim >= 2 {
					d2y := math.Abs(prim.At(IDN, k, j+1, i) - 2*rho + prim.At(IDN, k, j-1, i))
					if d2y > d2 {
						d2 = d2y
					}
				}
				if m.NDim >= 3 {
					d2z := math.Abs(prim.At(IDN, k+1, j, i) - 2*rho + prim.At(IDN, k-1, j, i))
					if d2z > d2 {
						d2 = d2z
					}
				}
				if d := d2 / rho; d > maxd {
					maxd = d
				}
			}
		}
	}
	switch {
	case maxd > m.RefineThreshold:
		mb.RefineFlag = 1
	case maxd < m.DerefineThreshold:
		mb.RefineFlag = -1
	default:
		mb.RefineFlag = 0
	}
}
