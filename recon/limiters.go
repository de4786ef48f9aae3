package recon

// VanLeer is the harmonic-mean slope limiter: zero across extrema, the
// monotonized average otherwise. It never creates a slope steeper than twice
// the smaller one-sided difference, which is what preserves the TVD property.
func VanLeer(a, b float64) float64 {
	if a*b > 0 {
		return 2 * a * b / (a + b)
	}
	return 0
}

// Lim4 monotonizes a transverse gradient at an interface from the four
// one-sided differences, two on each adjacent cell column. Used by the
// general conduction flux to avoid spurious oscillation from non-aligned
// stencils.
func Lim4(a, b, c, d float64) float64 {
	return VanLeer(VanLeer(a, b), VanLeer(c, d))
}
