package pgen

import (
	"math"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// LinearWave seeds a small-amplitude right-going sound wave on a uniform
// background. After one crossing time on a periodic domain the solution
// returns to the initial state up to the discretization error, which makes
// this the standard smooth convergence problem.
func LinearWave(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		rho0  = ip.Param("rho", 1)
		p0    = ip.Param("p", 1.0/e.Gamma())
		amp   = ip.Param("amp", 1.0e-6)
		lx    = ip.Xmax[0] - ip.Xmin[0]
		cs    = e.SoundSpeed(rho0, p0)
		gamma = e.Gamma()
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		s := amp * math.Sin(2*math.Pi*(x-ip.Xmin[0])/lx)
		setState(prim, k, j, i,
			rho0*(1+s), cs*s, 0, 0, p0*(1+gamma*s))
	})
}
