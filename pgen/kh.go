package pgen

import (
	"math"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// KelvinHelmholtz sets up the periodic 2D shear instability: a dense central
// band moving against the background with a small seeded vy perturbation
func KelvinHelmholtz(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		vflow = ip.Param("vflow", 0.5)
		drat  = ip.Param("drat", 2)
		amp   = ip.Param("amp", 0.01)
		p0    = ip.Param("p", 2.5)
		ymid  = 0.5 * (ip.Xmin[1] + ip.Xmax[1])
		width = 0.25 * (ip.Xmax[1] - ip.Xmin[1])
		lx    = ip.Xmax[0] - ip.Xmin[0]
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		var (
			rho = 1.0
			vx  = -vflow
		)
		if math.Abs(y-ymid) < width {
			rho = drat
			vx = vflow
		}
		vy := amp * math.Sin(2*math.Pi*x/lx)
		setState(prim, k, j, i, rho, vx, vy, 0, p0)
	})
}
