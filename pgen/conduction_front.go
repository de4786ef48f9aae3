package pgen

import (
	"math"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// ConductionFront is a static gas with a temperature step at x0. With the
// fluid frozen (zero velocity, uniform density and pressure balance ignored
// over short times) the step spreads diffusively; with an inclined field and
// anisotropic conduction it spreads only along the field.
func ConductionFront(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		x0     = ip.Param("x0", 0.5)
		rho    = ip.Param("rho", 1)
		thot   = ip.Param("thot", 10)
		tcold  = ip.Param("tcold", 1)
		btheta = ip.Param("btheta", 0) // field angle to x in radians
		bmag   = ip.Param("bmag", 1)
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		T := tcold
		if x < x0 {
			T = thot
		}
		setState(prim, k, j, i, rho, 0, 0, 0, rho*T)
		setField(prim, k, j, i, bmag*math.Cos(btheta), bmag*math.Sin(btheta), 0)
	})
}
