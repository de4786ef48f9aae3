package pgen

import (
	"math"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/utils"
)

// Blast puts an overpressured sphere at the domain center into a cold uniform
// ambient medium
func Blast(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		cx   = ip.Param("cx", 0.5*(ip.Xmin[0]+ip.Xmax[0]))
		cy   = ip.Param("cy", 0.5*(ip.Xmin[1]+ip.Xmax[1]))
		cz   = ip.Param("cz", 0.5*(ip.Xmin[2]+ip.Xmax[2]))
		r0   = ip.Param("radius", 0.1)
		rho  = ip.Param("rho", 1)
		pin  = ip.Param("pin", 10)
		pout = ip.Param("pout", 0.1)
		bx   = ip.Param("bx", 0)
		by   = ip.Param("by", 0)
		bz   = ip.Param("bz", 0)
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		r := math.Sqrt(utils.SQR(x-cx) + utils.SQR(y-cy) + utils.SQR(z-cz))
		p := pout
		if r < r0 {
			p = pin
		}
		setState(prim, k, j, i, rho, 0, 0, 0, p)
		setField(prim, k, j, i, bx, by, bz)
	})
}
