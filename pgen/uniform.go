package pgen

import (
	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// Uniform fills the whole domain with one constant state. Mostly a solver
// diagnostic: any evolution away from the initial state is a defect.
func Uniform(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		rho = ip.Param("rho", 1)
		vx  = ip.Param("vx", 0)
		vy  = ip.Param("vy", 0)
		vz  = ip.Param("vz", 0)
		p   = ip.Param("p", 1)
		bx  = ip.Param("bx", 0)
		by  = ip.Param("by", 0)
		bz  = ip.Param("bz", 0)
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		setState(prim, k, j, i, rho, vx, vy, vz, p)
		setField(prim, k, j, i, bx, by, bz)
	})
}
