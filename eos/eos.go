package eos

import (
	"fmt"
	"math"

	"github.com/notargets/gomhd/mesh"
)

// DefaultFloor is sqrt(1024*FLT_MIN), the default density and pressure floor
var DefaultFloor = math.Sqrt(1024 * 0x1p-126)

// EOS converts between conserved and primitive variables and supplies the
// sound speed. Implementations are selected once at setup; kernels dispatch
// through the interface, never through a selector string.
type EOS interface {
	ConservedToPrimitive(cons, prim mesh.FieldArray, ib, jb, kb mesh.IndexRange)
	PrimitiveToConserved(prim, cons mesh.FieldArray, ib, jb, kb mesh.IndexRange)
	SoundSpeed(rho, pres float64) float64
	Gamma() float64
	DensityFloor() float64
	PressureFloor() float64
}

// New returns the EOS named by the input deck. An unrecognized selector is a
// configuration error, never a silent fallback.
func New(name string, gamma, dfloor, pfloor float64) (e EOS, err error) {
	switch name {
	case "adiabatic":
		if gamma <= 1 {
			err = fmt.Errorf("adiabatic EOS needs gamma > 1, have %v", gamma)
			return
		}
		e = Adiabatic{gamma: gamma, dfloor: dfloor, pfloor: pfloor}
	default:
		err = fmt.Errorf("unknown EOS %q", name)
	}
	return
}

// Adiabatic is an ideal-gas EOS with fixed adiabatic index and positivity
// floors on density and pressure
type Adiabatic struct {
	gamma, dfloor, pfloor float64
}

func NewAdiabatic(gamma, dfloor, pfloor float64) Adiabatic {
	return Adiabatic{gamma: gamma, dfloor: dfloor, pfloor: pfloor}
}

func (e Adiabatic) Gamma() float64         { return e.gamma }
func (e Adiabatic) DensityFloor() float64  { return e.dfloor }
func (e Adiabatic) PressureFloor() float64 { return e.pfloor }

func (e Adiabatic) SoundSpeed(rho, pres float64) float64 {
	return math.Sqrt(e.gamma * pres / rho)
}

// ConservedToPrimitive derives primitives over the given index ranges,
// applying the floors. Sub-floor density and pressure are clamped in the
// conserved array as well so the two variable sets stay consistent.
func (e Adiabatic) ConservedToPrimitive(cons, prim mesh.FieldArray, ib, jb, kb mesh.IndexRange) {
	var (
		gm1 = e.gamma - 1
	)
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				ud := cons.At(mesh.IDN, k, j, i)
				if ud < e.dfloor {
					ud = e.dfloor
					cons.Set(mesh.IDN, k, j, i, ud)
				}
				var (
					ood = 1. / ud
					m1  = cons.At(mesh.IM1, k, j, i)
					m2  = cons.At(mesh.IM2, k, j, i)
					m3  = cons.At(mesh.IM3, k, j, i)
					ke  = 0.5 * ood * (m1*m1 + m2*m2 + m3*m3)
				)
				wp := gm1 * (cons.At(mesh.IEN, k, j, i) - ke)
				if wp < e.pfloor {
					wp = e.pfloor
					cons.Set(mesh.IEN, k, j, i, wp/gm1+ke)
				}
				prim.Set(mesh.IDN, k, j, i, ud)
				prim.Set(mesh.IV1, k, j, i, m1*ood)
				prim.Set(mesh.IV2, k, j, i, m2*ood)
				prim.Set(mesh.IV3, k, j, i, m3*ood)
				prim.Set(mesh.IPR, k, j, i, wp)
				// Magnetic field components pass through unchanged
				for n := mesh.NHydro; n < cons.NVar; n++ {
					prim.Set(n, k, j, i, cons.At(n, k, j, i))
				}
			}
		}
	}
}

// PrimitiveToConserved is the inverse conversion, used by problem generators
func (e Adiabatic) PrimitiveToConserved(prim, cons mesh.FieldArray, ib, jb, kb mesh.IndexRange) {
	var (
		igm1 = 1. / (e.gamma - 1)
	)
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				var (
					rho = prim.At(mesh.IDN, k, j, i)
					v1  = prim.At(mesh.IV1, k, j, i)
					v2  = prim.At(mesh.IV2, k, j, i)
					v3  = prim.At(mesh.IV3, k, j, i)
					wp  = prim.At(mesh.IPR, k, j, i)
				)
				cons.Set(mesh.IDN, k, j, i, rho)
				cons.Set(mesh.IM1, k, j, i, rho*v1)
				cons.Set(mesh.IM2, k, j, i, rho*v2)
				cons.Set(mesh.IM3, k, j, i, rho*v3)
				cons.Set(mesh.IEN, k, j, i, wp*igm1+0.5*rho*(v1*v1+v2*v2+v3*v3))
				for n := mesh.NHydro; n < cons.NVar; n++ {
					cons.Set(n, k, j, i, prim.At(n, k, j, i))
				}
			}
		}
	}
}
