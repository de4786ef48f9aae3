package diffusion

import (
	"fmt"
	"math"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/utils"
)

type Conduction uint

const (
	None Conduction = iota
	Isotropic
	Anisotropic
)

var ConductionNames = map[string]Conduction{
	"none":        None,
	"isotropic":   Isotropic,
	"anisotropic": Anisotropic,
}

type ConductionCoeff uint

const (
	Fixed ConductionCoeff = iota
	Spitzer
)

var ConductionCoeffNames = map[string]ConductionCoeff{
	"fixed":   Fixed,
	"spitzer": Spitzer,
}

// DiffInt selects how diffusive fluxes enter the time integration
type DiffInt uint

const (
	DiffIntNone DiffInt = iota
	Unsplit             // added to the hydro fluxes every stage
	RKL2                // operator-split super-time-stepped half updates
)

var DiffIntNames = map[string]DiffInt{
	"none":    DiffIntNone,
	"unsplit": Unsplit,
	"rkl2":    RKL2,
}

// ThermalDiffusivity holds the conduction model variant and its coefficient.
// Selected once at setup; the hot loops branch on the stored tags only.
type ThermalDiffusivity struct {
	cond       Conduction
	coeffType  ConductionCoeff
	coeff      float64
	mbarOverKb float64 // unit conversion for the Spitzer temperature
}

func NewThermalDiffusivity(cond Conduction, coeffType ConductionCoeff,
	coeff, mbarOverKb float64) (td ThermalDiffusivity, err error) {
	if cond != None && coeffType == Spitzer && mbarOverKb <= 0 {
		err = fmt.Errorf("spitzer conduction needs MbarOverKb > 0, have %v", mbarOverKb)
		return
	}
	td = ThermalDiffusivity{
		cond:       cond,
		coeffType:  coeffType,
		coeff:      coeff,
		mbarOverKb: mbarOverKb,
	}
	return
}

func (td ThermalDiffusivity) Type() Conduction           { return td.cond }
func (td ThermalDiffusivity) CoeffType() ConductionCoeff { return td.coeffType }

// Get returns the effective diffusivity at a cell. For the Spitzer model the
// free-streaming saturation bound always applies: the effective value is the
// minimum of the unsaturated Spitzer diffusivity and the saturated one.
func (td ThermalDiffusivity) Get(pres, rho, gradTmag float64) float64 {
	switch td.coeffType {
	case Fixed:
		return td.coeff
	case Spitzer:
		T := td.mbarOverKb * pres / rho
		kappa := td.coeff * math.Pow(T, 2.5)
		chiSpitzer := kappa * td.mbarOverKb / rho
		// Saturated flux bound 0.34*rho*c_iso^3, expressed as a diffusivity
		chiSat := 0.34 * math.Pow(pres/rho, 1.5) / (gradTmag + utils.Tiny)
		return math.Min(chiSpitzer, chiSat)
	default:
		return 0
	}
}

// EstimateTimestep returns the stability-limited diffusive timestep over the
// given blocks, or +Inf when conduction imposes no constraint
func (td ThermalDiffusivity) EstimateTimestep(blocks []*mesh.MeshBlock, reg string, ndim int) (dt float64) {
	dt = math.Inf(1)
	if td.cond == None {
		return
	}
	fac := 0.5
	if ndim == 2 {
		fac = 0.25
	} else if ndim == 3 {
		fac = 1.0 / 6.0
	}
	var minDt float64 = math.Inf(1)
	for _, mb := range blocks {
		var v float64
		if td.cond == Isotropic && td.coeffType == Fixed {
			v = conductionTimestepIsoFixed(td, mb, ndim)
		} else {
			v = conductionTimestepGeneral(td, mb, reg, ndim)
		}
		if v < minDt {
			minDt = v
		}
	}
	dt = fac * minDt
	return
}

func conductionTimestepIsoFixed(td ThermalDiffusivity, mb *mesh.MeshBlock, ndim int) (minDt float64) {
	var (
		chi = td.Get(0, 0, 0)
		c   = mb.Coords
	)
	minDt = utils.SQR(c.Dx[mesh.X1DIR]) / (chi + utils.Tiny)
	if ndim >= 2 {
		minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X2DIR])/(chi+utils.Tiny))
	}
	if ndim >= 3 {
		minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X3DIR])/(chi+utils.Tiny))
	}
	return
}

// General case: recompute the local temperature gradient, project along the
// field for anisotropic conduction, and reduce dx^2/chi_effective. The
// anisotropic bound is tighter than isotropic by the field-alignment factor.
func conductionTimestepGeneral(td ThermalDiffusivity, mb *mesh.MeshBlock, reg string, ndim int) (minDt float64) {
	var (
		prim = mb.Data(reg).Prim
		c    = mb.Coords
		ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
		jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
		kb   = mb.Bounds(mesh.X3DIR, mesh.Interior)
	)
	minDt = math.Inf(1)
	for k := kb.S; k <= kb.E; k++ {
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				var (
					rho = prim.At(mesh.IDN, k, j, i)
					p   = prim.At(mesh.IPR, k, j, i)
				)
				dTdx := 0.5 * (prim.At(mesh.IPR, k, j, i+1)/prim.At(mesh.IDN, k, j, i+1) -
					prim.At(mesh.IPR, k, j, i-1)/prim.At(mesh.IDN, k, j, i-1)) / c.Dx[mesh.X1DIR]
				dTdy, dTdz := 0.0, 0.0
				if ndim >= 2 {
					dTdy = 0.5 * (prim.At(mesh.IPR, k, j+1, i)/prim.At(mesh.IDN, k, j+1, i) -
						prim.At(mesh.IPR, k, j-1, i)/prim.At(mesh.IDN, k, j-1, i)) / c.Dx[mesh.X2DIR]
				}
				if ndim >= 3 {
					dTdz = 0.5 * (prim.At(mesh.IPR, k+1, j, i)/prim.At(mesh.IDN, k+1, j, i) -
						prim.At(mesh.IPR, k-1, j, i)/prim.At(mesh.IDN, k-1, j, i)) / c.Dx[mesh.X3DIR]
				}
				gradTmag := math.Sqrt(utils.SQR(dTdx) + utils.SQR(dTdy) + utils.SQR(dTdz))
				// No temperature gradient -> no conduction -> no restriction
				if gradTmag == 0 {
					continue
				}
				chi := td.Get(p, rho, gradTmag)
				if td.cond == Isotropic {
					minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X1DIR])/chi)
					if ndim >= 2 {
						minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X2DIR])/chi)
					}
					if ndim >= 3 {
						minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X3DIR])/chi)
					}
					continue
				}
				var (
					bx   = prim.At(mesh.IB1, k, j, i)
					by   = prim.At(mesh.IB2, k, j, i)
					bz   = prim.At(mesh.IB3, k, j, i)
					bmag = math.Sqrt(bx*bx + by*by + bz*bz)
				)
				// Need some local field for anisotropic conduction
				if bmag == 0 {
					continue
				}
				costheta := math.Abs(bx*dTdx+by*dTdy+bz*dTdz) / (bmag * gradTmag)
				minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X1DIR])/
					(chi*math.Abs(bx)/bmag*costheta+utils.Tiny))
				if ndim >= 2 {
					minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X2DIR])/
						(chi*math.Abs(by)/bmag*costheta+utils.Tiny))
				}
				if ndim >= 3 {
					minDt = math.Min(minDt, utils.SQR(c.Dx[mesh.X3DIR])/
						(chi*math.Abs(bz)/bmag*costheta+utils.Tiny))
				}
			}
		}
	}
	return
}
