package hydro

import (
	"fmt"

	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/hydro/diffusion"
	"github.com/notargets/gomhd/mesh"
)

// Package bundles the solver pieces of one run: the EOS, the CFL number, the
// conduction model and how it is integrated, and the optional per-problem
// hooks. The driver consults it every stage; kernels receive it by pointer.
type Package struct {
	CFL    float64
	EOS    eos.EOS
	NHydro int // variables carrying hyperbolic fluxes
	NVar   int // total variables incl. passive field components

	// UseScratch switches the flux kernels from full-array wl/wr storage to
	// per-row scratch pads. Both paths produce identical fluxes.
	UseScratch bool

	// FirstOrderFluxCorrect retries sub-floor cells with donor-cell fluxes
	// before the update is committed
	FirstOrderFluxCorrect bool

	// CalcCh tracks the divergence-cleaning wave speed each cycle
	CalcCh bool

	ThermalDiff diffusion.ThermalDiffusivity
	DiffInt     diffusion.DiffInt

	// SourceFun, when set, applies unsplit source terms to one block after the
	// flux update of every stage
	SourceFun func(bd *mesh.BlockData, t, betaDt float64)

	// ProblemEstimateTimestep, when set, contributes an extra timestep bound
	ProblemEstimateTimestep func(m *mesh.Mesh, reg string) float64
}

func NewPackage(e eos.EOS, cfl float64, nvar int,
	td diffusion.ThermalDiffusivity, di diffusion.DiffInt) (pkg *Package, err error) {
	if cfl <= 0 || cfl > 1 {
		err = fmt.Errorf("CFL number must be in (0,1], have %v", cfl)
		return
	}
	if nvar != mesh.NHydro && nvar != mesh.NMHD {
		err = fmt.Errorf("nvar must be %d (hydro) or %d (MHD), have %d",
			mesh.NHydro, mesh.NMHD, nvar)
		return
	}
	if td.Type() == diffusion.Anisotropic && nvar != mesh.NMHD {
		err = fmt.Errorf("anisotropic conduction requires field components (nvar=%d)", mesh.NMHD)
		return
	}
	if td.Type() == diffusion.None && di != diffusion.DiffIntNone {
		err = fmt.Errorf("diffusion integrator set but no diffusion process enabled")
		return
	}
	if td.Type() != diffusion.None && di == diffusion.DiffIntNone {
		err = fmt.Errorf("conduction enabled but no diffusion integrator selected")
		return
	}
	pkg = &Package{
		CFL:         cfl,
		EOS:         e,
		NHydro:      mesh.NHydro,
		NVar:        nvar,
		ThermalDiff: td,
		DiffInt:     di,
	}
	return
}
