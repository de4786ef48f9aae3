package cmd

import (
	"context"
	"os"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/driver"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/hydro/diffusion"
	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/pgen"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a simulation from a YAML input deck",
	Run: func(cmd *cobra.Command, args []string) {
		deck, err := cmd.Flags().GetString("inputFile")
		if err != nil {
			panic(err)
		}
		if len(deck) == 0 {
			log.Fatalf("must supply an input deck (-I, --inputFile)")
		}
		if prof, _ := cmd.Flags().GetBool("cpuprofile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		data, err := os.ReadFile(deck)
		if err != nil {
			log.Fatalf("reading input deck: %s", err)
		}
		ip := &InputParameters.InputParameters{}
		if err = ip.Parse(data); err != nil {
			log.Fatalf("parsing input deck: %s", err)
		}
		ip.Print()
		d := setup(ip)
		pgen.Generate(d.Mesh, d.Pkg.EOS, ip)
		if err = d.Execute(context.Background()); err != nil {
			log.Fatalf("evolution failed: %s", err)
		}
	},
}

// setup wires the mesh, EOS, conduction model and driver from the input deck.
// Configuration errors are fatal before any evolution starts.
func setup(ip *InputParameters.InputParameters) (d *driver.Driver) {
	var (
		bcs  [3]mesh.BoundaryType
		nvar = mesh.NHydro
	)
	for dd := 0; dd < 3; dd++ {
		bc, ok := mesh.BoundaryNames[ip.BCs[dd]]
		if !ok {
			log.Fatalf("unknown boundary condition %q", ip.BCs[dd])
		}
		bcs[dd] = bc
	}
	if ip.Fluid == "glmmhd" {
		nvar = mesh.NMHD
	}
	m, err := mesh.NewMesh(ip.NX, ip.NBlocks, ip.Xmin, ip.Xmax,
		nvar, ip.NGhost, ip.ParallelDegree, bcs)
	if err != nil {
		log.Fatalf("building mesh: %s", err)
	}
	m.Adaptive = ip.Adaptive

	dfloor, pfloor := ip.DensityFloor, ip.PressureFloor
	if dfloor <= 0 {
		dfloor = eos.DefaultFloor
	}
	if pfloor <= 0 {
		pfloor = eos.DefaultFloor
	}
	e, err := eos.New(ip.EOS, ip.Gamma, dfloor, pfloor)
	if err != nil {
		log.Fatalf("building EOS: %s", err)
	}

	cond, ok := diffusion.ConductionNames[ip.Conduction]
	if !ok {
		log.Fatalf("unknown conduction model %q", ip.Conduction)
	}
	coeff, ok := diffusion.ConductionCoeffNames[ip.ConductionCoeff]
	if !ok {
		log.Fatalf("unknown conduction coefficient %q", ip.ConductionCoeff)
	}
	di, ok := diffusion.DiffIntNames[ip.DiffInt]
	if !ok {
		log.Fatalf("unknown diffusion integrator %q", ip.DiffInt)
	}
	td, err := diffusion.NewThermalDiffusivity(cond, coeff,
		ip.ConductionCoeffValue, ip.MbarOverKb)
	if err != nil {
		log.Fatalf("building conduction model: %s", err)
	}

	pkg, err := hydro.NewPackage(e, ip.CFL, nvar, td, di)
	if err != nil {
		log.Fatalf("building hydro package: %s", err)
	}
	pkg.UseScratch = ip.UseScratch
	pkg.FirstOrderFluxCorrect = ip.FirstOrderFluxCorrect
	pkg.CalcCh = ip.CalcCh

	tlim, nlim := ip.FinalTime, ip.MaxCycles
	if nlim == 0 {
		nlim = -1
	}
	if d, err = driver.NewDriver(m, pkg, ip.Integrator, tlim, nlim); err != nil {
		log.Fatalf("building driver: %s", err)
	}
	return
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("inputFile", "I", "", "YAML input deck describing mesh, fluid and problem")
	solveCmd.Flags().Bool("cpuprofile", false, "write a CPU profile to the working directory")
}
