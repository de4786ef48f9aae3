package driver

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/hydro/diffusion"
	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/utils"
)

// Register names used by the integrator. "base" is the evolving state u0;
// "u1" snapshots the step-initial state for the stage blend.
const (
	regBase = "base"
	regU1   = "u1"
)

// Driver owns the outer evolution loop: multi-stage flux updates over a task
// graph, operator-split super-time-stepped conduction, and the step-wide
// scalars every stage reads
type Driver struct {
	Mesh *mesh.Mesh
	Pkg  *hydro.Package

	TLim float64
	NLim int // cycle limit, < 0 for none

	Time, Dt float64
	NCycle   int

	// Step-wide scalars. Refreshed between task collections by sequential
	// reductions; stages only read them.
	MinDx  float64
	Ch     float64 // divergence-cleaning wave speed
	DtHyp  float64
	DtDiff float64

	nstages    int
	gam0, gam1 []float64
	beta       []float64
}

func NewDriver(m *mesh.Mesh, pkg *hydro.Package, integrator string,
	tlim float64, nlim int) (d *Driver, err error) {
	d = &Driver{
		Mesh: m,
		Pkg:  pkg,
		TLim: tlim,
		NLim: nlim,
	}
	switch integrator {
	case "rk1":
		d.nstages = 1
		d.gam0, d.gam1, d.beta = []float64{0}, []float64{1}, []float64{1}
	case "vl2":
		d.nstages = 2
		d.gam0, d.gam1, d.beta = []float64{0, 0}, []float64{1, 1}, []float64{0.5, 1.0}
	default:
		err = fmt.Errorf("unknown time integrator %q", integrator)
		return
	}
	m.AddRegister(regU1)
	if pkg.DiffInt == diffusion.RKL2 {
		for _, reg := range stsRegisters {
			m.AddRegister(reg)
		}
	}
	d.MinDx = m.MinDx()
	return
}

// MakeTaskCollection builds the task graph of one integrator stage. The first
// region posts receive buffers on every block so the second region's sends,
// running concurrently across partitions, always find them.
func (d *Driver) MakeTaskCollection(stage int) (tc TaskCollection) {
	var (
		m       = d.Mesh
		pkg     = d.Pkg
		ndim    = m.NDim
		np      = m.Partitions.ParallelDegree
		gam0    = d.gam0[stage-1]
		gam1    = d.gam1[stage-1]
		betaDt  = d.beta[stage-1] * d.Dt
		last    = stage == d.nstages
		prep    = make(TaskRegion, np)
		work    = make(TaskRegion, np)
		unsplit = pkg.DiffInt == diffusion.Unsplit
	)
	for p := 0; p < np; p++ {
		blocks := m.BlockPartition(p)

		tl := &TaskList{}
		tl.AddTask(NoDep, func() (TaskStatus, error) {
			for _, mb := range blocks {
				mb.StartReceiving(regBase)
				if stage == 1 {
					mb.Data(regU1).Cons.DeepCopy(mb.Data(regBase).Cons)
				}
			}
			return TaskComplete, nil
		})
		prep[p] = tl

		tl = &TaskList{}
		flux := tl.AddTask(NoDep, func() (TaskStatus, error) {
			for _, mb := range blocks {
				bd := mb.Data(regBase)
				pkg.CalculateFluxes(bd, stage, ndim)
				if unsplit {
					pkg.ThermalDiff.CalcDiffFluxes(bd, ndim)
				}
			}
			return TaskComplete, nil
		})
		correct := tl.AddTask(flux, func() (TaskStatus, error) {
			if pkg.FirstOrderFluxCorrect {
				for _, mb := range blocks {
					pkg.FluxCorrect(mb.Data(regBase), mb.Data(regU1),
						gam0, gam1, betaDt, ndim)
				}
			}
			return TaskComplete, nil
		})
		update := tl.AddTask(correct, func() (TaskStatus, error) {
			for _, mb := range blocks {
				hydro.UpdateWithFluxDivergence(mb.Data(regBase), mb.Data(regU1),
					gam0, gam1, betaDt, ndim)
			}
			return TaskComplete, nil
		})
		sources := tl.AddTask(update, func() (TaskStatus, error) {
			if pkg.SourceFun != nil {
				for _, mb := range blocks {
					pkg.SourceFun(mb.Data(regBase), d.Time, betaDt)
				}
			}
			return TaskComplete, nil
		})
		send := tl.AddTask(sources, func() (TaskStatus, error) {
			for _, mb := range blocks {
				mb.SendBoundaryBuffers(regBase)
			}
			return TaskComplete, nil
		})
		recv := tl.AddTask(send, func() (TaskStatus, error) {
			for _, mb := range blocks {
				if !mb.ReceiveBoundaryBuffers(regBase) {
					return TaskIncomplete, nil
				}
			}
			return TaskComplete, nil
		})
		set := tl.AddTask(recv, func() (TaskStatus, error) {
			for _, mb := range blocks {
				mb.SetBoundaries(regBase)
				mb.ClearBoundary(regBase)
				mb.ApplyBoundaryConditions(regBase)
			}
			return TaskComplete, nil
		})
		c2p := tl.AddTask(set, func() (TaskStatus, error) {
			for _, mb := range blocks {
				pkg.ConsToPrim(mb.Data(regBase))
			}
			return TaskComplete, nil
		})
		if last && m.Adaptive {
			tl.AddTask(c2p, func() (TaskStatus, error) {
				for _, mb := range blocks {
					mb.Tag(regBase)
				}
				return TaskComplete, nil
			})
		}
		work[p] = tl
	}
	tc = TaskCollection{prep, work}
	return
}

// Step advances the solution by one cycle: pick dt from the previous cycle's
// estimates, run the optional leading conduction half step, the integrator
// stages, the trailing half step, then refresh the global reductions
func (d *Driver) Step(ctx context.Context) (err error) {
	var (
		pkg = d.Pkg
	)
	d.Dt = d.DtHyp
	if pkg.DiffInt == diffusion.Unsplit && d.DtDiff < d.Dt {
		d.Dt = d.DtDiff
	}
	if pkg.ProblemEstimateTimestep != nil {
		if pdt := pkg.ProblemEstimateTimestep(d.Mesh, regBase); pdt < d.Dt {
			d.Dt = pdt
		}
	}
	if d.Time+d.Dt > d.TLim {
		d.Dt = d.TLim - d.Time
	}
	if pkg.CalcCh {
		d.Ch = pkg.CFL * d.MinDx / d.DtHyp
	}
	if pkg.DiffInt == diffusion.RKL2 {
		d.SuperTimeStep(0.5 * d.Dt)
	}
	for stage := 1; stage <= d.nstages; stage++ {
		if err = d.MakeTaskCollection(stage).Execute(ctx); err != nil {
			return
		}
	}
	if pkg.DiffInt == diffusion.RKL2 {
		d.SuperTimeStep(0.5 * d.Dt)
	}
	d.Time += d.Dt
	d.NCycle++
	// Reductions run one at a time from this single control goroutine
	d.DtHyp = pkg.EstimateTimestep(d.Mesh, regBase)
	d.DtDiff = pkg.ThermalDiff.EstimateTimestep(d.Mesh.Blocks, regBase, d.Mesh.NDim)
	return
}

// Execute runs the evolution from the freshly generated initial condition to
// the time or cycle limit
func (d *Driver) Execute(ctx context.Context) (err error) {
	start := time.Now()
	d.exchangeAndPrim(regBase)
	d.DtHyp = d.Pkg.EstimateTimestep(d.Mesh, regBase)
	d.DtDiff = d.Pkg.ThermalDiff.EstimateTimestep(d.Mesh.Blocks, regBase, d.Mesh.NDim)
	mass0 := d.TotalMass()
	log.Infof("starting evolution: tlim=%g nlim=%d blocks=%d partitions=%d mass=%.12e",
		d.TLim, d.NLim, len(d.Mesh.Blocks), d.Mesh.Partitions.ParallelDegree, mass0)
	for d.Time < d.TLim && (d.NLim < 0 || d.NCycle < d.NLim) {
		if err = d.Step(ctx); err != nil {
			return
		}
		log.Infof("cycle=%d time=%.6e dt=%.6e", d.NCycle, d.Time, d.Dt)
	}
	log.Infof("evolution finished: cycles=%d time=%.6e walltime=%s mass drift=%.3e",
		d.NCycle, d.Time, time.Since(start), d.TotalMass()-mass0)
	return
}

// TotalMass integrates the interior density over the domain. On a fully
// periodic domain it is conserved to round-off; the drift is logged as a
// solver health check.
func (d *Driver) TotalMass() (mass float64) {
	for _, mb := range d.Mesh.Blocks {
		var (
			cons = mb.Data(regBase).Cons
			c    = mb.Coords
			ib   = mb.Bounds(mesh.X1DIR, mesh.Interior)
			jb   = mb.Bounds(mesh.X2DIR, mesh.Interior)
			kb   = mb.Bounds(mesh.X3DIR, mesh.Interior)
			dv   = c.Dx[mesh.X1DIR]
		)
		if d.Mesh.NDim >= 2 {
			dv *= c.Dx[mesh.X2DIR]
		}
		if d.Mesh.NDim >= 3 {
			dv *= c.Dx[mesh.X3DIR]
		}
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				row := cons.Data[cons.Ind(mesh.IDN, k, j, ib.S) : cons.Ind(mesh.IDN, k, j, ib.E)+1]
				mass += utils.Sum(row) * dv
			}
		}
	}
	return
}

// exchangeAndPrim does one serial ghost exchange plus primitive refresh on
// every block. Used outside the task graph: initialization and the
// super-time-stepping substages.
func (d *Driver) exchangeAndPrim(reg string) {
	blocks := d.Mesh.Blocks
	for _, mb := range blocks {
		mb.StartReceiving(reg)
	}
	for _, mb := range blocks {
		mb.SendBoundaryBuffers(reg)
	}
	for _, mb := range blocks {
		if !mb.ReceiveBoundaryBuffers(reg) {
			panic("serial exchange: buffers missing after all sends")
		}
		mb.SetBoundaries(reg)
		mb.ClearBoundary(reg)
		mb.ApplyBoundaryConditions(reg)
		d.Pkg.ConsToPrim(mb.Data(reg))
	}
}

// dtRatioWarn flags ratios of the full hydro step to the diffusive limit
// where the super-time-stepper, while stable, loses accuracy. Each Strang
// half covers tau = dt/2.
const dtRatioWarn = 100.0

func dtRatioCheck(tau, dtDiff float64) {
	if math.IsInf(dtDiff, 1) {
		return
	}
	if ratio := 2 * tau / dtDiff; ratio > dtRatioWarn {
		log.Warnf("super-time-step ratio %.1f exceeds %.0f, accuracy may suffer",
			ratio, dtRatioWarn)
	}
}
