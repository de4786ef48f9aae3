package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title     string  `yaml:"Title"`
	Fluid     string  `yaml:"Fluid"` // euler or glmmhd
	Gamma     float64 `yaml:"Gamma"`
	EOS       string  `yaml:"EOS"`
	CFL       float64 `yaml:"CFL"`
	FinalTime float64 `yaml:"FinalTime"`
	MaxCycles int     `yaml:"MaxCycles"`

	Integrator            string `yaml:"Integrator"` // rk1 or vl2
	UseScratch            bool   `yaml:"UseScratch"`
	FirstOrderFluxCorrect bool   `yaml:"FirstOrderFluxCorrect"`
	CalcCh                bool   `yaml:"CalcCh"`

	NX      [3]int     `yaml:"NX"`
	NBlocks [3]int     `yaml:"NBlocks"`
	Xmin    [3]float64 `yaml:"Xmin"`
	Xmax    [3]float64 `yaml:"Xmax"`
	NGhost  int        `yaml:"NGhost"`
	BCs     [3]string  `yaml:"BCs"`

	ParallelDegree int  `yaml:"ParallelDegree"`
	Adaptive       bool `yaml:"Adaptive"`

	DensityFloor  float64 `yaml:"DensityFloor"`
	PressureFloor float64 `yaml:"PressureFloor"`

	Conduction           string  `yaml:"Conduction"`      // none, isotropic, anisotropic
	ConductionCoeff      string  `yaml:"ConductionCoeff"` // fixed or spitzer
	ConductionCoeffValue float64 `yaml:"ConductionCoeffValue"`
	MbarOverKb           float64 `yaml:"MbarOverKb"`
	DiffInt              string  `yaml:"DiffInt"` // none, unsplit, rkl2

	ProblemType   string             `yaml:"ProblemType"`
	ProblemParams map[string]float64 `yaml:"ProblemParams"`
}

func (ip *InputParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.setDefaults()
}

func (ip *InputParameters) setDefaults() error {
	if ip.EOS == "" {
		ip.EOS = "adiabatic"
	}
	if ip.Fluid == "" {
		ip.Fluid = "euler"
	}
	if ip.Integrator == "" {
		ip.Integrator = "vl2"
	}
	if ip.Conduction == "" {
		ip.Conduction = "none"
	}
	if ip.ConductionCoeff == "" {
		ip.ConductionCoeff = "fixed"
	}
	if ip.DiffInt == "" {
		if ip.Conduction == "none" {
			ip.DiffInt = "none"
		} else {
			ip.DiffInt = "unsplit"
		}
	}
	if ip.NGhost == 0 {
		ip.NGhost = 2
	}
	if ip.ParallelDegree == 0 {
		ip.ParallelDegree = 1
	}
	for d := 0; d < 3; d++ {
		if ip.NX[d] == 0 {
			ip.NX[d] = 1
		}
		if ip.NBlocks[d] == 0 {
			ip.NBlocks[d] = 1
		}
		if ip.BCs[d] == "" {
			ip.BCs[d] = "periodic"
		}
	}
	return ip.validate()
}

func (ip *InputParameters) validate() error {
	if ip.CFL <= 0 {
		return fmt.Errorf("CFL must be positive, have %v", ip.CFL)
	}
	if ip.Gamma <= 1 {
		return fmt.Errorf("Gamma must exceed 1, have %v", ip.Gamma)
	}
	if ip.FinalTime <= 0 && ip.MaxCycles <= 0 {
		return fmt.Errorf("need FinalTime > 0 or MaxCycles > 0")
	}
	if ip.NGhost < 2 {
		return fmt.Errorf("piecewise linear reconstruction needs NGhost >= 2, have %d", ip.NGhost)
	}
	if ip.ProblemType == "" {
		return fmt.Errorf("ProblemType must be set")
	}
	for d := 0; d < 3; d++ {
		if ip.NX[d] > 1 && ip.Xmax[d] <= ip.Xmin[d] {
			return fmt.Errorf("empty domain along dim %d: [%v, %v]", d+1, ip.Xmin[d], ip.Xmax[d])
		}
	}
	return nil
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Fluid\n", ip.Fluid)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Integrator\n", ip.Integrator)
	fmt.Printf("%v\t= NX\n", ip.NX)
	fmt.Printf("%v\t= NBlocks\n", ip.NBlocks)
	fmt.Printf("[%s]\t\t\t= Conduction\n", ip.Conduction)
	fmt.Printf("[%s]\t\t\t= ProblemType\n", ip.ProblemType)
	keys := make([]string, len(ip.ProblemParams))
	i := 0
	for k := range ip.ProblemParams {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("ProblemParams[%s] = %v\n", key, ip.ProblemParams[key])
	}
}

// Param returns a problem parameter or the given default when absent
func (ip *InputParameters) Param(name string, def float64) float64 {
	if v, ok := ip.ProblemParams[name]; ok {
		return v
	}
	return def
}
