package mesh

// Variable layout shared by the conserved and primitive field arrays. The
// first five slots are the hydro variables; the magnetic field components
// occupy the trailing three slots when the run is configured for MHD.
const (
	IDN = 0 // density
	IM1 = 1 // momentum / velocity X1
	IM2 = 2
	IM3 = 3
	IEN = 4 // total energy / pressure
	IV1 = IM1
	IV2 = IM2
	IV3 = IM3
	IPR = IEN
	IB1 = 5
	IB2 = 6
	IB3 = 7

	NHydro = 5
	NMHD   = 8
)

// Spatial direction indices
const (
	X1DIR = iota
	X2DIR
	X3DIR
)

type IndexDomain uint

const (
	Interior IndexDomain = iota
	Entire
)

// IndexRange is an inclusive [S,E] index pair along one dimension
type IndexRange struct {
	S, E int
}

func (ir IndexRange) N() int { return ir.E - ir.S + 1 }

// FieldArray is a dense (variable, k, j, i) array over a single block,
// ghost cells included. Kernels index the flat Data slice directly.
type FieldArray struct {
	NVar, N3, N2, N1 int
	Data             []float64
}

func NewFieldArray(nvar, n3, n2, n1 int) (f FieldArray) {
	f = FieldArray{
		NVar: nvar,
		N3:   n3,
		N2:   n2,
		N1:   n1,
		Data: make([]float64, nvar*n3*n2*n1),
	}
	return
}

func (f FieldArray) Ind(n, k, j, i int) int {
	return i + f.N1*(j+f.N2*(k+f.N3*n))
}

func (f FieldArray) At(n, k, j, i int) float64 {
	return f.Data[f.Ind(n, k, j, i)]
}

func (f FieldArray) Set(n, k, j, i int, val float64) {
	f.Data[f.Ind(n, k, j, i)] = val
}

func (f FieldArray) Add(n, k, j, i int, val float64) {
	f.Data[f.Ind(n, k, j, i)] += val
}

func (f FieldArray) DeepCopy(src FieldArray) {
	if len(f.Data) != len(src.Data) {
		panic("DeepCopy: field array shapes differ")
	}
	copy(f.Data, src.Data)
}

func (f FieldArray) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}
