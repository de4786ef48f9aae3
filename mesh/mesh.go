package mesh

import (
	"fmt"

	"github.com/notargets/gomhd/utils"
)

type BoundaryType uint

const (
	Periodic BoundaryType = iota
	Outflow
	Reflecting
)

var BoundaryNames = map[string]BoundaryType{
	"periodic":   Periodic,
	"outflow":    Outflow,
	"reflecting": Reflecting,
}

// Coords holds the uniform Cartesian metric of one block
type Coords struct {
	Dx   [3]float64 // cell width per direction
	Xmin [3]float64 // coordinate of the low interior cell face
	Ng   [3]int     // ghost offset per direction (0 for absent dims)
}

func (c Coords) DxDir(dir int) float64 { return c.Dx[dir] }

// Center returns the cell center coordinate of cell idx along dir,
// where idx counts from the start of the entire (ghost-inclusive) range
func (c Coords) Center(dir, idx int) float64 {
	return c.Xmin[dir] + (float64(idx-c.Ng[dir])+0.5)*c.Dx[dir]
}

// BlockData is one named register of block state: conserved and primitive
// field arrays plus one interface flux array per direction. Flux arrays have
// one extra cell along their own direction.
type BlockData struct {
	Cons, Prim FieldArray
	Flux       [3]FieldArray
	// Wl, Wr hold reconstructed interface states between the reconstruction
	// and Riemann kernels of the non-scratch flux path
	Wl, Wr FieldArray
	Block  *MeshBlock
}

func newBlockData(mb *MeshBlock, nvar int) (bd *BlockData) {
	var (
		n1 = mb.NCells(X1DIR, Entire)
		n2 = mb.NCells(X2DIR, Entire)
		n3 = mb.NCells(X3DIR, Entire)
	)
	bd = &BlockData{
		Cons:  NewFieldArray(nvar, n3, n2, n1),
		Prim:  NewFieldArray(nvar, n3, n2, n1),
		Block: mb,
	}
	bd.Flux[X1DIR] = NewFieldArray(nvar, n3, n2, n1+1)
	bd.Flux[X2DIR] = NewFieldArray(nvar, n3, n2+1, n1)
	bd.Flux[X3DIR] = NewFieldArray(nvar, n3+1, n2, n1)
	bd.Wl = NewFieldArray(nvar, n3, n2, n1)
	bd.Wr = NewFieldArray(nvar, n3, n2, n1)
	return
}

// MeshBlock is one rectangular tile of the domain with NGhost ghost layers
// on each face of every active dimension
type MeshBlock struct {
	ID         int
	Loc        [3]int // block location in the block grid
	NX         [3]int // interior cell counts
	NGhost     int
	Coords     Coords
	RefineFlag int // +1 refine, -1 derefine, 0 keep

	mesh *Mesh
	regs map[string]*BlockData
	comm map[string]*commState
}

func (mb *MeshBlock) Bounds(dir int, domain IndexDomain) (ir IndexRange) {
	var (
		ng = 0
	)
	if mb.NX[dir] > 1 {
		ng = mb.NGhost
	}
	switch domain {
	case Interior:
		ir = IndexRange{S: ng, E: ng + mb.NX[dir] - 1}
	case Entire:
		ir = IndexRange{S: 0, E: 2*ng + mb.NX[dir] - 1}
	}
	return
}

func (mb *MeshBlock) NCells(dir int, domain IndexDomain) int {
	return mb.Bounds(dir, domain).N()
}

// Data returns the named register, which must exist
func (mb *MeshBlock) Data(name string) (bd *BlockData) {
	var (
		ok bool
	)
	if bd, ok = mb.regs[name]; !ok {
		panic(fmt.Errorf("mesh block %d has no register named %q", mb.ID, name))
	}
	return
}

// AddData creates the named register from the base template if it does not
// exist yet. Safe to call repeatedly.
func (mb *MeshBlock) AddData(name string) (bd *BlockData) {
	var (
		ok bool
	)
	if bd, ok = mb.regs[name]; ok {
		return
	}
	bd = newBlockData(mb, mb.mesh.NVar)
	mb.regs[name] = bd
	return
}

// Mesh is a regular grid of equally sized blocks covering a rectangular
// domain. It owns the field arrays; the solver core borrows access per kernel.
type Mesh struct {
	NDim     int
	NVar     int
	NGhost   int
	NBlockXi [3]int // blocks per dimension
	Blocks   []*MeshBlock
	BCs      [3]BoundaryType // one per dimension, both faces
	Adaptive bool
	// Refinement tagging thresholds on the relative second density difference
	RefineThreshold, DerefineThreshold float64

	Partitions *utils.PartitionMap
}

// NewMesh builds nb[0]*nb[1]*nb[2] blocks of nx interior cells each over the
// domain [xmin, xmax]. Dimensions with nx[d] == 1 are absent; absent
// dimensions carry no ghost zones and are never swept.
func NewMesh(nx, nb [3]int, xmin, xmax [3]float64, nvar, nghost, parallelDegree int,
	bcs [3]BoundaryType) (m *Mesh, err error) {
	var (
		ndim = 1
	)
	if nx[0] < 4 {
		err = fmt.Errorf("need at least 4 interior cells in X1, have %d", nx[0])
		return
	}
	if nx[1] > 1 {
		ndim = 2
	}
	if nx[2] > 1 {
		if nx[1] == 1 {
			err = fmt.Errorf("X3 dimension active while X2 is absent")
			return
		}
		ndim = 3
	}
	for d := 0; d < 3; d++ {
		if nb[d] < 1 {
			nb[d] = 1
		}
		if nx[d] == 1 && nb[d] > 1 {
			err = fmt.Errorf("cannot split absent dimension %d into %d blocks", d+1, nb[d])
			return
		}
		if nx[d]%nb[d] != 0 {
			err = fmt.Errorf("cell count %d not divisible into %d blocks along dim %d",
				nx[d], nb[d], d+1)
			return
		}
	}
	m = &Mesh{
		NDim:              ndim,
		NVar:              nvar,
		NGhost:            nghost,
		NBlockXi:          nb,
		BCs:               bcs,
		RefineThreshold:   0.3,
		DerefineThreshold: 0.03,
	}
	nblocks := nb[0] * nb[1] * nb[2]
	m.Blocks = make([]*MeshBlock, nblocks)
	for bk := 0; bk < nb[2]; bk++ {
		for bj := 0; bj < nb[1]; bj++ {
			for bi := 0; bi < nb[0]; bi++ {
				id := bi + nb[0]*(bj+nb[1]*bk)
				mb := &MeshBlock{
					ID:     id,
					Loc:    [3]int{bi, bj, bk},
					NGhost: nghost,
					mesh:   m,
					regs:   make(map[string]*BlockData),
					comm:   make(map[string]*commState),
				}
				for d := 0; d < 3; d++ {
					mb.NX[d] = nx[d] / nb[d]
					mb.Coords.Dx[d] = (xmax[d] - xmin[d]) / float64(nx[d])
					mb.Coords.Xmin[d] = xmin[d] + float64(mb.Loc[d]*mb.NX[d])*mb.Coords.Dx[d]
					if mb.NX[d] > 1 {
						mb.Coords.Ng[d] = nghost
					}
				}
				mb.regs["base"] = newBlockData(mb, nvar)
				m.Blocks[id] = mb
			}
		}
	}
	m.Partitions = utils.NewPartitionMap(parallelDegree, nblocks)
	return
}

// AddRegister ensures the named register exists on every block
func (m *Mesh) AddRegister(name string) {
	for _, mb := range m.Blocks {
		mb.AddData(name)
	}
}

// BlockPartition returns the blocks owned by partition np
func (m *Mesh) BlockPartition(np int) []*MeshBlock {
	lo, hi := m.Partitions.GetBucketRange(np)
	return m.Blocks[lo:hi]
}

// neighbor returns the block adjacent to mb at the given offset, wrapping
// periodically, or nil across a physical (non-periodic) boundary
func (m *Mesh) neighbor(mb *MeshBlock, off [3]int) (nb *MeshBlock) {
	var (
		loc [3]int
	)
	for d := 0; d < 3; d++ {
		loc[d] = mb.Loc[d] + off[d]
		if loc[d] < 0 || loc[d] >= m.NBlockXi[d] {
			if m.BCs[d] != Periodic {
				return nil
			}
			loc[d] = (loc[d] + m.NBlockXi[d]) % m.NBlockXi[d]
		}
	}
	nb = m.Blocks[loc[0]+m.NBlockXi[0]*(loc[1]+m.NBlockXi[1]*loc[2])]
	return
}

// GlobalMin reduces f over all blocks. Reductions write process-wide state and
// are issued sequentially from a single task list; concurrent use would race.
func (m *Mesh) GlobalMin(f func(mb *MeshBlock) float64) (min float64) {
	min = f(m.Blocks[0])
	for _, mb := range m.Blocks[1:] {
		if v := f(mb); v < min {
			min = v
		}
	}
	return
}

// MinDx returns the smallest active cell width over all blocks
func (m *Mesh) MinDx() float64 {
	ndim := m.NDim
	return m.GlobalMin(func(mb *MeshBlock) float64 {
		mindx := mb.Coords.Dx[X1DIR]
		if ndim >= 2 && mb.Coords.Dx[X2DIR] < mindx {
			mindx = mb.Coords.Dx[X2DIR]
		}
		if ndim >= 3 && mb.Coords.Dx[X3DIR] < mindx {
			mindx = mb.Coords.Dx[X3DIR]
		}
		return mindx
	})
}
