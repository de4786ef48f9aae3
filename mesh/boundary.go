package mesh

import (
	"fmt"
	"sync/atomic"
)

// Ghost exchange runs in explicit phases mirroring the driver's task graph:
// StartReceiving -> SendBoundaryBuffers -> ReceiveBoundaryBuffers ->
// SetBoundaries -> ClearBoundary. Senders write into buffers the receiver
// allocated during StartReceiving, so the start phase must complete on all
// blocks before any send runs; the driver enforces that with a dependency
// edge between task regions.

// filled is atomic: sends and receives run on different partition goroutines,
// and the release store publishes the packed data to the receiver's load
type commBuf struct {
	data   []float64
	filled atomic.Bool
}

type commState struct {
	bufs map[[3]int]*commBuf
}

// neighborOffsets lists the face/edge/corner offsets of active dimensions
func (mb *MeshBlock) neighborOffsets() (offs [][3]int) {
	var (
		lim [3]int
	)
	for d := 0; d < 3; d++ {
		if mb.NX[d] > 1 {
			lim[d] = 1
		}
	}
	for o3 := -lim[2]; o3 <= lim[2]; o3++ {
		for o2 := -lim[1]; o2 <= lim[1]; o2++ {
			for o1 := -lim[0]; o1 <= lim[0]; o1++ {
				if o1 == 0 && o2 == 0 && o3 == 0 {
					continue
				}
				offs = append(offs, [3]int{o1, o2, o3})
			}
		}
	}
	return
}

// strip is the sender-side index range along dim d for a send toward off[d]
func (mb *MeshBlock) sendRange(d, off int) (ir IndexRange) {
	var (
		ib = mb.Bounds(d, Interior)
		ng = mb.NGhost
	)
	switch off {
	case 1:
		ir = IndexRange{S: ib.E - ng + 1, E: ib.E}
	case -1:
		ir = IndexRange{S: ib.S, E: ib.S + ng - 1}
	default:
		ir = ib
	}
	return
}

// ghostRange is the receiver-side index range along dim d for data arriving
// from direction toward[d]
func (mb *MeshBlock) ghostRange(d, toward int) (ir IndexRange) {
	var (
		ib = mb.Bounds(d, Interior)
		ng = mb.NGhost
	)
	switch toward {
	case 1:
		ir = IndexRange{S: ib.E + 1, E: ib.E + ng}
	case -1:
		ir = IndexRange{S: ib.S - ng, E: ib.S - 1}
	default:
		ir = ib
	}
	return
}

// StartReceiving allocates receive buffers for every neighbor of this block
func (mb *MeshBlock) StartReceiving(reg string) {
	cs := &commState{bufs: make(map[[3]int]*commBuf)}
	for _, off := range mb.neighborOffsets() {
		if mb.mesh.neighbor(mb, off) == nil {
			continue
		}
		n := mb.mesh.NVar
		for d := 0; d < 3; d++ {
			n *= mb.ghostRange(d, off[d]).N()
		}
		cs.bufs[off] = &commBuf{data: make([]float64, n)}
	}
	mb.comm[reg] = cs
}

// SendBoundaryBuffers packs this block's conserved boundary strips into the
// receive buffers of its neighbors
func (mb *MeshBlock) SendBoundaryBuffers(reg string) {
	var (
		cons = mb.Data(reg).Cons
	)
	for _, off := range mb.neighborOffsets() {
		nb := mb.mesh.neighbor(mb, off)
		if nb == nil {
			continue
		}
		// From the neighbor's view the data arrives from direction -off
		back := [3]int{-off[0], -off[1], -off[2]}
		cb, ok := nb.comm[reg].bufs[back]
		if !ok {
			panic(fmt.Errorf("block %d: neighbor %d has no buffer for offset %v",
				mb.ID, nb.ID, back))
		}
		var (
			ir = mb.sendRange(X1DIR, off[0])
			jr = mb.sendRange(X2DIR, off[1])
			kr = mb.sendRange(X3DIR, off[2])
			p  int
		)
		for n := 0; n < cons.NVar; n++ {
			for k := kr.S; k <= kr.E; k++ {
				for j := jr.S; j <= jr.E; j++ {
					for i := ir.S; i <= ir.E; i++ {
						cb.data[p] = cons.At(n, k, j, i)
						p++
					}
				}
			}
		}
		cb.filled.Store(true)
	}
}

// ReceiveBoundaryBuffers reports whether all expected buffers have arrived
func (mb *MeshBlock) ReceiveBoundaryBuffers(reg string) (done bool) {
	done = true
	for _, cb := range mb.comm[reg].bufs {
		if !cb.filled.Load() {
			done = false
		}
	}
	return
}

// SetBoundaries unpacks the received buffers into this block's ghost cells
func (mb *MeshBlock) SetBoundaries(reg string) {
	var (
		cons = mb.Data(reg).Cons
	)
	for off, cb := range mb.comm[reg].bufs {
		var (
			ir = mb.ghostRange(X1DIR, off[0])
			jr = mb.ghostRange(X2DIR, off[1])
			kr = mb.ghostRange(X3DIR, off[2])
			p  int
		)
		for n := 0; n < cons.NVar; n++ {
			for k := kr.S; k <= kr.E; k++ {
				for j := jr.S; j <= jr.E; j++ {
					for i := ir.S; i <= ir.E; i++ {
						cons.Set(n, k, j, i, cb.data[p])
						p++
					}
				}
			}
		}
	}
}

// ClearBoundary releases the communication state for the register
func (mb *MeshBlock) ClearBoundary(reg string) {
	delete(mb.comm, reg)
}

// ApplyBoundaryConditions fills ghost zones across physical (non-periodic)
// boundaries. Dimensions are handled in order so edge and corner ghosts pick
// up already filled face values.
func (mb *MeshBlock) ApplyBoundaryConditions(reg string) {
	var (
		m    = mb.mesh
		cons = mb.Data(reg).Cons
	)
	for d := 0; d < m.NDim; d++ {
		if m.BCs[d] == Periodic {
			continue
		}
		if mb.Loc[d] == 0 {
			mb.fillPhysical(cons, d, -1, m.BCs[d])
		}
		if mb.Loc[d] == m.NBlockXi[d]-1 {
			mb.fillPhysical(cons, d, 1, m.BCs[d])
		}
	}
}

func (mb *MeshBlock) fillPhysical(cons FieldArray, d, side int, bc BoundaryType) {
	var (
		ib  = mb.Bounds(d, Interior)
		gr  = mb.ghostRange(d, side)
		er  [3]IndexRange
		imv = IM1 + d // momentum component normal to the face
	)
	for dd := 0; dd < 3; dd++ {
		er[dd] = mb.Bounds(dd, Entire)
	}
	er[d] = gr
	for n := 0; n < cons.NVar; n++ {
		for k := er[X3DIR].S; k <= er[X3DIR].E; k++ {
			for j := er[X2DIR].S; j <= er[X2DIR].E; j++ {
				for i := er[X1DIR].S; i <= er[X1DIR].E; i++ {
					idx := [3]int{i, j, k}
					src := idx
					switch bc {
					case Outflow:
						if side < 0 {
							src[d] = ib.S
						} else {
							src[d] = ib.E
						}
					case Reflecting:
						// mirror about the face
						if side < 0 {
							src[d] = 2*ib.S - 1 - idx[d]
						} else {
							src[d] = 2*ib.E + 1 - idx[d]
						}
					}
					v := cons.At(n, src[2], src[1], src[0])
					if bc == Reflecting && n == imv {
						v = -v
					}
					cons.Set(n, idx[2], idx[1], idx[0], v)
				}
			}
		}
	}
}
