package mm

import (
	"fmt"

	"github.com/viant/kproc/runtime/cell"
)

type frameState struct {
	current  PhysPageNum
	end      PhysPageNum
	recycled []PhysPageNum
	inUse    map[PhysPageNum]bool
}

// FrameAllocator hands out physical frames from [start, start+limit).
type FrameAllocator struct {
	state *cell.Exclusive[frameState]
}

// NewFrameAllocator creates an allocator managing limit frames.
func NewFrameAllocator(start PhysPageNum, limit int) *FrameAllocator {
	return &FrameAllocator{state: cell.New("FRAME_ALLOCATOR", frameState{
		current: start,
		end:     start + PhysPageNum(limit),
		inUse:   map[PhysPageNum]bool{},
	})}
}

// Alloc returns a free frame or ErrOutOfFrames.
func (f *FrameAllocator) Alloc() (PhysPageNum, error) {
	g := f.state.Access()
	defer g.Release()
	s := g.Value()
	var ppn PhysPageNum
	switch {
	case len(s.recycled) > 0:
		ppn = s.recycled[len(s.recycled)-1]
		s.recycled = s.recycled[:len(s.recycled)-1]
	case s.current < s.end:
		ppn = s.current
		s.current++
	default:
		return 0, ErrOutOfFrames
	}
	s.inUse[ppn] = true
	return ppn, nil
}

// Dealloc returns a frame. Freeing a frame that is not allocated is a kernel
// defect and panics.
func (f *FrameAllocator) Dealloc(ppn PhysPageNum) {
	g := f.state.Access()
	defer g.Release()
	s := g.Value()
	if !s.inUse[ppn] {
		panic(fmt.Sprintf("mm: frame ppn=%#x has not been allocated", uint64(ppn)))
	}
	delete(s.inUse, ppn)
	s.recycled = append(s.recycled, ppn)
}

// Available returns the number of frames that can still be allocated.
func (f *FrameAllocator) Available() int {
	g := f.state.Access()
	defer g.Release()
	s := g.Value()
	return int(s.end-s.current) + len(s.recycled)
}
