package task

import (
	"math"

	"github.com/viant/kproc/runtime/cell"
	"github.com/viant/kproc/service/mm"
)

// PID identifies a process.
type PID uint64

// NoPID marks an absent parent.
const NoPID PID = math.MaxUint64

// PidAllocator hands out process ids. Ids are never reused, so a stale id
// can only ever fail to resolve.
type PidAllocator struct {
	next *cell.Exclusive[PID]
}

// NewPidAllocator creates an allocator whose first id is first.
func NewPidAllocator(first PID) *PidAllocator {
	return &PidAllocator{next: cell.New("PID_ALLOCATOR", first)}
}

// Alloc returns the next id.
func (a *PidAllocator) Alloc() PID {
	g := a.next.Access()
	defer g.Release()
	ret := *g.Value()
	*g.Value() = ret + 1
	return ret
}

// KernelStack is the kernel stack region owned by one task.
type KernelStack struct {
	Bottom uint64
	Top    uint64
}

// NewKernelStack returns the region reserved for pid below the trampoline,
// each stack separated from the next by a guard page.
func NewKernelStack(pid PID) KernelStack {
	top := uint64(mm.Trampoline) - uint64(pid)*(mm.KernelStackSize+mm.PageSize)
	return KernelStack{Bottom: top - mm.KernelStackSize, Top: top}
}
