package task

import (
	"fmt"
	"time"

	"github.com/viant/kproc/runtime/cell"
	"github.com/viant/kproc/runtime/fiber"
	"github.com/viant/kproc/runtime/trap"
	"github.com/viant/kproc/service/mm"
)

// MaxSyscallNum bounds the syscall ids tracked per task.
const MaxSyscallNum = 500

// DefaultPriority is assigned to tasks created without an explicit weight.
const DefaultPriority = 16

// Inner is the mutable part of a task control block.
type Inner struct {
	Name         string
	Context      *fiber.Context
	TrapContext  *trap.Context
	Status       Status
	Memory       mm.AddressSpace
	Parent       PID
	Children     []*ControlBlock
	ExitCode     int32
	Stride       uint64
	Priority     uint64
	SyscallTimes [MaxSyscallNum]uint32
	// FirstDispatch is zero until the task is scheduled for the first time.
	FirstDispatch time.Time
}

// ControlBlock is the per-process descriptor.
type ControlBlock struct {
	PID         PID
	KernelStack KernelStack
	inner       *cell.Exclusive[Inner]
}

// Info is the status and usage snapshot reported for a task.
type Info struct {
	Status       Status
	SyscallTimes [MaxSyscallNum]uint32
	// Time is the number of milliseconds since first dispatch.
	Time int64
}

// Spec carries everything needed to build a control block.
type Spec struct {
	PID         PID
	Name        string
	Parent      PID
	Memory      mm.AddressSpace
	TrapContext *trap.Context
	Entry       func()
	Priority    uint64
}

// New creates a task in StatusUnInit.
func New(spec Spec) *ControlBlock {
	priority := spec.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	return &ControlBlock{
		PID:         spec.PID,
		KernelStack: NewKernelStack(spec.PID),
		inner: cell.New(fmt.Sprintf("TCB_Inner(%s)", spec.Name), Inner{
			Name:        spec.Name,
			Context:     fiber.New(spec.Entry),
			TrapContext: spec.TrapContext,
			Status:      StatusUnInit,
			Memory:      spec.Memory,
			Parent:      spec.Parent,
			Priority:    priority,
		}),
	}
}

// Access returns an exclusive guard over the inner record.
func (t *ControlBlock) Access() *cell.Guard[Inner] {
	return t.inner.Access()
}

// With runs fn with exclusive access to the inner record.
func (t *ControlBlock) With(fn func(inner *Inner)) {
	t.inner.With(fn)
}

// Status returns the current status.
func (t *ControlBlock) Status() Status {
	g := t.inner.Access()
	defer g.Release()
	return g.Value().Status
}

// Stride returns the current pass value.
func (t *ControlBlock) Stride() uint64 {
	g := t.inner.Access()
	defer g.Release()
	return g.Value().Stride
}

// Priority returns the current scheduling weight.
func (t *ControlBlock) Priority() uint64 {
	g := t.inner.Access()
	defer g.Release()
	return g.Value().Priority
}

// Name returns the program name the task was created from.
func (t *ControlBlock) Name() string {
	g := t.inner.Access()
	defer g.Release()
	return g.Value().Name
}

// Transition moves the task to next, panicking on an illegal edge.
func (i *Inner) Transition(next Status) {
	if !i.Status.CanTransition(next) {
		panic(fmt.Sprintf("task %s: illegal transition %v -> %v", i.Name, i.Status, next))
	}
	i.Status = next
}

// SetPriority assigns a scheduling weight; zero would be used as a divisor
// and is rejected as a defect.
func (i *Inner) SetPriority(priority uint64) {
	if priority == 0 {
		panic(fmt.Sprintf("task %s: priority must be >= 1", i.Name))
	}
	i.Priority = priority
}

// Advance adds the pass value bigStride/priority to the stride.
func (i *Inner) Advance(bigStride uint64) {
	if i.Priority == 0 {
		panic(fmt.Sprintf("task %s: priority must be >= 1", i.Name))
	}
	i.Stride += bigStride / i.Priority
}

// IsZombie reports whether the task has exited.
func (i *Inner) IsZombie() bool {
	return i.Status == StatusZombie
}

// UserToken returns the address-space token.
func (i *Inner) UserToken() uint64 {
	if i.Memory == nil {
		return 0
	}
	return i.Memory.Token()
}

// Info returns the usage snapshot relative to now.
func (i *Inner) Info(now time.Time) *Info {
	ret := &Info{Status: i.Status, SyscallTimes: i.SyscallTimes}
	if !i.FirstDispatch.IsZero() {
		ret.Time = now.Sub(i.FirstDispatch).Milliseconds()
	}
	return ret
}

// RemoveChild drops the child with pid from the children list, preserving
// order. It returns the removed child or nil.
func (i *Inner) RemoveChild(pid PID) *ControlBlock {
	for idx, child := range i.Children {
		if child.PID == pid {
			i.Children = append(i.Children[:idx], i.Children[idx+1:]...)
			return child
		}
	}
	return nil
}
