package kproc

import (
	"fmt"
	"math"

	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/runtime/trap"
	"github.com/viant/kproc/service/mm"
)

// CurrentPID returns the pid of the running task.
func (k *Kernel) CurrentPID() (task.PID, bool) {
	current := k.processor.Current()
	if current == nil {
		return task.NoPID, false
	}
	return current.PID, true
}

// CurrentTaskInfo returns status, syscall counters and milliseconds since
// the first dispatch of the running task.
func (k *Kernel) CurrentTaskInfo() (*task.Info, bool) {
	current := k.processor.Current()
	if current == nil {
		return nil, false
	}
	var ret *task.Info
	now := clock.Now()
	current.With(func(inner *task.Inner) {
		ret = inner.Info(now)
	})
	return ret, true
}

// SetCurrentPriority changes the scheduling weight of the running task.
func (k *Kernel) SetCurrentPriority(priority int64) error {
	if priority < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	current := k.processor.Current()
	if current == nil {
		return ErrNoCurrentTask
	}
	current.With(func(inner *task.Inner) {
		inner.SetPriority(uint64(priority))
	})
	return nil
}

// IncreaseSyscallTimes counts one call of id for the running task.
func (k *Kernel) IncreaseSyscallTimes(id uint64) error {
	return k.updateSyscallTimes(id, func(count uint32) uint32 {
		if count == math.MaxUint32 {
			return count
		}
		return count + 1
	})
}

// DecreaseSyscallTimes uncounts one call of id; the counter stops at zero.
func (k *Kernel) DecreaseSyscallTimes(id uint64) error {
	return k.updateSyscallTimes(id, func(count uint32) uint32 {
		if count == 0 {
			return 0
		}
		return count - 1
	})
}

func (k *Kernel) updateSyscallTimes(id uint64, update func(uint32) uint32) error {
	if id >= task.MaxSyscallNum {
		return fmt.Errorf("%w: %d", ErrInvalidSyscall, id)
	}
	current := k.processor.Current()
	if current == nil {
		return ErrNoCurrentTask
	}
	current.With(func(inner *task.Inner) {
		inner.SyscallTimes[id] = update(inner.SyscallTimes[id])
	})
	return nil
}

// CurrentMmap maps [start, start+length) into the running task with the
// permission encoded by port (bit0 r, bit1 w, bit2 x). Nothing changes on
// failure.
func (k *Kernel) CurrentMmap(start, length, port uint64) error {
	current := k.processor.Current()
	if current == nil {
		return ErrNoCurrentTask
	}
	startVA := mm.VirtAddr(start)
	if !startVA.Aligned() {
		return fmt.Errorf("%w: %#x", ErrMisaligned, start)
	}
	perm, ok := mm.PermissionFromPort(port)
	if !ok {
		return fmt.Errorf("%w: port %#x", ErrInvalidPermission, port)
	}
	endVA := mm.VirtAddr(start + length)
	if endVA < startVA {
		return fmt.Errorf("%w: length %#x overflows", ErrConflict, length)
	}
	var err error
	current.With(func(inner *task.Inner) {
		if inner.Memory.IsConflict(startVA.Floor(), endVA.Ceil()) {
			err = fmt.Errorf("%w: [%#x, %#x)", ErrConflict, start, uint64(endVA))
			return
		}
		err = inner.Memory.InsertFramedArea(startVA, endVA, perm)
	})
	return err
}

// CurrentMunmap unmaps [start, start+length) from the running task. Every
// page of the range must be mapped; a wrapping range is mm.ErrNotMapped.
func (k *Kernel) CurrentMunmap(start, length uint64) error {
	current := k.processor.Current()
	if current == nil {
		return ErrNoCurrentTask
	}
	startVA := mm.VirtAddr(start)
	if !startVA.Aligned() {
		return fmt.Errorf("%w: %#x", ErrMisaligned, start)
	}
	endVA := mm.VirtAddr(start + length)
	if endVA < startVA {
		return fmt.Errorf("%w: length %#x overflows", mm.ErrNotMapped, length)
	}
	var err error
	current.With(func(inner *task.Inner) {
		err = inner.Memory.UnmapArea(startVA, endVA)
	})
	return err
}

// CurrentUserToken returns the address-space token of the running task.
func (k *Kernel) CurrentUserToken() (uint64, bool) {
	current := k.processor.Current()
	if current == nil {
		return 0, false
	}
	var ret uint64
	current.With(func(inner *task.Inner) {
		ret = inner.UserToken()
	})
	return ret, true
}

// CurrentTrapContext returns the trap context of the running task, or nil.
func (k *Kernel) CurrentTrapContext() *trap.Context {
	current := k.processor.Current()
	if current == nil {
		return nil
	}
	var ret *trap.Context
	current.With(func(inner *task.Inner) {
		ret = inner.TrapContext
	})
	return ret
}
