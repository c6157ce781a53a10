package kproc

import (
	"errors"

	"github.com/viant/kproc/runtime/task"
)

var (
	// ErrNoCurrentTask is returned by current-task operations when the
	// processor is idle.
	ErrNoCurrentTask = errors.New("kproc: no current task")

	// ErrInvalidPriority is returned for priorities below 1.
	ErrInvalidPriority = errors.New("kproc: invalid priority")

	// ErrInvalidSyscall is returned for syscall ids outside the tracked range.
	ErrInvalidSyscall = errors.New("kproc: invalid syscall id")

	// ErrMisaligned is returned when a mapping does not start on a page boundary.
	ErrMisaligned = errors.New("kproc: address not page aligned")

	// ErrInvalidPermission is returned for mmap port values with bits
	// outside rwx or with none of them set.
	ErrInvalidPermission = errors.New("kproc: invalid permission")

	// ErrConflict is returned when a requested range overlaps a mapping.
	ErrConflict = errors.New("kproc: range already mapped")

	ErrNoSuchChild  = task.ErrNoSuchChild
	ErrChildRunning = task.ErrChildRunning
)
