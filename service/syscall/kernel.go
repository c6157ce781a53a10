package syscall

import "github.com/viant/kproc/runtime/task"

// Kernel is the surface a dispatcher needs from the process core. All
// methods act on the current task.
type Kernel interface {
	CurrentPID() (task.PID, bool)
	CurrentTaskInfo() (*task.Info, bool)
	IncreaseSyscallTimes(id uint64) error
	SetCurrentPriority(priority int64) error
	CurrentMmap(start, length, port uint64) error
	CurrentMunmap(start, length uint64) error
	SuspendCurrentAndRunNext()
	ExitCurrentAndRunNext(code int32)
	Spawn(name string) (task.PID, error)
	WaitPid(pid int64) (task.PID, int32, error)
}
