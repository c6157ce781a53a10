package syscall

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/policy"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/user"
)

// Dispatcher routes system calls to the kernel.
type Dispatcher struct {
	kernel  Kernel
	console io.Writer
	policy  *policy.Policy
	logger  *log.Logger
	debug   bool
}

// New creates a dispatcher for kernel.
func New(kernel Kernel, options ...Option) *Dispatcher {
	ret := &Dispatcher{kernel: kernel}
	for _, opt := range options {
		opt(ret)
	}
	if ret.console == nil {
		ret.console = os.Stdout
	}
	if ret.logger == nil {
		ret.logger = log.Default()
	}
	return ret
}

// Dispatch handles one call from the current task. yield and exit switch
// away from the caller; yield returns once the task is scheduled again and
// exit never returns.
func (d *Dispatcher) Dispatch(id uint64, args [3]uint64, buffer any) int64 {
	pid, _ := d.kernel.CurrentPID()
	if err := d.kernel.IncreaseSyscallTimes(id); err != nil {
		d.debugf(pid, "syscall %d: %v", id, err)
	}
	name, ok := Name(id)
	if !ok {
		d.logger.Printf("[kernel] [pid %d] unsupported syscall %d", pid, id)
		return -1
	}
	if !d.policy.Permit(&policy.Call{PID: uint64(pid), Name: name, Args: args}) {
		d.logger.Printf("[kernel] [pid %d] syscall %s blocked by policy", pid, name)
		return -1
	}

	switch id {
	case user.SysWrite:
		return d.write(pid, args, buffer)
	case user.SysExit:
		d.kernel.ExitCurrentAndRunNext(int32(args[0]))
		panic("syscall: exit returned")
	case user.SysYield:
		d.kernel.SuspendCurrentAndRunNext()
		return 0
	case user.SysGetTime:
		return clock.Millis()
	case user.SysGetPid:
		return int64(pid)
	case user.SysSetPriority:
		priority := int64(args[0])
		if err := d.kernel.SetCurrentPriority(priority); err != nil {
			d.debugf(pid, "set_priority(%d): %v", priority, err)
			return -1
		}
		return priority
	case user.SysMmap:
		if err := d.kernel.CurrentMmap(args[0], args[1], args[2]); err != nil {
			d.debugf(pid, "mmap(%#x, %#x, %#x): %v", args[0], args[1], args[2], err)
			return -1
		}
		return 0
	case user.SysMunmap:
		if err := d.kernel.CurrentMunmap(args[0], args[1]); err != nil {
			d.debugf(pid, "munmap(%#x, %#x): %v", args[0], args[1], err)
			return -1
		}
		return 0
	case user.SysSpawn:
		path, _ := buffer.(string)
		child, err := d.kernel.Spawn(path)
		if err != nil {
			d.debugf(pid, "spawn(%q): %v", path, err)
			return -1
		}
		return int64(child)
	case user.SysWaitPid:
		return d.waitPid(int64(args[0]), buffer)
	case user.SysTaskInfo:
		info, ok := buffer.(*task.Info)
		if !ok || info == nil {
			return -1
		}
		current, ok := d.kernel.CurrentTaskInfo()
		if !ok {
			return -1
		}
		*info = *current
		return 0
	}
	return -1
}

func (d *Dispatcher) write(pid task.PID, args [3]uint64, buffer any) int64 {
	if args[0] != user.FdStdout {
		d.debugf(pid, "write: unsupported fd %d", args[0])
		return -1
	}
	data, _ := buffer.([]byte)
	if uint64(len(data)) > args[2] {
		data = data[:args[2]]
	}
	n, err := d.console.Write(data)
	if err != nil {
		d.debugf(pid, "write: %v", err)
		return -1
	}
	return int64(n)
}

func (d *Dispatcher) waitPid(pid int64, buffer any) int64 {
	child, code, err := d.kernel.WaitPid(pid)
	switch {
	case errors.Is(err, task.ErrChildRunning):
		return user.WaitRunning
	case err != nil:
		return user.WaitNoChild
	}
	if exitCode, ok := buffer.(*int32); ok && exitCode != nil {
		*exitCode = code
	}
	return int64(child)
}

func (d *Dispatcher) debugf(pid task.PID, format string, args ...any) {
	if !d.debug {
		return
	}
	d.logger.Printf("[kernel] [pid %d] "+format, append([]any{pid}, args...)...)
}
