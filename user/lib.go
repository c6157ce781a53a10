package user

import (
	"fmt"

	"github.com/viant/kproc/runtime/task"
)

// System-call ids.
const (
	SysWrite       = 64
	SysExit        = 93
	SysYield       = 124
	SysSetPriority = 140
	SysGetTime     = 169
	SysGetPid      = 172
	SysMunmap      = 215
	SysMmap        = 222
	SysWaitPid     = 260
	SysSpawn       = 400
	SysTaskInfo    = 410
)

// FdStdout is the only writable descriptor.
const FdStdout = 1

// WaitPid results other than a reaped pid.
const (
	WaitNoChild = -1
	WaitRunning = -2
)

// Trapper enters the kernel.
type Trapper interface {
	Trap(id uint64, args [3]uint64, buffer any) int64
}

// Entry is a program's main function; its result becomes the exit code
// unless the program calls Exit itself.
type Entry func(lib *Lib) int32

// Lib issues system calls for one task.
type Lib struct {
	trapper Trapper
}

// New returns a library bound to trapper.
func New(trapper Trapper) *Lib {
	return &Lib{trapper: trapper}
}

func (l *Lib) call(id uint64, a0, a1, a2 uint64, buffer any) int64 {
	return l.trapper.Trap(id, [3]uint64{a0, a1, a2}, buffer)
}

// Write writes data to fd.
func (l *Lib) Write(fd uint64, data []byte) int64 {
	return l.call(SysWrite, fd, 0, uint64(len(data)), data)
}

// Print formats to stdout.
func (l *Lib) Print(format string, args ...any) int64 {
	return l.Write(FdStdout, []byte(fmt.Sprintf(format, args...)))
}

// Exit terminates the calling task and never returns.
func (l *Lib) Exit(code int32) {
	l.call(SysExit, uint64(int64(code)), 0, 0, nil)
	panic("user: exit returned")
}

// Yield gives up the processor.
func (l *Lib) Yield() int64 {
	return l.call(SysYield, 0, 0, 0, nil)
}

// GetTime returns the kernel clock in milliseconds.
func (l *Lib) GetTime() int64 {
	return l.call(SysGetTime, 0, 0, 0, nil)
}

// GetPid returns the caller's pid.
func (l *Lib) GetPid() int64 {
	return l.call(SysGetPid, 0, 0, 0, nil)
}

// SetPriority sets the caller's scheduling weight; it returns prio or -1.
func (l *Lib) SetPriority(prio int64) int64 {
	return l.call(SysSetPriority, uint64(prio), 0, 0, nil)
}

// Mmap maps [start, start+length) with port bits r=1, w=2, x=4.
func (l *Lib) Mmap(start, length, port uint64) int64 {
	return l.call(SysMmap, start, length, port, nil)
}

// Munmap unmaps [start, start+length).
func (l *Lib) Munmap(start, length uint64) int64 {
	return l.call(SysMunmap, start, length, 0, nil)
}

// Spawn starts the named program as a child; it returns the child pid or -1.
func (l *Lib) Spawn(name string) int64 {
	return l.call(SysSpawn, 0, 0, 0, name)
}

// TaskInfo fills info for the caller.
func (l *Lib) TaskInfo(info *task.Info) int64 {
	return l.call(SysTaskInfo, 0, 0, 0, info)
}

// TryWaitPid reaps pid (-1 for any child) without blocking.
func (l *Lib) TryWaitPid(pid int64, exitCode *int32) int64 {
	return l.call(SysWaitPid, uint64(pid), 0, 0, exitCode)
}

// WaitPid yields until pid (-1 for any child) exits and returns its pid, or
// WaitNoChild.
func (l *Lib) WaitPid(pid int64, exitCode *int32) int64 {
	for {
		ret := l.TryWaitPid(pid, exitCode)
		if ret != WaitRunning {
			return ret
		}
		l.Yield()
	}
}

// Wait waits for any child.
func (l *Lib) Wait(exitCode *int32) int64 {
	return l.WaitPid(-1, exitCode)
}
