package syscall

import "github.com/viant/kproc/user"

var names = map[uint64]string{
	user.SysWrite:       "write",
	user.SysExit:        "exit",
	user.SysYield:       "yield",
	user.SysSetPriority: "set_priority",
	user.SysGetTime:     "get_time",
	user.SysGetPid:      "getpid",
	user.SysMunmap:      "munmap",
	user.SysMmap:        "mmap",
	user.SysWaitPid:     "waitpid",
	user.SysSpawn:       "spawn",
	user.SysTaskInfo:    "task_info",
}

// Name returns the name of a supported system call.
func Name(id uint64) (string, bool) {
	ret, ok := names[id]
	return ret, ok
}
