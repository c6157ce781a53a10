// Package trap holds the register snapshot saved on every entry from user
// code into the kernel.
package trap

// Register indices used by the system-call convention.
const (
	RegSP = 2
	RegA0 = 10
	RegA1 = 11
	RegA2 = 12
	RegA7 = 17
)

// sstatus.SPP cleared means the trap came from user mode.
const sstatusUserMode = 0

// Context is the per-task register snapshot. Buffer carries a reference to
// caller-owned memory for calls that read or write user buffers, standing in
// for address translation in a hosted kernel.
type Context struct {
	X           [32]uint64
	Sstatus     uint64
	Sepc        uint64
	KernelSatp  uint64
	KernelSp    uint64
	TrapHandler uint64
	Buffer      any
}

// AppInitContext builds the snapshot a freshly created task starts from.
func AppInitContext(entry, userSp, kernelSatp, kernelSp, trapHandler uint64) *Context {
	cx := &Context{
		Sstatus:     sstatusUserMode,
		Sepc:        entry,
		KernelSatp:  kernelSatp,
		KernelSp:    kernelSp,
		TrapHandler: trapHandler,
	}
	cx.X[RegSP] = userSp
	return cx
}

// SetSyscall stores a system-call request the way user code would before ecall.
func (c *Context) SetSyscall(id uint64, args [3]uint64, buffer any) {
	c.X[RegA7] = id
	c.X[RegA0] = args[0]
	c.X[RegA1] = args[1]
	c.X[RegA2] = args[2]
	c.Buffer = buffer
}

// Syscall returns the pending system-call id and arguments.
func (c *Context) Syscall() (uint64, [3]uint64) {
	return c.X[RegA7], [3]uint64{c.X[RegA0], c.X[RegA1], c.X[RegA2]}
}

// Return writes the call result and steps past the ecall instruction.
func (c *Context) Return(result int64) {
	c.Sepc += 4
	c.X[RegA0] = uint64(result)
	c.Buffer = nil
}

// Result returns the last value written by Return.
func (c *Context) Result() int64 {
	return int64(c.X[RegA0])
}
