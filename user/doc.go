// Package user is the library programs are written against. A program is an
// Entry receiving a *Lib; every call on Lib traps into the kernel with a
// system-call id and up to three arguments. Host memory that a real kernel
// would reach through a user pointer (write buffers, waitpid status, task
// info) travels in the trap's buffer slot.
package user
