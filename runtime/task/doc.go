// Package task defines the task control block: immutable identity (pid and
// kernel stack) plus a mutable record guarded by an exclusive-access cell.
//
// A *ControlBlock is shared freely; the ready queue, the processor and a
// parent's children list may all hold it at once. Only the inner record is
// subject to the exclusive-access discipline, and a guard on it must be
// released before any context switch.
package task
