// Package cell provides the exclusive-access cell used to guard kernel
// singletons (the ready queue, the processor slot and every task's mutable
// record).
//
// A cell is not a lock. It is only sound while exactly one logical executor
// runs kernel code at a time, which the fiber package guarantees. A second
// Access while a guard is alive panics instead of waiting: on a single
// executor nothing else could ever release it. On a multi-core target the
// cell has to be replaced with a real mutual-exclusion primitive.
package cell
