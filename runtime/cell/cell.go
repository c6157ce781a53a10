package cell

import (
	"fmt"
	"sync/atomic"
)

// Exclusive wraps a value behind a runtime borrow check.
type Exclusive[T any] struct {
	name     string
	borrowed atomic.Bool
	value    T
}

// Guard grants mutable access to the wrapped value until released.
type Guard[T any] struct {
	owner    *Exclusive[T]
	released bool
}

// New creates a cell. The caller guarantees single-executor usage.
func New[T any](name string, value T) *Exclusive[T] {
	if name == "" {
		name = fmt.Sprintf("%T", value)
	}
	return &Exclusive[T]{name: name, value: value}
}

// Name returns the cell name used in diagnostics.
func (c *Exclusive[T]) Name() string {
	return c.name
}

// Access returns a guard over the wrapped value. It panics when a guard
// obtained earlier from the same cell has not been released.
func (c *Exclusive[T]) Access() *Guard[T] {
	if !c.borrowed.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("[%s] has been borrowed", c.name))
	}
	return &Guard[T]{owner: c}
}

// With runs fn with exclusive access and releases on return, including
// when fn panics.
func (c *Exclusive[T]) With(fn func(v *T)) {
	g := c.Access()
	defer g.Release()
	fn(g.Value())
}

// Borrowed reports whether a guard is currently alive.
func (c *Exclusive[T]) Borrowed() bool {
	return c.borrowed.Load()
}

// Value returns the guarded value. Using it after Release is a defect.
func (g *Guard[T]) Value() *T {
	if g.released {
		panic(fmt.Sprintf("[%s] accessed after release", g.owner.name))
	}
	return &g.owner.value
}

// Release ends the borrow. Calling it more than once is a no-op.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.owner.borrowed.Store(false)
}
