// Package fiber implements the two-context switch primitive on top of
// goroutines. Each Context owns a one-slot permit; a goroutine holding no
// permit is parked, so exactly one context executes at any instant and
// control moves only at Switch.
package fiber

// Context is a saved execution point. The goroutine parked in Switch is the
// saved state; resuming it hands it the permit.
type Context struct {
	permit  chan struct{}
	entry   func()
	started bool
	unused  bool
}

// ZeroInit returns an empty context, suitable as the idle context of a
// scheduling loop: the first Switch away from it records where to return.
func ZeroInit() *Context {
	return &Context{permit: make(chan struct{}, 1)}
}

// New returns a context that starts executing entry on its first resume.
// entry must leave by switching away; returning from it is a defect.
func New(entry func()) *Context {
	ret := ZeroInit()
	ret.entry = entry
	return ret
}

// Unused returns a zeroed context that is never resumed. Switching away from
// it parks the calling goroutine for good once control has been handed over;
// its pending defers never run.
func Unused() *Context {
	return &Context{unused: true}
}

// Started reports whether the context has been entered at least once.
func (c *Context) Started() bool {
	return c.entry == nil || c.started
}

// Switch saves the caller into from, resumes to, and returns only when some
// other context switches back into from.
func Switch(from, to *Context) {
	if to == nil || to.unused {
		panic("fiber: switch into an unused context")
	}
	if from == to {
		panic("fiber: switch into the current context")
	}
	if !to.Started() {
		to.started = true
		go run(to.entry)
	} else {
		to.permit <- struct{}{}
	}
	if from.unused {
		retire()
	}
	<-from.permit
}

// retire parks the calling goroutine forever; none of its defers run.
func retire() {
	var never chan struct{}
	<-never
}

func run(entry func()) {
	entry()
	panic("fiber: context entry returned without switching away")
}
