package stats

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Dispatched int
	Suspended  int
	Preempted  int
	Exited     int
	Spawned    int
	Reaped     int
	Idle       int
}

// Counters holds the aggregated values.
type Counters struct {
	BootID    string
	StartedAt time.Time

	Dispatched int
	Suspended  int
	Preempted  int
	Exited     int
	Spawned    int
	Reaped     int
	Idle       int
}

// Tracker guards Counters and notifies an optional observer.
type Tracker struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// New creates a tracker for the kernel instance bootID.
func New(bootID string, startedAt time.Time) *Tracker {
	return &Tracker{counters: Counters{BootID: bootID, StartedAt: startedAt}}
}

// Update applies d. The onChange callback, if any, receives a copy after
// the lock is released.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mu.Lock()
	c := &t.counters
	c.Dispatched += d.Dispatched
	c.Suspended += d.Suspended
	c.Preempted += d.Preempted
	c.Exited += d.Exited
	c.Spawned += d.Spawned
	c.Reaped += d.Reaped
	c.Idle += d.Idle
	snapshot := *c
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy suitable for read-only inspection.
func (t *Tracker) Snapshot() Counters {
	if t == nil {
		return Counters{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (t *Tracker) OnChange(cb func(Counters)) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}
