package scheduler

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/viant/kproc/runtime/cell"
	"github.com/viant/kproc/runtime/task"
)

const (
	// DefaultBigStride keeps passes well separated for priorities up to the
	// hundreds.
	DefaultBigStride uint64 = 6469693230
	// MaxBigStride bounds a single pass so live strides never drift 2^63 apart.
	MaxBigStride uint64 = 1 << 62
)

// Service is the ready-queue manager.
type Service struct {
	bigStride uint64
	queue     *cell.Exclusive[readyQueue]
}

// New creates a scheduler.
func New(options ...Option) (*Service, error) {
	ret := &Service{bigStride: DefaultBigStride}
	for _, opt := range options {
		opt(ret)
	}
	if ret.bigStride == 0 || ret.bigStride > MaxBigStride {
		return nil, fmt.Errorf("big stride must be in [1, %d], got %d", MaxBigStride, ret.bigStride)
	}
	ret.queue = cell.New("TASK_MANAGER", readyQueue{})
	return ret, nil
}

// BigStride returns the configured pass numerator.
func (s *Service) BigStride() uint64 {
	return s.bigStride
}

// Add enqueues a Ready task. The caller must not hold the task's guard.
func (s *Service) Add(t *task.ControlBlock) {
	if status := t.Status(); status != task.StatusReady {
		panic(fmt.Sprintf("scheduler: add pid %d with status %v", t.PID, status))
	}
	g := s.queue.Access()
	defer g.Release()
	q := g.Value()
	q.seq++
	heap.Push(q, &entry{task: t, seq: q.seq})
}

// Fetch removes the task with the smallest stride and advances its stride.
// It returns nil when nothing is ready.
func (s *Service) Fetch() *task.ControlBlock {
	g := s.queue.Access()
	q := g.Value()
	if q.Len() == 0 {
		g.Release()
		return nil
	}
	next := heap.Pop(q).(*entry).task
	g.Release()
	next.With(func(inner *task.Inner) {
		inner.Advance(s.bigStride)
	})
	return next
}

// Len returns the number of ready tasks.
func (s *Service) Len() int {
	g := s.queue.Access()
	defer g.Release()
	return g.Value().Len()
}

// Snapshot returns the pids of ready tasks in the order Fetch would return
// them if no strides changed in between.
func (s *Service) Snapshot() []task.PID {
	g := s.queue.Access()
	defer g.Release()
	entries := append([]*entry(nil), g.Value().entries...)
	sort.Slice(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
	ret := make([]task.PID, len(entries))
	for i, e := range entries {
		ret[i] = e.task.PID
	}
	return ret
}
