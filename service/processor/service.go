package processor

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/runtime/cell"
	"github.com/viant/kproc/runtime/fiber"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/scheduler"
	"github.com/viant/kproc/stats"
	"github.com/viant/kproc/tracing"
)

// Config represents processor configuration.
type Config struct {
	// ExitWhenIdle stops Run when the ready queue is empty and no task is current.
	ExitWhenIdle bool
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{}
}

type state struct {
	current    *task.ControlBlock
	sliceStart time.Time
}

// Service is the active processor.
type Service struct {
	config     Config
	scheduler  *scheduler.Service
	state      *cell.Exclusive[state]
	idle       *fiber.Context
	stats      *stats.Tracker
	onDispatch func(t *task.ControlBlock)
	running    atomic.Bool
}

// New creates a processor with an empty current slot.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		state:  cell.New("PROCESSOR", state{}),
		idle:   fiber.ZeroInit(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	return s, nil
}

// TakeCurrent empties the current slot and returns what it held.
func (s *Service) TakeCurrent() *task.ControlBlock {
	g := s.state.Access()
	defer g.Release()
	ret := g.Value().current
	g.Value().current = nil
	return ret
}

// Current returns the running task without removing it, or nil.
func (s *Service) Current() *task.ControlBlock {
	g := s.state.Access()
	defer g.Release()
	return g.Value().current
}

// SliceElapsed returns how long the current task has run since its last
// dispatch, or zero when no task is current.
func (s *Service) SliceElapsed() time.Duration {
	g := s.state.Access()
	defer g.Release()
	if g.Value().current == nil {
		return 0
	}
	return clock.Since(g.Value().sliceStart)
}

// Schedule saves the caller into switched and resumes the run loop. When
// switched is fiber.Unused() the calling task never resumes.
func (s *Service) Schedule(switched *fiber.Context) {
	fiber.Switch(switched, s.idle)
}

// Run is the scheduling loop. It returns ctx.Err() once ctx is done, or nil
// when configured to exit on idle and nothing is left to run. Cancellation is
// only observed between dispatches: tasks still Ready stay queued and their
// goroutines stay parked until a later Run dispatches them. Nothing releases
// them otherwise, so a processor abandoned with Ready tasks leaks one parked
// goroutine per task.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		panic("processor: run loop already active")
	}
	defer s.running.Store(false)

	idling := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := s.scheduler.Fetch()
		if next == nil {
			if !idling {
				idling = true
				s.stats.Update(stats.Delta{Idle: 1})
			}
			if s.config.ExitWhenIdle && s.Current() == nil {
				return nil
			}
			runtime.Gosched()
			continue
		}
		idling = false
		s.dispatch(ctx, next)
	}
}

func (s *Service) dispatch(ctx context.Context, next *task.ControlBlock) {
	var taskCx *fiber.Context
	var name string
	now := clock.Now()
	next.With(func(inner *task.Inner) {
		inner.Transition(task.StatusRunning)
		if inner.FirstDispatch.IsZero() {
			inner.FirstDispatch = now
		}
		taskCx = inner.Context
		name = inner.Name
	})
	s.state.With(func(st *state) {
		st.current = next
		st.sliceStart = now
	})

	_, span := tracing.StartSpan(ctx, "processor.dispatch", tracing.KindInternal)
	span.WithAttributes(map[string]string{"task.pid": fmt.Sprint(next.PID), "task.name": name})
	s.stats.Update(stats.Delta{Dispatched: 1})
	if s.onDispatch != nil {
		s.onDispatch(next)
	}
	fiber.Switch(s.idle, taskCx)
	tracing.EndSpan(span, nil)
}
