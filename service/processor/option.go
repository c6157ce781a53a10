package processor

import (
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/scheduler"
	"github.com/viant/kproc/stats"
)

// Option configures the processor.
type Option func(*Service)

// WithScheduler sets the ready queue the run loop fetches from.
func WithScheduler(s *scheduler.Service) Option {
	return func(p *Service) {
		p.scheduler = s
	}
}

// WithExitWhenIdle makes Run return once nothing is ready or current.
func WithExitWhenIdle(flag bool) Option {
	return func(p *Service) {
		p.config.ExitWhenIdle = flag
	}
}

// WithStats sets the counters updated on dispatch and idle.
func WithStats(tracker *stats.Tracker) Option {
	return func(p *Service) {
		p.stats = tracker
	}
}

// WithDispatchListener registers fn, called right before every switch into
// a task. fn runs on the idle context with no guard held.
func WithDispatchListener(fn func(t *task.ControlBlock)) Option {
	return func(p *Service) {
		p.onDispatch = fn
	}
}
