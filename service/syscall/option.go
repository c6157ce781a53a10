package syscall

import (
	"io"
	"log"

	"github.com/viant/kproc/policy"
)

type Option func(*Dispatcher)

// WithConsole sets the writer behind fd 1.
func WithConsole(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.console = w
	}
}

// WithPolicy sets the gate consulted before every call.
func WithPolicy(p *policy.Policy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithLogger sets the logger for rejected calls.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDebug enables logging of every failed call.
func WithDebug(flag bool) Option {
	return func(d *Dispatcher) {
		d.debug = flag
	}
}
