package kproc

import (
	"io"
	"log"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/kproc/policy"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/service/loader"
	"github.com/viant/kproc/stats"
	"github.com/viant/kproc/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Kernel.
type Option func(k *Kernel)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(k *Kernel) {
		k.config = config
	}
}

// WithLogger sets the kernel logger.
func WithLogger(logger *log.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

// WithConsole sets the writer behind fd 1.
func WithConsole(w io.Writer) Option {
	return func(k *Kernel) {
		k.console = w
	}
}

// WithFs sets the storage service for images.
func WithFs(fs afs.Service) Option {
	return func(k *Kernel) {
		k.fs = fs
	}
}

// WithAppsURL sets the image location, overriding loader.baseURL.
func WithAppsURL(URL string, options ...storage.Option) Option {
	return func(k *Kernel) {
		k.appsURL = URL
		k.storageOptions = append(k.storageOptions, options...)
	}
}

// WithRegistry sets the registry program entries are resolved from.
func WithRegistry(registry *loader.Registry) Option {
	return func(k *Kernel) {
		k.registry = registry
	}
}

// WithPolicy sets the system-call gate, overriding the configured one.
func WithPolicy(p *policy.Policy) Option {
	return func(k *Kernel) {
		k.policy = p
	}
}

// WithExitWhenIdle makes RunTasks return once nothing is left to run.
func WithExitWhenIdle(flag bool) Option {
	return func(k *Kernel) {
		k.exitWhenIdle = &flag
	}
}

// WithEventListener enables lifecycle events and delivers them to fn.
func WithEventListener(fn func(*event.Event)) Option {
	return func(k *Kernel) {
		k.eventListener = fn
	}
}

// WithStatsListener registers fn to observe every counter change.
func WithStatsListener(fn func(stats.Counters)) Option {
	return func(k *Kernel) {
		k.statsListener = fn
	}
}

// WithTracing configures OpenTelemetry with the stdout exporter. An empty
// outputFile writes to os.Stdout.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(k *Kernel) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(k *Kernel) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
