package kproc

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/kproc/policy"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/mm"
	"github.com/viant/kproc/service/scheduler"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the kernel configuration.
type Config struct {
	Kernel  KernelConfig   `json:"kernel" yaml:"kernel"`
	Memory  MemoryConfig   `json:"memory" yaml:"memory"`
	Loader  LoaderConfig   `json:"loader" yaml:"loader"`
	Events  EventsConfig   `json:"events" yaml:"events"`
	Policy  *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	Tracing TracingConfig  `json:"tracing" yaml:"tracing"`
}

type KernelConfig struct {
	BigStride       uint64 `json:"bigStride" yaml:"bigStride"`
	DefaultPriority uint64 `json:"defaultPriority" yaml:"defaultPriority"`
	InitProc        string `json:"initProc" yaml:"initProc"`
	// TimeSliceMs preempts a task at its next trap once it has run this
	// long; zero disables preemption.
	TimeSliceMs  int  `json:"timeSliceMs" yaml:"timeSliceMs"`
	ExitWhenIdle bool `json:"exitWhenIdle" yaml:"exitWhenIdle"`
	Debug        bool `json:"debug" yaml:"debug"`
}

type MemoryConfig struct {
	PageSize       int `json:"pageSize" yaml:"pageSize"`
	FrameLimit     int `json:"frameLimit" yaml:"frameLimit"`
	UserStackPages int `json:"userStackPages" yaml:"userStackPages"`
}

type LoaderConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

type EventsConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Vendor      string `json:"vendor" yaml:"vendor"`
	QueueBuffer int    `json:"queueBuffer" yaml:"queueBuffer"`
	// BaseURL is the journal location used by the fs vendor.
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the kernel defaults.
func DefaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			BigStride:       scheduler.DefaultBigStride,
			DefaultPriority: task.DefaultPriority,
			InitProc:        "initproc",
		},
		Memory: MemoryConfig{
			PageSize:       mm.PageSize,
			FrameLimit:     4096,
			UserStackPages: mm.UserStackSize / mm.PageSize,
		},
		Loader: LoaderConfig{
			BaseURL: "file://localhost/opt/kproc/apps",
		},
		Events: EventsConfig{
			Vendor:      string(messaging.VendorMemory),
			QueueBuffer: 256,
		},
		Tracing: TracingConfig{
			ServiceName:    "kproc",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Kernel.BigStride == 0 || c.Kernel.BigStride > scheduler.MaxBigStride {
		errs = append(errs, fmt.Errorf("kernel.bigStride must be in [1, %d]", uint64(scheduler.MaxBigStride)))
	}
	if c.Kernel.DefaultPriority < 1 {
		errs = append(errs, fmt.Errorf("kernel.defaultPriority must be >= 1"))
	}
	if c.Kernel.InitProc == "" {
		errs = append(errs, fmt.Errorf("kernel.initProc is required"))
	}
	if c.Kernel.TimeSliceMs < 0 {
		errs = append(errs, fmt.Errorf("kernel.timeSliceMs must be >= 0"))
	}
	if c.Memory.PageSize != mm.PageSize {
		errs = append(errs, fmt.Errorf("memory.pageSize must be %d", mm.PageSize))
	}
	if c.Memory.FrameLimit <= 0 {
		errs = append(errs, fmt.Errorf("memory.frameLimit must be > 0"))
	}
	if c.Memory.UserStackPages <= 0 {
		errs = append(errs, fmt.Errorf("memory.userStackPages must be > 0"))
	}
	switch messaging.Vendor(c.Events.Vendor) {
	case messaging.VendorMemory, "":
	case messaging.VendorFs:
		if c.Events.Enabled && c.Events.BaseURL == "" {
			errs = append(errs, fmt.Errorf("events.baseURL is required for the fs vendor"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.vendor %q is not supported", c.Events.Vendor))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadConfig reads YAML at URL through fs and merges it onto DefaultConfig.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
