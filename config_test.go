package kproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/kproc/policy"
	"github.com/viant/kproc/service/loader"
	"github.com/viant/kproc/user"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), afs.New(), "embed:///testdata/config.yaml", &testFS)
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), cfg.Kernel.BigStride)
	assert.Equal(t, uint64(4), cfg.Kernel.DefaultPriority)
	assert.Equal(t, "shell", cfg.Kernel.InitProc)
	assert.Equal(t, 10, cfg.Kernel.TimeSliceMs)
	assert.True(t, cfg.Kernel.ExitWhenIdle)
	assert.True(t, cfg.Kernel.Debug)
	assert.Equal(t, 128, cfg.Memory.FrameLimit)
	assert.Equal(t, DefaultConfig().Memory.UserStackPages, cfg.Memory.UserStackPages)
	assert.Equal(t, "embed:///testdata/apps", cfg.Loader.BaseURL)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "memory", cfg.Events.Vendor)
	assert.Equal(t, 16, cfg.Events.QueueBuffer)
	require.NotNil(t, cfg.Policy)
	assert.Equal(t, []string{"spawn"}, cfg.Policy.BlockList)
	assert.Equal(t, "kproc-test", cfg.Tracing.ServiceName)
	assert.Equal(t, "0.1.0", cfg.Tracing.ServiceVersion)
	assert.False(t, cfg.Tracing.Enabled)

	_, err = LoadConfig(context.Background(), afs.New(), "embed:///testdata/missing.yaml", &testFS)
	assert.Error(t, err)
}

func TestKernel_WithLoadedConfig(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), afs.New(), "embed:///testdata/config.yaml", &testFS)
	require.NoError(t, err)

	f := newFixture(t, nil, WithConfig(cfg))
	assert.ErrorIs(t, f.kernel.Boot(context.Background()), loader.ErrImageNotFound)

	cfg, err = LoadConfig(context.Background(), afs.New(), "embed:///testdata/config.yaml", &testFS)
	require.NoError(t, err)
	cfg.Kernel.InitProc = "initproc"
	var spawned int64
	var priority uint64
	f = newFixture(t, map[string]user.Entry{
		"initproc": func(lib *user.Lib) int32 {
			spawned = lib.Spawn("b")
			pid, _ := f.kernel.CurrentPID()
			self, _ := f.kernel.Task(pid)
			priority = self.Priority()
			return 0
		},
	}, WithConfig(cfg))
	require.NoError(t, f.kernel.Boot(context.Background()))
	assert.Equal(t, int64(-1), spawned)
	assert.Equal(t, uint64(4), priority)
	assert.Equal(t, uint64(1200), f.kernel.scheduler.BigStride())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   string
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "zero big stride", mutate: func(c *Config) { c.Kernel.BigStride = 0 }, expectErr: "kernel.bigStride"},
		{description: "big stride overflow", mutate: func(c *Config) { c.Kernel.BigStride = 1<<62 + 1 }, expectErr: "kernel.bigStride"},
		{description: "zero priority", mutate: func(c *Config) { c.Kernel.DefaultPriority = 0 }, expectErr: "kernel.defaultPriority"},
		{description: "no init", mutate: func(c *Config) { c.Kernel.InitProc = "" }, expectErr: "kernel.initProc"},
		{description: "negative slice", mutate: func(c *Config) { c.Kernel.TimeSliceMs = -1 }, expectErr: "kernel.timeSliceMs"},
		{description: "page size", mutate: func(c *Config) { c.Memory.PageSize = 8192 }, expectErr: "memory.pageSize"},
		{description: "no frames", mutate: func(c *Config) { c.Memory.FrameLimit = 0 }, expectErr: "memory.frameLimit"},
		{description: "no stack", mutate: func(c *Config) { c.Memory.UserStackPages = 0 }, expectErr: "memory.userStackPages"},
		{description: "fs vendor without url", mutate: func(c *Config) {
			c.Events.Enabled = true
			c.Events.Vendor = "fs"
		}, expectErr: "events.baseURL"},
		{description: "unknown vendor", mutate: func(c *Config) { c.Events.Vendor = "kafka" }, expectErr: "events.vendor"},
		{description: "unknown policy mode", mutate: func(c *Config) { c.Policy = &policy.Config{Mode: "maybe"} }, expectErr: "unsupported mode"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kernel.DefaultPriority = 0
	_, err := New(WithConfig(cfg))
	assert.Error(t, err)
}
