package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/messaging/fs"
	"github.com/viant/kproc/service/messaging/memory"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(e *Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, *e)
}

func (c *collector) types() []Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ret []Type
	for _, e := range c.events {
		ret = append(ret, e.Type)
	}
	return ret
}

func TestService(t *testing.T) {
	testCases := []struct {
		name    string
		vendor  messaging.Vendor
		options func(t *testing.T) []Option
	}{
		{name: "memory", vendor: messaging.VendorMemory},
		{name: "fs", vendor: messaging.VendorFs, options: func(t *testing.T) []Option {
			return []Option{WithFsConfig(fs.QueueConfig{BaseURL: t.TempDir()})}
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var options []Option
			if tc.options != nil {
				options = tc.options(t)
			}
			srv, err := New(tc.vendor, options...)
			require.NoError(t, err)
			defer srv.Close()

			ctx := context.Background()
			now := time.Now()
			for _, kind := range []Type{TypeSpawn, TypeDispatch, TypeExit} {
				require.NoError(t, srv.Publish(ctx, NewEvent("boot", kind, 2, 1, now)))
			}

			c := &collector{}
			srv.SetListener(c.handle)
			assert.Eventually(t, func() bool { return len(c.types()) == 3 }, 2*time.Second, 5*time.Millisecond)
			assert.Equal(t, []Type{TypeSpawn, TypeDispatch, TypeExit}, c.types())
		})
	}
}

func TestService_MemoryFull(t *testing.T) {
	srv, err := New(messaging.VendorMemory, WithMemoryConfig(memory.Config{QueueBuffer: 1}))
	require.NoError(t, err)
	ctx := context.Background()
	assert.NoError(t, srv.Publish(ctx, NewEvent("boot", TypeSpawn, 1, 0, time.Now())))
	assert.ErrorIs(t, srv.Publish(ctx, NewEvent("boot", TypeExit, 1, 0, time.Now())), messaging.ErrQueueFull)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
	_, err = New(messaging.VendorFs)
	assert.Error(t, err)
}

func TestListener_StopIdempotent(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	l := NewListener(srv.Publisher(), func(*Event) {})
	l.Start()
	l.Start()
	l.Stop()
	l.Stop()
}
