package fiber

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSwitch_PingPong(t *testing.T) {
	idle := ZeroInit()
	var trace []string
	var worker *Context
	worker = New(func() {
		for i := 0; i < 3; i++ {
			trace = append(trace, "worker")
			Switch(worker, idle)
		}
		trace = append(trace, "worker-exit")
		Switch(Unused(), idle)
	})

	assert.False(t, worker.Started())
	for i := 0; i < 4; i++ {
		trace = append(trace, "idle")
		Switch(idle, worker)
	}
	assert.True(t, worker.Started())
	assert.Equal(t, []string{"idle", "worker", "idle", "worker", "idle", "worker", "idle", "worker-exit"}, trace)
}

func TestSwitch_TwoWorkers(t *testing.T) {
	idle := ZeroInit()
	var order []int
	var a, b *Context
	a = New(func() {
		order = append(order, 1)
		Switch(a, b)
		order = append(order, 3)
		Switch(Unused(), idle)
	})
	b = New(func() {
		order = append(order, 2)
		Switch(b, a)
		panic("b must not be resumed")
	})

	done := make(chan struct{})
	go func() {
		Switch(idle, a)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("switch chain did not return to idle")
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestSwitch_Invalid(t *testing.T) {
	idle := ZeroInit()
	assert.Panics(t, func() { Switch(idle, Unused()) })
	assert.Panics(t, func() { Switch(idle, idle) })
	assert.Panics(t, func() { Switch(idle, nil) })
}

func TestSwitch_UnusedSkipsDefers(t *testing.T) {
	idle := ZeroInit()
	var deferred atomic.Bool
	var worker *Context
	worker = New(func() {
		defer deferred.Store(true)
		Switch(Unused(), idle)
	})
	Switch(idle, worker)
	assert.True(t, worker.Started())
	assert.Never(t, deferred.Load, 100*time.Millisecond, 5*time.Millisecond)
}
