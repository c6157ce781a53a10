package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/runtime/task"
)

func readyTask(pid task.PID, priority uint64) *task.ControlBlock {
	ret := task.New(task.Spec{PID: pid, Name: "app", Priority: priority})
	ret.With(func(inner *task.Inner) { inner.Transition(task.StatusReady) })
	return ret
}

func TestService_StrideScenario(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	a, b := readyTask(1, 2), readyTask(2, 4)
	s.Add(a)
	s.Add(b)

	first := s.Fetch()
	assert.Same(t, a, first, "equal strides break ties by insertion order")
	assert.Equal(t, DefaultBigStride/2, a.Stride())

	second := s.Fetch()
	assert.Same(t, b, second)
	assert.Equal(t, DefaultBigStride/4, b.Stride())

	assert.Nil(t, s.Fetch())
}

func TestService_FetchEmpty(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.Nil(t, s.Fetch())
	assert.Equal(t, 0, s.Len())
}

func TestService_AddThenFetchReturnsLowest(t *testing.T) {
	s, err := New(WithBigStride(100))
	require.NoError(t, err)
	a := readyTask(1, 1)
	s.Add(a)
	assert.Same(t, a, s.Fetch())
	assert.EqualValues(t, 100, a.Stride())

	b := readyTask(2, 1)
	s.Add(a)
	s.Add(b)
	assert.Equal(t, []task.PID{2, 1}, s.Snapshot())
	assert.Same(t, b, s.Fetch())
	assert.Same(t, a, s.Fetch())
}

func TestService_WeightedShare(t *testing.T) {
	s, err := New(WithBigStride(1200))
	require.NoError(t, err)
	heavy, light := readyTask(1, 3), readyTask(2, 1)
	s.Add(heavy)
	s.Add(light)

	runs := map[task.PID]int{}
	for i := 0; i < 400; i++ {
		next := s.Fetch()
		runs[next.PID]++
		s.Add(next)
	}
	assert.Equal(t, 300, runs[1])
	assert.Equal(t, 100, runs[2])
}

func TestService_FetchMatchesModel(t *testing.T) {
	s, err := New(WithBigStride(1000))
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(42))

	type queued struct {
		task *task.ControlBlock
		seq  int
	}
	var model []queued
	var idle []*task.ControlBlock
	for pid := 0; pid < 12; pid++ {
		idle = append(idle, readyTask(task.PID(pid), uint64(1+rnd.Intn(40))))
	}
	seq := 0
	for step := 0; step < 2000; step++ {
		if len(idle) > 0 && (len(model) == 0 || rnd.Intn(2) == 0) {
			idx := rnd.Intn(len(idle))
			next := idle[idx]
			idle = append(idle[:idx], idle[idx+1:]...)
			seq++
			model = append(model, queued{task: next, seq: seq})
			s.Add(next)
			continue
		}
		best := 0
		for i := 1; i < len(model); i++ {
			si, sb := model[i].task.Stride(), model[best].task.Stride()
			if Before(si, sb) || (si == sb && model[i].seq < model[best].seq) {
				best = i
			}
		}
		expect := model[best]
		stride := expect.task.Stride()
		model = append(model[:best], model[best+1:]...)

		actual := s.Fetch()
		require.Same(t, expect.task, actual, "step %d", step)
		require.Equal(t, stride+1000/actual.Priority(), actual.Stride())
		require.Equal(t, len(model), s.Len())
		idle = append(idle, actual)
	}
}

func TestService_StrideWraparound(t *testing.T) {
	s, err := New(WithBigStride(100))
	require.NoError(t, err)
	near := readyTask(1, 1)
	near.With(func(inner *task.Inner) { inner.Stride = ^uint64(0) - 10 })
	wrapped := readyTask(2, 1)
	wrapped.With(func(inner *task.Inner) { inner.Stride = 5 })

	s.Add(wrapped)
	s.Add(near)
	assert.Same(t, near, s.Fetch(), "a stride just below 2^64 precedes one that wrapped")
	assert.EqualValues(t, 89, near.Stride())
	s.Add(near)
	assert.Same(t, wrapped, s.Fetch())
}

func TestService_AddRequiresReady(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.PanicsWithValue(t, "scheduler: add pid 7 with status uninit", func() {
		s.Add(task.New(task.Spec{PID: 7, Name: "app"}))
	})
}

func TestService_AddWhileGuardHeldPanics(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	a := readyTask(1, 1)
	g := a.Access()
	defer g.Release()
	assert.Panics(t, func() { s.Add(a) })
}

func TestNew_InvalidBigStride(t *testing.T) {
	_, err := New(WithBigStride(0))
	assert.Error(t, err)
	_, err = New(WithBigStride(MaxBigStride + 1))
	assert.Error(t, err)
}

func TestBefore(t *testing.T) {
	assert.True(t, Before(1, 2))
	assert.False(t, Before(2, 1))
	assert.False(t, Before(3, 3))
	assert.True(t, Before(^uint64(0), 0))
}
