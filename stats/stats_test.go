package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounters_Update(t *testing.T) {
	c := New("boot", time.Unix(0, 0))
	var seen []Counters
	c.OnChange(func(s Counters) { seen = append(seen, s) })

	c.Update(Delta{Dispatched: 2, Idle: 1})
	c.Update(Delta{Exited: 1, Dispatched: -1})

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Dispatched)
	assert.Equal(t, 1, snap.Exited)
	assert.Equal(t, 1, snap.Idle)
	assert.Equal(t, "boot", snap.BootID)
	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[0].Dispatched)

	c.OnChange(nil)
	c.Update(Delta{Spawned: 1})
	assert.Len(t, seen, 2)
}

func TestCounters_Concurrent(t *testing.T) {
	c := New("boot", time.Now())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Update(Delta{Dispatched: 1})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, c.Snapshot().Dispatched)
}

func TestCounters_Nil(t *testing.T) {
	var c *Tracker
	c.Update(Delta{Dispatched: 1})
	c.OnChange(func(Counters) {})
	assert.Equal(t, Counters{}, c.Snapshot())
}
