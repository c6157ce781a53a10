package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	N int
}

func TestExclusive_Access(t *testing.T) {
	c := New("counter", counter{})

	g := c.Access()
	g.Value().N++
	assert.True(t, c.Borrowed())
	g.Release()
	assert.False(t, c.Borrowed())

	g = c.Access()
	assert.Equal(t, 1, g.Value().N)
	g.Release()
}

func TestExclusive_DoubleAccessPanics(t *testing.T) {
	c := New("PROCESSOR", counter{})
	g := c.Access()
	defer g.Release()

	assert.PanicsWithValue(t, "[PROCESSOR] has been borrowed", func() {
		c.Access()
	})
	// the failed attempt must not disturb the live guard
	g.Value().N = 7
	assert.Equal(t, 7, g.Value().N)
}

func TestExclusive_With(t *testing.T) {
	c := New("counter", counter{})
	c.With(func(v *counter) { v.N = 3 })
	assert.False(t, c.Borrowed())

	assert.Panics(t, func() {
		c.With(func(v *counter) { panic("boom") })
	})
	assert.False(t, c.Borrowed(), "guard must be released when fn panics")

	c.With(func(v *counter) { assert.Equal(t, 3, v.N) })
}

func TestGuard_ReleaseIdempotent(t *testing.T) {
	c := New("counter", counter{})
	g := c.Access()
	g.Release()
	g.Release()
	assert.False(t, c.Borrowed())

	other := c.Access()
	g.Release()
	assert.True(t, c.Borrowed(), "stale guard must not release a newer borrow")
	other.Release()

	assert.Panics(t, func() { g.Value() })
}

func TestNew_DefaultName(t *testing.T) {
	c := New("", counter{})
	assert.Equal(t, "cell.counter", c.Name())
}
