package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverride(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	prev := NowFunc
	NowFunc = func() time.Time { return fixed }
	defer func() { NowFunc = prev }()

	assert.Equal(t, fixed, Now())
	assert.Equal(t, fixed.UnixMilli(), Millis())
	assert.Equal(t, 2*time.Second, Since(fixed.Add(-2*time.Second)))
}
