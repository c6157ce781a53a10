// Package clock is the time source of the kernel: wall time for stamps and a
// millisecond reading for elapsed-time accounting.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Millis returns the current reading in milliseconds.
func Millis() int64 { return NowFunc().UnixMilli() }

// Since returns the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
