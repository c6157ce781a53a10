package messaging

import "errors"

var (
	// ErrQueueFull is returned by Publish when the queue has no free slot.
	ErrQueueFull = errors.New("messaging: queue is full")

	// ErrProcessed is returned when a message is acknowledged twice.
	ErrProcessed = errors.New("messaging: message already processed")
)
