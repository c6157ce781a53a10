// Package messaging defines the queue abstraction lifecycle events travel
// through. Implementations live in sub-packages: memory for a bounded
// in-process channel and fs for a durable journal on any afs storage.
package messaging

import (
	"context"
)

// Vendor represents the name of a queue implementation.
type Vendor string

const (
	VendorMemory Vendor = "memory"
	VendorFs     Vendor = "fs"
)

// Queue represents an abstract message queue for any payload type.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue. Implementations
	// used by the kernel must not block; a full queue returns ErrQueueFull.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue.
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
