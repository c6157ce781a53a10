package task

import "errors"

var (
	// ErrNoSuchChild is returned by a wait when the caller has no child
	// matching the requested pid.
	ErrNoSuchChild = errors.New("task: no such child")

	// ErrChildRunning is returned by a wait when the matching child has not
	// exited yet.
	ErrChildRunning = errors.New("task: child still running")
)
