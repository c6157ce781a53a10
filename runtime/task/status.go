package task

import "fmt"

// Status is the scheduling state of a task.
type Status uint8

const (
	StatusUnInit Status = iota
	StatusReady
	StatusRunning
	StatusZombie
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusUnInit:
		return "uninit"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to next is a legal edge of
// UnInit -> Ready -> Running -> {Ready, Zombie}.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusUnInit:
		return next == StatusReady
	case StatusReady:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusReady || next == StatusZombie
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus is the inverse of String.
func ParseStatus(text string) (Status, error) {
	for _, candidate := range []Status{StatusUnInit, StatusReady, StatusRunning, StatusZombie} {
		if candidate.String() == text {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("unknown task status %q", text)
}
