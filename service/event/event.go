// Package event carries task lifecycle events (spawn, dispatch, suspend,
// exit, reparent, reap) from the kernel to observers. Publishing never
// blocks the kernel: a full queue drops the event.
package event

import (
	"time"
)

// Type identifies a lifecycle transition.
type Type string

const (
	TypeSpawn    Type = "spawn"
	TypeDispatch Type = "dispatch"
	TypeSuspend  Type = "suspend"
	TypeExit     Type = "exit"
	TypeReparent Type = "reparent"
	TypeReap     Type = "reap"
)

// Event describes one lifecycle transition of a task.
type Event struct {
	BootID    string    `json:"bootId" yaml:"bootId"`
	Type      Type      `json:"type" yaml:"type"`
	PID       uint64    `json:"pid" yaml:"pid"`
	ParentPID uint64    `json:"parentPid" yaml:"parentPid"`
	Code      int32     `json:"code,omitempty" yaml:"code,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewEvent creates an event stamped with createdAt.
func NewEvent(bootID string, kind Type, pid, parentPID uint64, createdAt time.Time) *Event {
	return &Event{
		BootID:    bootID,
		Type:      kind,
		PID:       pid,
		ParentPID: parentPID,
		CreatedAt: createdAt,
	}
}
