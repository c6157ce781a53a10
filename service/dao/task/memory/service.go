// Package memory provides the in-memory task table.
package memory

import (
	"context"

	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/dao/criteria"
	"github.com/viant/kproc/service/dao/store"
)

// Service maps pids to control blocks. The table holds one of the several
// strong references a task may have; removing a task here does not end it.
type Service struct {
	*store.MemoryStore[task.PID, task.ControlBlock]
}

var _ dao.Service[task.PID, task.ControlBlock] = (*Service)(nil)

// New creates an empty task table.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[task.PID, task.ControlBlock](func(t *task.ControlBlock) task.PID {
		return t.PID
	})}
}

// Save registers t under its pid.
func (s *Service) Save(ctx context.Context, t *task.ControlBlock) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.PID == task.NoPID {
		return dao.ErrInvalidID
	}
	return s.MemoryStore.Save(ctx, t)
}

// List returns tasks ordered by pid, optionally filtered with a Status
// parameter. Each matched task's inner cell is briefly borrowed, so callers
// must not hold any task guard.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*task.ControlBlock, error) {
	var out []*task.ControlBlock
	s.Range(func(_ task.PID, t *task.ControlBlock) bool {
		if len(parameters) == 0 || criteria.FilterByStatus(t.Status().String(), parameters) {
			out = append(out, t)
		}
		return true
	})
	return out, nil
}
