package kproc

import (
	"context"
	"fmt"

	"github.com/viant/kproc/runtime/fiber"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/stats"
	"github.com/viant/kproc/tracing"
)

// mustTakeCurrent empties the processor slot; being called without a
// current task is a kernel bug.
func (k *Kernel) mustTakeCurrent() *task.ControlBlock {
	ret := k.processor.TakeCurrent()
	if ret == nil {
		panic("processor: no current task")
	}
	return ret
}

// SuspendCurrentAndRunNext puts the current task back in the ready queue and
// switches to the run loop. It returns when the task is dispatched again.
func (k *Kernel) SuspendCurrentAndRunNext() {
	current := k.mustTakeCurrent()
	var cx *fiber.Context
	var parent task.PID
	current.With(func(inner *task.Inner) {
		inner.Transition(task.StatusReady)
		cx = inner.Context
		parent = inner.Parent
	})
	k.scheduler.Add(current)
	k.stats.Update(stats.Delta{Suspended: 1})
	k.publish(event.TypeSuspend, current.PID, parent, 0)
	k.processor.Schedule(cx)
}

// ExitCurrentAndRunNext turns the current task into a zombie holding code,
// hands its children to init, frees its data pages and switches to the run
// loop for good.
func (k *Kernel) ExitCurrentAndRunNext(code int32) {
	current := k.mustTakeCurrent()
	_, span := tracing.StartSpan(k.ctx, "kernel.exit", tracing.KindInternal)
	span.WithAttributes(map[string]string{"task.pid": fmt.Sprint(current.PID), "exit.code": fmt.Sprint(code)})

	isInit := current.PID == k.initPID
	var orphans []*task.ControlBlock
	var parent task.PID
	current.With(func(inner *task.Inner) {
		inner.Transition(task.StatusZombie)
		inner.ExitCode = code
		parent = inner.Parent
		if !isInit {
			orphans = inner.Children
			inner.Children = nil
		}
		if inner.Memory != nil {
			inner.Memory.RecycleDataPages()
		}
	})
	if isInit {
		k.debugf(current.PID, "init exited with code %d", code)
	} else if len(orphans) > 0 {
		k.adopt(orphans)
	}

	k.stats.Update(stats.Delta{Exited: 1})
	k.publish(event.TypeExit, current.PID, parent, code)
	tracing.EndSpan(span, nil)
	k.processor.Schedule(fiber.Unused())
}

// adopt makes init the parent of orphans, appended in order.
func (k *Kernel) adopt(orphans []*task.ControlBlock) {
	initTask, err := k.tasks.Load(k.ctx, k.initPID)
	if err != nil {
		panic(fmt.Sprintf("kernel: no init task to adopt %d orphans: %v", len(orphans), err))
	}
	for _, child := range orphans {
		child.With(func(inner *task.Inner) {
			inner.Parent = initTask.PID
		})
		k.publish(event.TypeReparent, child.PID, initTask.PID, 0)
	}
	initTask.With(func(inner *task.Inner) {
		inner.Children = append(inner.Children, orphans...)
	})
}

// Spawn creates a child of the current task from the named program and
// makes it ready.
func (k *Kernel) Spawn(name string) (task.PID, error) {
	current := k.processor.Current()
	if current == nil {
		return task.NoPID, ErrNoCurrentTask
	}
	ctx, span := tracing.StartSpan(k.ctx, "kernel.spawn", tracing.KindInternal)
	span.WithAttributes(map[string]string{"program": name, "parent.pid": fmt.Sprint(current.PID)})
	child, err := k.spawn(ctx, current, name)
	tracing.EndSpan(span, err)
	if err != nil {
		return task.NoPID, err
	}
	return child.PID, nil
}

func (k *Kernel) spawn(ctx context.Context, parent *task.ControlBlock, name string) (*task.ControlBlock, error) {
	image, err := k.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	child, err := k.newTask(image, parent.PID)
	if err != nil {
		return nil, err
	}
	parent.With(func(inner *task.Inner) {
		inner.Children = append(inner.Children, child)
	})
	k.makeReady(child)
	k.stats.Update(stats.Delta{Spawned: 1})
	k.publish(event.TypeSpawn, child.PID, parent.PID, 0)
	return child, nil
}

// WaitPid reaps an exited child of the current task. pid -1 matches any
// child. It returns ErrNoSuchChild when nothing matches and ErrChildRunning
// when every match is still alive.
func (k *Kernel) WaitPid(pid int64) (task.PID, int32, error) {
	current := k.processor.Current()
	if current == nil {
		return task.NoPID, 0, ErrNoCurrentTask
	}
	matched := false
	var zombie *task.ControlBlock
	current.With(func(inner *task.Inner) {
		for _, child := range inner.Children {
			if pid != -1 && child.PID != task.PID(pid) {
				continue
			}
			matched = true
			if child.Status() == task.StatusZombie {
				zombie = inner.RemoveChild(child.PID)
				return
			}
		}
	})
	if !matched {
		return task.NoPID, 0, ErrNoSuchChild
	}
	if zombie == nil {
		return task.NoPID, 0, ErrChildRunning
	}

	var code int32
	zombie.With(func(inner *task.Inner) {
		code = inner.ExitCode
		if inner.Memory != nil {
			inner.Memory.Release()
		}
	})
	if err := k.tasks.Delete(k.ctx, zombie.PID); err != nil {
		k.logger.Printf("[kernel] [pid %d] failed to remove reaped task: %v", zombie.PID, err)
	}
	k.stats.Update(stats.Delta{Reaped: 1})
	k.publish(event.TypeReap, zombie.PID, current.PID, code)
	return zombie.PID, code, nil
}
