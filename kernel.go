package kproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/internal/idgen"
	"github.com/viant/kproc/policy"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/runtime/trap"
	"github.com/viant/kproc/service/dao"
	tmemory "github.com/viant/kproc/service/dao/task/memory"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/service/loader"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/messaging/fs"
	mmemory "github.com/viant/kproc/service/messaging/memory"
	"github.com/viant/kproc/service/mm"
	"github.com/viant/kproc/service/processor"
	"github.com/viant/kproc/service/scheduler"
	"github.com/viant/kproc/service/syscall"
	"github.com/viant/kproc/stats"
	"github.com/viant/kproc/tracing"
	"github.com/viant/kproc/user"
)

const (
	// firstFrame is the first physical page handed to user address spaces.
	firstFrame mm.PhysPageNum = 0x80400
	// kernelToken stands in for the kernel page-table token.
	kernelToken = 8<<60 | 0x80200
	// trapHandlerAddr stands in for the trap entry in the trampoline.
	trapHandlerAddr = 0x80200000
)

// Kernel is one instance of the process core.
type Kernel struct {
	config         *Config
	logger         *log.Logger
	console        io.Writer
	bootID         string
	fs             afs.Service
	appsURL        string
	storageOptions []storage.Option
	registry       *loader.Registry
	policy         *policy.Policy
	exitWhenIdle   *bool
	eventListener  func(*event.Event)
	statsListener  func(stats.Counters)

	ctx       context.Context
	frames    *mm.FrameAllocator
	pids      *task.PidAllocator
	tasks     dao.Service[task.PID, task.ControlBlock]
	scheduler *scheduler.Service
	processor *processor.Service
	loader    *loader.Service
	syscalls  *syscall.Dispatcher
	events    *event.Service
	stats     *stats.Tracker
	initPID   task.PID
}

// New creates a kernel. No task exists until AddInitProc or AddTask.
func New(options ...Option) (*Kernel, error) {
	k := &Kernel{
		config:  DefaultConfig(),
		bootID:  idgen.New(),
		ctx:     context.Background(),
		initPID: task.NoPID,
	}
	for _, opt := range options {
		opt(k)
	}
	if err := k.init(); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *Kernel) init() error {
	cfg := k.config
	if k.exitWhenIdle != nil {
		cfg.Kernel.ExitWhenIdle = *k.exitWhenIdle
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if k.logger == nil {
		k.logger = log.Default()
	}
	if k.console == nil {
		k.console = os.Stdout
	}
	if k.fs == nil {
		k.fs = afs.New()
	}
	if k.appsURL == "" {
		k.appsURL = cfg.Loader.BaseURL
	}
	if k.policy == nil {
		k.policy = policy.FromConfig(cfg.Policy)
	}
	if cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}

	k.stats = stats.New(k.bootID, clock.Now())
	if k.statsListener != nil {
		k.stats.OnChange(k.statsListener)
	}
	k.frames = mm.NewFrameAllocator(firstFrame, cfg.Memory.FrameLimit)
	k.pids = task.NewPidAllocator(0)
	k.tasks = tmemory.New()

	var err error
	if k.scheduler, err = scheduler.New(scheduler.WithBigStride(cfg.Kernel.BigStride)); err != nil {
		return err
	}
	if k.processor, err = processor.New(
		processor.WithScheduler(k.scheduler),
		processor.WithExitWhenIdle(cfg.Kernel.ExitWhenIdle),
		processor.WithStats(k.stats),
		processor.WithDispatchListener(k.onDispatch),
	); err != nil {
		return err
	}
	loaderOptions := []loader.Option{loader.WithFs(k.fs), loader.WithStorageOptions(k.storageOptions...)}
	if k.registry != nil {
		loaderOptions = append(loaderOptions, loader.WithRegistry(k.registry))
	}
	k.loader = loader.New(k.appsURL, loaderOptions...)
	k.syscalls = syscall.New(k,
		syscall.WithConsole(k.console),
		syscall.WithPolicy(k.policy),
		syscall.WithLogger(k.logger),
		syscall.WithDebug(cfg.Kernel.Debug),
	)
	if cfg.Events.Enabled || k.eventListener != nil {
		if err = k.initEvents(); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kernel) initEvents() error {
	cfg := k.config.Events
	var err error
	switch messaging.Vendor(cfg.Vendor) {
	case messaging.VendorFs:
		k.events, err = event.New(messaging.VendorFs, event.WithFs(k.fs), event.WithFsConfig(fs.QueueConfig{BaseURL: cfg.BaseURL}))
	default:
		memoryConfig := mmemory.DefaultConfig()
		if cfg.QueueBuffer > 0 {
			memoryConfig.QueueBuffer = cfg.QueueBuffer
		}
		k.events, err = event.New(messaging.VendorMemory, event.WithMemoryConfig(memoryConfig))
	}
	if err != nil {
		return fmt.Errorf("failed to create event service: %w", err)
	}
	if k.eventListener != nil {
		k.events.SetListener(k.eventListener)
	}
	return nil
}

// BootID identifies this kernel instance in events and stats.
func (k *Kernel) BootID() string {
	return k.bootID
}

// Config returns the effective configuration.
func (k *Kernel) Config() *Config {
	return k.config
}

// Stats returns a snapshot of the scheduling counters.
func (k *Kernel) Stats() stats.Counters {
	return k.stats.Snapshot()
}

// Apps lists the program images available to spawn.
func (k *Kernel) Apps(ctx context.Context) ([]string, error) {
	return k.loader.Apps(ctx)
}

// InitPID returns the pid of the init task, or task.NoPID before AddInitProc.
func (k *Kernel) InitPID() task.PID {
	return k.initPID
}

// AddInitProc loads the configured init program and makes it ready. It must
// run before the first task exits with children.
func (k *Kernel) AddInitProc(ctx context.Context) (*task.ControlBlock, error) {
	if k.initPID != task.NoPID {
		return nil, fmt.Errorf("init task already created with pid %d", k.initPID)
	}
	image, err := k.loader.Load(ctx, k.config.Kernel.InitProc)
	if err != nil {
		return nil, fmt.Errorf("failed to load init program: %w", err)
	}
	initTask, err := k.newTask(image, task.NoPID)
	if err != nil {
		return nil, err
	}
	k.initPID = initTask.PID
	k.makeReady(initTask)
	k.publish(event.TypeSpawn, initTask.PID, task.NoPID, 0)
	return initTask, nil
}

// Boot creates the init task and runs the scheduling loop.
func (k *Kernel) Boot(ctx context.Context) error {
	if _, err := k.AddInitProc(ctx); err != nil {
		return err
	}
	return k.RunTasks(ctx)
}

// RunTasks runs the scheduling loop on the calling goroutine. After ctx is
// done, Ready tasks keep their parked goroutines and resume on the next
// RunTasks; a kernel dropped in that state leaks them.
func (k *Kernel) RunTasks(ctx context.Context) error {
	k.ctx = ctx
	return k.processor.Run(ctx)
}

// AddTask makes a Ready task schedulable.
func (k *Kernel) AddTask(t *task.ControlBlock) {
	k.scheduler.Add(t)
}

// FetchTask pops the next task to run, or nil.
func (k *Kernel) FetchTask() *task.ControlBlock {
	return k.scheduler.Fetch()
}

// Task resolves pid through the task table.
func (k *Kernel) Task(pid task.PID) (*task.ControlBlock, error) {
	return k.tasks.Load(k.ctx, pid)
}

// Tasks lists known tasks ordered by pid, optionally filtered by status.
func (k *Kernel) Tasks(ctx context.Context, statuses ...task.Status) ([]*task.ControlBlock, error) {
	var parameters []*dao.Parameter
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, status := range statuses {
			names = append(names, status.String())
		}
		parameters = append(parameters, dao.NewParameter("Status", names...))
	}
	return k.tasks.List(ctx, parameters...)
}

// Close stops the event listener.
func (k *Kernel) Close() {
	if k.events != nil {
		k.events.Close()
	}
}

// newTask builds an UnInit task from image and registers it in the table.
func (k *Kernel) newTask(image *loader.Image, parent task.PID) (*task.ControlBlock, error) {
	memory, userSp, err := mm.FromImage(k.frames, image.MemorySegments(), k.config.Memory.UserStackPages)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", image.Name, err)
	}
	pid := k.pids.Alloc()
	var entry uint64
	if len(image.Segments) > 0 {
		entry = image.Segments[0].Start
	}
	priority := image.Priority
	if priority == 0 {
		priority = k.config.Kernel.DefaultPriority
	}
	program := image.Program
	var ret *task.ControlBlock
	ret = task.New(task.Spec{
		PID:         pid,
		Name:        image.Name,
		Parent:      parent,
		Memory:      memory,
		TrapContext: trap.AppInitContext(entry, userSp, kernelToken, task.NewKernelStack(pid).Top, trapHandlerAddr),
		Priority:    priority,
		Entry:       func() { k.runProgram(program) },
	})
	if err = k.tasks.Save(k.ctx, ret); err != nil {
		memory.Release()
		return nil, err
	}
	return ret, nil
}

// makeReady moves an UnInit task to Ready and enqueues it.
func (k *Kernel) makeReady(t *task.ControlBlock) {
	t.With(func(inner *task.Inner) {
		inner.Transition(task.StatusReady)
	})
	k.scheduler.Add(t)
}

// runProgram is the body of every task fiber.
func (k *Kernel) runProgram(program user.Entry) {
	lib := user.New(k)
	lib.Exit(program(lib))
}

// Trap is the system-call entry used by user.Lib. It runs on the calling
// task's fiber; the task may be preempted before the result is returned.
func (k *Kernel) Trap(id uint64, args [3]uint64, buffer any) int64 {
	cx := k.CurrentTrapContext()
	if cx == nil {
		panic("processor: no current task")
	}
	cx.SetSyscall(id, args, buffer)
	id, args = cx.Syscall()
	result := k.syscalls.Dispatch(id, args, cx.Buffer)
	cx.Return(result)
	k.preempt()
	return cx.Result()
}

func (k *Kernel) preempt() {
	slice := k.config.Kernel.TimeSliceMs
	if slice <= 0 || k.processor.SliceElapsed().Milliseconds() < int64(slice) {
		return
	}
	k.stats.Update(stats.Delta{Preempted: 1})
	k.SuspendCurrentAndRunNext()
}

func (k *Kernel) onDispatch(t *task.ControlBlock) {
	if k.events == nil {
		return
	}
	var parent task.PID
	t.With(func(inner *task.Inner) { parent = inner.Parent })
	k.publish(event.TypeDispatch, t.PID, parent, 0)
}

func (k *Kernel) publish(kind event.Type, pid, parent task.PID, code int32) {
	if k.events == nil {
		return
	}
	e := event.NewEvent(k.bootID, kind, uint64(pid), uint64(parent), clock.Now())
	e.Code = code
	if err := k.events.Publish(k.ctx, e); err != nil {
		if errors.Is(err, messaging.ErrQueueFull) {
			k.debugf(pid, "event %s dropped: %v", kind, err)
			return
		}
		k.logger.Printf("[kernel] [pid %d] failed to publish %s event: %v", pid, kind, err)
	}
}

func (k *Kernel) debugf(pid task.PID, format string, args ...any) {
	if !k.config.Kernel.Debug {
		return
	}
	k.logger.Printf("[kernel] [pid %d] "+format, append([]any{pid}, args...)...)
}
