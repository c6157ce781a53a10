// Command kproc boots a kernel with a handful of demo programs and runs it
// until every task has exited.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/kproc"
	"github.com/viant/kproc/runtime/task"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/service/loader"
	"github.com/viant/kproc/user"
)

//go:embed apps/*
var appsFS embed.FS

func main() {
	configURL := flag.String("config", "", "kernel config URL (yaml)")
	appsURL := flag.String("apps", "", "program images URL; built-in demo apps when empty")
	debug := flag.Bool("debug", false, "log rejected system calls and lifecycle details")
	slice := flag.Int("slice", -1, "time slice in milliseconds; 0 disables preemption")
	traceFile := flag.String("trace", "", "write spans to this file")
	events := flag.Bool("events", false, "print lifecycle events")
	flag.Parse()

	if err := run(*configURL, *appsURL, *debug, *slice, *traceFile, *events); err != nil {
		log.Fatalf("kproc: %v", err)
	}
}

func run(configURL, appsURL string, debug bool, slice int, traceFile string, events bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := kproc.DefaultConfig()
	if configURL != "" {
		var err error
		if cfg, err = kproc.LoadConfig(ctx, afs.New(), configURL); err != nil {
			return err
		}
	}
	if debug {
		cfg.Kernel.Debug = true
	}
	if slice >= 0 {
		cfg.Kernel.TimeSliceMs = slice
	}

	options := []kproc.Option{
		kproc.WithConfig(cfg),
		kproc.WithExitWhenIdle(true),
		kproc.WithRegistry(registry()),
	}
	if appsURL != "" {
		options = append(options, kproc.WithAppsURL(appsURL))
	} else {
		options = append(options, kproc.WithAppsURL("embed:///apps", &appsFS))
	}
	if traceFile != "" {
		options = append(options, kproc.WithTracing(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, traceFile))
	}
	if events {
		options = append(options, kproc.WithEventListener(func(e *event.Event) {
			log.Printf("[event] %s pid=%d parent=%d code=%d", e.Type, e.PID, e.ParentPID, e.Code)
		}))
	}

	k, err := kproc.New(options...)
	if err != nil {
		return err
	}
	defer k.Close()
	if err = k.Boot(ctx); err != nil {
		return err
	}
	counters := k.Stats()
	fmt.Printf("boot %s: dispatched=%d suspended=%d preempted=%d exited=%d spawned=%d reaped=%d\n",
		counters.BootID, counters.Dispatched, counters.Suspended, counters.Preempted,
		counters.Exited, counters.Spawned, counters.Reaped)
	return nil
}

func registry() *loader.Registry {
	ret := loader.NewRegistry()
	ret.Register("initproc", initProc)
	ret.Register("ping", bouncer("ping"))
	ret.Register("pong", bouncer("pong"))
	ret.Register("mapper", mapper)
	return ret
}

func initProc(lib *user.Lib) int32 {
	lib.Print("init: pid %d\n", lib.GetPid())
	for _, name := range []string{"ping", "pong", "mapper"} {
		if pid := lib.Spawn(name); pid < 0 {
			lib.Print("init: failed to spawn %s\n", name)
		}
	}
	for {
		var code int32
		pid := lib.Wait(&code)
		if pid == user.WaitNoChild {
			break
		}
		lib.Print("init: reaped %d with code %d\n", pid, code)
	}
	return 0
}

func bouncer(name string) user.Entry {
	return func(lib *user.Lib) int32 {
		for i := 0; i < 3; i++ {
			lib.Print("%s: round %d at %dms\n", name, i, lib.GetTime()%100000)
			lib.Yield()
		}
		var info task.Info
		if lib.TaskInfo(&info) == 0 {
			lib.Print("%s: %d yields, %d writes\n", name, info.SyscallTimes[user.SysYield], info.SyscallTimes[user.SysWrite])
		}
		return int32(lib.GetPid())
	}
}

func mapper(lib *user.Lib) int32 {
	const start = 0x10000000
	if lib.Mmap(start, 2*4096, 3) != 0 {
		return 1
	}
	if lib.Mmap(start, 4096, 1) == 0 {
		return 2
	}
	if lib.Munmap(start, 2*4096) != 0 {
		return 3
	}
	lib.Print("mapper: map/unmap ok\n")
	return 0
}
