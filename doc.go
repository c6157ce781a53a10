// Package kproc is the process scheduling and lifecycle core of a
// single-core teaching kernel, hosted as a Go library.
//
// A Kernel owns one active processor, a stride scheduler, a task table and
// an init task that adopts orphans. Programs are Go functions registered
// with the loader and described by YAML images; each runs as a task whose
// execution context is a fiber, so exactly one task executes at a time and
// control changes hands only inside the kernel.
//
//	registry := loader.NewRegistry()
//	registry.Register("initproc", func(lib *user.Lib) int32 {
//		lib.Print("hello from pid %d\n", lib.GetPid())
//		return 0
//	})
//	k, _ := kproc.New(kproc.WithRegistry(registry), kproc.WithExitWhenIdle(true))
//	err := k.Boot(ctx)
package kproc
