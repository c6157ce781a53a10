// Package tracing wraps OpenTelemetry so that kernel components record spans
// for dispatch slices, syscalls and lifecycle transitions without importing
// the upstream packages directly. When no provider is installed every span
// is a no-op.
package tracing
