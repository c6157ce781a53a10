// Package stats keeps aggregated scheduling counters for one kernel
// instance (dispatches, suspensions, exits, ...). Components update it with
// a Delta; readers take a Snapshot. It is safe for concurrent use so that
// observers outside the kernel executor can read it.
package stats
