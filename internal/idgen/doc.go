// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// It lives under `internal` because callers should treat identifiers as
// opaque strings. The kernel uses it for its boot id, which tags every
// lifecycle event of one kernel instance.
package idgen
