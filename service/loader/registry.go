package loader

import (
	"sync"

	"github.com/viant/kproc/user"
)

// Registry maps entry names to program code.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]user.Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]user.Entry{}}
}

// Register binds name to entry, replacing any previous binding.
func (r *Registry) Register(name string, entry user.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry
}

// Lookup returns the entry bound to name.
func (r *Registry) Lookup(name string) (user.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret, ok := r.entries[name]
	return ret, ok
}

var defaultRegistry = NewRegistry()

// Register binds name in the process-wide registry.
func Register(name string, entry user.Entry) {
	defaultRegistry.Register(name, entry)
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
