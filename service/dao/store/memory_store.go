package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/viant/kproc/service/dao"
)

// MemoryStore is an in-memory dao.Service whose List returns records in
// ascending key order. Keys come from keySelector.
type MemoryStore[K cmp.Ordered, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keys        []K
	keySelector func(*T) K
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[K cmp.Ordered, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// Save inserts v or replaces the record with the same key.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		at, _ := slices.BinarySearch(s.keys, key)
		s.keys = slices.Insert(s.keys, at, key)
	}
	s.records[key] = v
	return nil
}

func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	if at, found := slices.BinarySearch(s.keys, key); found {
		s.keys = slices.Delete(s.keys, at, at+1)
	}
	return nil
}

// List returns every record ordered by key. Parameters are ignored; embedding
// DAOs filter on top of Range or List.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	out := make([]*T, 0, s.Len())
	s.Range(func(_ K, v *T) bool {
		out = append(out, v)
		return true
	})
	return out, nil
}

// Range calls fn for each record in key order until fn returns false. The
// store is read-locked while fn runs.
func (s *MemoryStore[K, T]) Range(fn func(key K, v *T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.keys {
		if !fn(key, s.records[key]) {
			return
		}
	}
}

// Len returns the number of stored records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
