// Package persist keeps a value in memory and writes every change through a [storage.Adapter].
package persist

import (
	"sync"

	"github.com/desertthunder/cinelist/internal/storage"
)

// State holds a value of type T that survives across sessions under a fixed key.
type State[T any] struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	key     string
	value   T
	loaded  bool
}

// New reads key once. A present, parseable stored value wins over initial.
func New[T any](adapter *storage.Adapter, key string, initial T) *State[T] {
	s := &State[T]{adapter: adapter, key: key, value: initial}
	if stored, ok := storage.Read[T](adapter, key); ok {
		s.value = stored
		s.loaded = true
	}
	return s
}

// Key returns the storage key.
func (s *State[T]) Key() string { return s.key }

// Loaded reports whether the value at creation came from the store.
func (s *State[T]) Loaded() bool { return s.loaded }

// Value returns the current in-memory value.
func (s *State[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and writes it through.
func (s *State[T]) Set(next T) {
	s.Update(func(T) T { return next })
}

// Update computes the next value from the current one, stores it in memory, then writes it through.
//
// A failed write is logged by the adapter and the in-memory value is kept.
func (s *State[T]) Update(fn func(prev T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = fn(s.value)
	s.adapter.Write(s.key, s.value)
	return s.value
}

// Clear resets the in-memory value to empty and deletes the stored entry.
func (s *State[T]) Clear(empty T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = empty
	s.adapter.Clear(s.key)
}
