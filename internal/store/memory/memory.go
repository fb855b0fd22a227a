package memory

import (
	"context"
	"sync"

	"github.com/silahub/site/internal/store"
)

// Store keeps slots in process memory. It backs development runs and tests;
// data does not survive a restart.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ store.Store = (*Store)(nil)

// New creates an empty memory store.
func New() *Store {
	return &Store{
		slots: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Update applies fn while holding the write lock.
func (s *Store) Update(_ context.Context, key string, fn store.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.slots[key]
	next, write, err := fn(clone(current), found)
	if err != nil {
		return err
	}
	switch {
	case !write:
	case next == nil:
		delete(s.slots, key)
	default:
		s.slots[key] = clone(next)
	}
	return nil
}

// Set overwrites key. Used to prepare fixtures.
func (s *Store) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = clone(value)
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Backend returns "memory".
func (s *Store) Backend() string { return "memory" }

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.slots)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
