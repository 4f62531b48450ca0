// Package memory implements an in-process persistence store. It backs
// development runs without Redis or Postgres (the STORE_BACKEND=memory
// escape hatch) and the application-service tests. Data does not survive
// process restarts, which makes restore behave like a first run.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

// Store is a mutex-guarded map implementing the session.Store port.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Get returns the value for key, or session.ErrStoreMiss if absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, session.ErrStoreMiss
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes a single key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = clone(value)
	return nil
}

// SetMulti writes all pairs under one lock acquisition, so readers observe
// either the whole batch or none of it.
func (s *Store) SetMulti(_ context.Context, pairs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range pairs {
		s.data[key] = clone(value)
	}
	return nil
}

// Delete removes the given keys.
func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Purge removes every key with the given prefix.
func (s *Store) Purge(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func clone(value []byte) []byte {
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
