package redis

import (
	"context"
	"errors"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

// Store implements the session.Store port using the generic Redis Cache.
type Store struct {
	cache *Cache
}

// NewStore creates a new Store.
func NewStore(cache *Cache) *Store {
	return &Store{
		cache: cache,
	}
}

// Get returns the value for key, translating a cache miss to the port's
// sentinel so callers never depend on this package's errors.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, session.ErrStoreMiss
		}
		return nil, err
	}
	return data, nil
}

// Set writes a single key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.SetBytes(ctx, key, value)
}

// SetMulti writes all pairs atomically via MULTI/EXEC, so a restore racing
// with a login observes either the whole snapshot or none of it.
func (s *Store) SetMulti(ctx context.Context, pairs map[string][]byte) error {
	return s.cache.SetBytesMulti(ctx, pairs)
}

// Delete removes the given keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return s.cache.Delete(ctx, keys...)
}

// Purge removes every key with the given prefix.
func (s *Store) Purge(ctx context.Context, prefix string) error {
	return s.cache.DeleteByPattern(ctx, prefix+"*")
}
