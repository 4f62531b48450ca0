package session

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE PORT
// ══════════════════════════════════════════════════════════════════════════════

// ErrStoreMiss is returned by Store.Get when the key is absent. An empty
// store is a normal condition (first run, post-logout), not a failure.
var ErrStoreMiss = errors.New("store: key not found")

// Persisted key names. These mirror the snapshot layout the display layer
// has always used, so a snapshot written by one backend restores from another.
const (
	// KeyUser holds the sealed identity + credentials snapshot.
	KeyUser = "user"

	// KeyAttendance, KeyResults and KeyTimetable hold the resource snapshots.
	KeyAttendance = "attendance"
	KeyResults    = "results"
	KeyTimetable  = "timetable"

	// PrefixNotification prefixes per-bulletin read markers:
	// notification_<date>_<title> = "read".
	PrefixNotification = "notification_"
)

// ResourceKey maps a resource kind to its persisted key.
func ResourceKey(kind ResourceKind) string {
	return string(kind)
}

// SessionKeys lists every key that belongs to the session snapshot.
func SessionKeys() []string {
	return []string{KeyUser, KeyAttendance, KeyResults, KeyTimetable}
}

// Store is the durable key-value persistence port. Implementations live in
// internal/infrastructure/persistence; the session manager is the only
// component that writes session keys through it.
type Store interface {
	// Get returns the value for key, or ErrStoreMiss if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes a single key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMulti writes all pairs atomically: either every key becomes
	// visible or none does. Restore must never observe a partial snapshot.
	SetMulti(ctx context.Context, pairs map[string][]byte) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Purge removes every key with the given prefix. An empty prefix
	// clears the whole store.
	Purge(ctx context.Context, prefix string) error
}
