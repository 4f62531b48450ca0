// Package sessionmgr implements the session manager: the single authoritative
// owner of authentication and academic-resource state. It coordinates the
// portal calls, mirrors snapshots into the persistence store, and publishes
// change events for consumers.
package sessionmgr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/campus"
	"github.com/campus-hub/campus-student-hub/pkg/secrets"
)

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// ══════════════════════════════════════════════════════════════════════════════

// CampusAPI is the slice of the portal client the manager depends on.
type CampusAPI interface {
	Login(ctx context.Context, creds session.Credentials) error
	FetchResource(ctx context.Context, kind session.ResourceKind, creds session.Credentials) (json.RawMessage, error)
}

// EventBus is the publish side of the change-notification bus.
type EventBus interface {
	Publish(event shared.Event) error
}

// ══════════════════════════════════════════════════════════════════════════════
// MANAGER
// ══════════════════════════════════════════════════════════════════════════════

// Config wires the manager's collaborators.
type Config struct {
	API    CampusAPI
	Store  session.Store
	Bus    EventBus
	Box    *secrets.Box // optional; seals the "user" key at rest
	Logger *slog.Logger
}

// Manager owns the Session aggregate. All mutation goes through its
// operations; consumers only ever see clones.
type Manager struct {
	mu     sync.RWMutex
	sess   *session.Session
	api    CampusAPI
	store  session.Store
	bus    EventBus
	box    *secrets.Box
	logger *slog.Logger
}

// New creates a Manager with an empty session.
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		sess:   session.New(),
		api:    cfg.API,
		store:  cfg.Store,
		bus:    cfg.Bus,
		box:    cfg.Box,
		logger: cfg.Logger,
	}
}

// Snapshot returns a read-only deep copy of the current session.
func (m *Manager) Snapshot() *session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess.Clone()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESTORE
// ══════════════════════════════════════════════════════════════════════════════

// userSnapshot is the persisted form of the "user" key.
type userSnapshot struct {
	Identity    session.Identity    `json:"identity"`
	Credentials session.Credentials `json:"credentials"`
}

// Restore rehydrates the session from the persistence store without touching
// the network. An empty store is a normal first run: the session stays
// LoggedOut and no error is returned. A snapshot that fails to unseal or
// parse is treated the same way - restore never blocks startup.
func (m *Manager) Restore(ctx context.Context) error {
	raw, err := m.store.Get(ctx, session.KeyUser)
	if err != nil {
		if errors.Is(err, session.ErrStoreMiss) {
			return nil
		}
		return shared.WrapError("session", "Restore", shared.ErrServiceUnavailable, "read persisted session", err)
	}

	snap, err := m.decodeUserSnapshot(raw)
	if err != nil {
		m.logger.Warn("discarding unreadable session snapshot", "error", err)
		return nil
	}

	m.mu.Lock()
	m.sess.Reset()
	m.sess.Lifecycle = session.Authenticated
	identity := snap.Identity
	creds := snap.Credentials
	m.sess.Identity = &identity
	m.sess.Credentials = &creds

	for _, kind := range session.AllResourceKinds() {
		value, err := m.store.Get(ctx, session.ResourceKey(kind))
		if err != nil {
			// A missing resource key is a partially hydrated snapshot;
			// tolerated, and the slot stays refetchable.
			m.sess.MarkResourceFailed(kind)
			continue
		}
		var res session.Resource
		if err := json.Unmarshal(value, &res); err != nil || res.Kind != kind {
			m.sess.MarkResourceFailed(kind)
			continue
		}
		m.sess.SetResource(res)
	}
	mobile := snap.Identity.Mobile
	m.mu.Unlock()

	m.publish(session.NewRestoredEvent(mobile))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN
// ══════════════════════════════════════════════════════════════════════════════

// fetchOutcome carries one leg of the fork-join hydration.
type fetchOutcome struct {
	kind    session.ResourceKind
	payload json.RawMessage
	err     error
}

// Login authenticates the credential pair and hydrates the three resources.
//
// The three fetches run concurrently and all settle before Login returns
// (fork-join). A failed fetch does not abort the others: its slot is marked
// absent and retry-eligible while the successful ones hydrate. The snapshot
// reaches the store atomically - prior keys are purged first, then every new
// key is written in one batch, so a restore can never observe a mix of two
// identities.
//
// Nothing here retries. A rejected login or a failed fetch waits for an
// explicit new call.
func (m *Manager) Login(ctx context.Context, mobile, password string) error {
	creds := session.Credentials{Mobile: session.Mobile(mobile), Password: password}
	if err := creds.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if err := m.sess.BeginAuth(creds); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	if err := m.api.Login(ctx, creds); err != nil {
		reason := campus.FallbackAuthReason
		var rejected *campus.AuthRejectedError
		if errors.As(err, &rejected) {
			reason = rejected.Reason
		}

		m.mu.Lock()
		m.sess.FailAuth(reason)
		m.mu.Unlock()

		m.publish(session.NewAuthFailedEvent(creds.Mobile, reason))
		return shared.WrapError("session", "Login", shared.ErrUnauthorized, reason, err)
	}

	m.mu.Lock()
	m.sess.CompleteAuth(session.DeriveIdentity(creds.Mobile))
	m.mu.Unlock()

	outcomes := m.fetchAll(ctx, creds)

	m.mu.Lock()
	for _, out := range outcomes {
		if out.err != nil {
			m.sess.MarkResourceFailed(out.kind)
			continue
		}
		m.sess.SetResource(session.Resource{
			Kind:      out.kind,
			Payload:   out.payload,
			FetchedAt: time.Now(),
		})
	}
	snapshot := m.sess.Clone()
	m.mu.Unlock()

	for _, out := range outcomes {
		if out.err != nil {
			m.logger.Warn("resource fetch failed", "kind", out.kind, "error", out.err)
			m.publish(session.NewResourceFailedEvent(creds.Mobile, out.kind, out.err.Error()))
		} else {
			m.publish(session.NewResourceHydratedEvent(creds.Mobile, out.kind))
		}
	}
	m.publish(session.NewAuthenticatedEvent(creds.Mobile, snapshot.FullyHydrated()))

	if err := m.persist(ctx, snapshot); err != nil {
		m.logger.Error("session snapshot not persisted", "error", err)
		return shared.WrapError("session", "Login", shared.ErrServiceUnavailable, "persist session snapshot", err)
	}
	return nil
}

// fetchAll issues the three resource fetches concurrently and waits for all
// of them to settle.
func (m *Manager) fetchAll(ctx context.Context, creds session.Credentials) []fetchOutcome {
	kinds := session.AllResourceKinds()
	outcomes := make([]fetchOutcome, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind session.ResourceKind) {
			defer wg.Done()
			payload, err := m.api.FetchResource(ctx, kind, creds)
			outcomes[i] = fetchOutcome{kind: kind, payload: payload, err: err}
		}(i, kind)
	}
	wg.Wait()

	return outcomes
}

// ══════════════════════════════════════════════════════════════════════════════
// REFETCH
// ══════════════════════════════════════════════════════════════════════════════

// RefetchResource retries one resource fetch explicitly. This is the only
// retry path in the system and it is always user-invoked.
func (m *Manager) RefetchResource(ctx context.Context, kind session.ResourceKind) error {
	if !kind.IsValid() {
		return shared.ErrUnknownResource
	}

	m.mu.RLock()
	if m.sess.Lifecycle != session.Authenticated || m.sess.Credentials == nil {
		m.mu.RUnlock()
		return shared.ErrNotAuthenticated
	}
	creds := *m.sess.Credentials
	m.mu.RUnlock()

	payload, err := m.api.FetchResource(ctx, kind, creds)
	if err != nil {
		m.mu.Lock()
		m.sess.MarkResourceFailed(kind)
		m.mu.Unlock()

		m.publish(session.NewResourceFailedEvent(creds.Mobile, kind, err.Error()))
		return shared.WrapError("session", "RefetchResource", shared.ErrExternalService, fmt.Sprintf("fetch %s", kind), err)
	}

	res := session.Resource{Kind: kind, Payload: payload, FetchedAt: time.Now()}

	m.mu.Lock()
	m.sess.SetResource(res)
	m.mu.Unlock()

	m.publish(session.NewResourceHydratedEvent(creds.Mobile, kind))

	value, err := json.Marshal(res)
	if err == nil {
		err = m.store.Set(ctx, session.ResourceKey(kind), value)
	}
	if err != nil {
		m.logger.Error("resource snapshot not persisted", "kind", kind, "error", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT
// ══════════════════════════════════════════════════════════════════════════════

// Logout clears the in-memory session and purges every persisted key,
// including notification read markers. It never fails from the caller's
// point of view; store trouble is logged and the in-memory reset happens
// regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.sess.Reset()
	m.mu.Unlock()

	if err := m.store.Purge(ctx, ""); err != nil {
		m.logger.Error("persisted session not purged", "error", err)
	}

	m.publish(session.NewLoggedOutEvent())
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// persist mirrors an authenticated session into the store. Old session keys
// go away first; if the process dies between the purge and the write the
// next restore sees an empty store, never a cross-identity mix.
func (m *Manager) persist(ctx context.Context, snap *session.Session) error {
	if err := m.store.Delete(ctx, session.SessionKeys()...); err != nil {
		return err
	}

	pairs := make(map[string][]byte, 4)

	user := userSnapshot{Identity: *snap.Identity, Credentials: *snap.Credentials}
	encoded, err := m.encodeUserSnapshot(user)
	if err != nil {
		return err
	}
	pairs[session.KeyUser] = encoded

	for _, kind := range session.AllResourceKinds() {
		slot := snap.Resource(kind)
		if !slot.Resource.Present() {
			continue
		}
		value, err := json.Marshal(slot.Resource)
		if err != nil {
			return err
		}
		pairs[session.ResourceKey(kind)] = value
	}

	return m.store.SetMulti(ctx, pairs)
}

func (m *Manager) encodeUserSnapshot(snap userSnapshot) ([]byte, error) {
	value, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	if m.box == nil {
		return value, nil
	}
	return m.box.Seal(value)
}

func (m *Manager) decodeUserSnapshot(raw []byte) (userSnapshot, error) {
	var snap userSnapshot
	value := raw
	if m.box != nil {
		opened, err := m.box.Open(raw)
		if err != nil {
			return snap, err
		}
		value = opened
	}
	if err := json.Unmarshal(value, &snap); err != nil {
		return snap, err
	}
	if !snap.Credentials.Mobile.IsValid() {
		return snap, shared.ErrInvalidMobile
	}
	return snap, nil
}

// publish sends an event if a bus is wired, logging delivery trouble.
func (m *Manager) publish(event shared.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(event); err != nil {
		m.logger.Warn("event not published", "event_type", event.EventType(), "error", err)
	}
}
