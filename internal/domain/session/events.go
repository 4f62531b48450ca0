package session

import (
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
)

// Event constructors for session state changes. The session manager publishes
// these on the event bus; display views subscribe instead of polling.

// NewRestoredEvent signals a successful rehydration from the store.
func NewRestoredEvent(mobile Mobile) shared.Event {
	return shared.NewBaseEvent(shared.EventSessionRestored, mobile.String())
}

// NewAuthenticatedEvent signals a successful login.
func NewAuthenticatedEvent(mobile Mobile, fullyHydrated bool) shared.Event {
	return shared.NewBaseEvent(shared.EventSessionAuthenticated, mobile.String()).
		WithData(map[string]interface{}{
			"fully_hydrated": fullyHydrated,
		})
}

// NewAuthFailedEvent signals a rejected login.
func NewAuthFailedEvent(mobile Mobile, reason string) shared.Event {
	return shared.NewBaseEvent(shared.EventSessionAuthFailed, mobile.String()).
		WithData(map[string]interface{}{
			"reason": reason,
		})
}

// NewLoggedOutEvent signals a completed logout.
func NewLoggedOutEvent() shared.Event {
	return shared.NewBaseEvent(shared.EventSessionLoggedOut, "")
}

// NewResourceHydratedEvent signals one resource slot becoming present.
func NewResourceHydratedEvent(mobile Mobile, kind ResourceKind) shared.Event {
	return shared.NewBaseEvent(shared.EventResourceHydrated, mobile.String()).
		WithData(map[string]interface{}{
			"kind": kind.String(),
		})
}

// NewResourceFailedEvent signals one resource fetch failing; the slot is
// absent and retry-eligible.
func NewResourceFailedEvent(mobile Mobile, kind ResourceKind, reason string) shared.Event {
	return shared.NewBaseEvent(shared.EventResourceFailed, mobile.String()).
		WithData(map[string]interface{}{
			"kind":   kind.String(),
			"reason": reason,
		})
}
