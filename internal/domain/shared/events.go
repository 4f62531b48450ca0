// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive change notification to consumers.
// Each event represents something significant that happened in the core.
const (
	// Session events
	EventSessionRestored      EventType = "session.restored"
	EventSessionAuthenticated EventType = "session.authenticated"
	EventSessionAuthFailed    EventType = "session.auth_failed"
	EventSessionLoggedOut     EventType = "session.logged_out"
	EventResourceHydrated     EventType = "session.resource_hydrated"
	EventResourceFailed       EventType = "session.resource_failed"

	// Conversation events
	EventTurnAppended   EventType = "conversation.turn_appended"
	EventComposingState EventType = "conversation.composing"
	EventSearchSettled  EventType = "conversation.search_settled"

	// Notification events
	EventBulletinsFetched EventType = "notification.fetched"
	EventBulletinsRead    EventType = "notification.marked_read"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a published event. Handlers must not mutate
// the owning aggregate; they receive read-only projections.
type EventHandler func(event Event) error

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType              `json:"type"`
	Timestamp   time.Time              `json:"timestamp"`
	AggregateId string                 `json:"aggregate_id"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload implements Event interface.
func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// WithData attaches payload data to the event.
func (e BaseEvent) WithData(data map[string]interface{}) BaseEvent {
	e.Data = data
	return e
}
