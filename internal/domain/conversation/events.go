package conversation

import (
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
)

// Event constructors for conversation state changes.

// NewTurnAppendedEvent signals a turn joining the transcript.
func NewTurnAppendedEvent(turn Turn) shared.Event {
	return shared.NewBaseEvent(shared.EventTurnAppended, turn.ID).
		WithData(map[string]interface{}{
			"author": string(turn.Author),
		})
}

// NewComposingEvent signals the composing flag flipping.
func NewComposingEvent(composing bool) shared.Event {
	return shared.NewBaseEvent(shared.EventComposingState, "").
		WithData(map[string]interface{}{
			"composing": composing,
		})
}

// NewSearchSettledEvent signals a search leaving the loading state.
func NewSearchSettledEvent(query string, status SearchStatus) shared.Event {
	return shared.NewBaseEvent(shared.EventSearchSettled, query).
		WithData(map[string]interface{}{
			"status": string(status),
		})
}
