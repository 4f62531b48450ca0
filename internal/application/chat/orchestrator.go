// Package chat implements the conversation orchestrator: the append-only
// transcript, the chat-turn state machine, the independent search-augmentation
// machine, and fire-and-forget feedback. The transcript lives in memory only
// and dies with the orchestrator.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campus-hub/campus-student-hub/internal/domain/conversation"
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/assistant"
)

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// ══════════════════════════════════════════════════════════════════════════════

// AssistantAPI is the slice of the assistant client the orchestrator uses.
type AssistantAPI interface {
	Chat(ctx context.Context, message string, includeSearch bool) (string, error)
	Search(ctx context.Context, query string) ([]string, error)
	SubmitFeedback(ctx context.Context, feedback assistant.FeedbackRequestDTO) error
}

// EventBus is the publish side of the change-notification bus.
type EventBus interface {
	Publish(event shared.Event) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ORCHESTRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Config wires the orchestrator's collaborators.
type Config struct {
	API    AssistantAPI
	Bus    EventBus
	Logger *slog.Logger
}

// Orchestrator owns one conversation. Multiple turns may be in flight at
// once; replies join the transcript in response-arrival order. All state is
// transient.
type Orchestrator struct {
	mu            sync.RWMutex
	transcript    []conversation.Turn
	composing     int // in-flight chat calls
	includeSearch bool
	search        conversation.SearchState
	closed        bool

	api    AssistantAPI
	bus    EventBus
	logger *slog.Logger
}

// New creates an orchestrator with the transcript seeded by the greeting turn.
func New(cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		transcript: []conversation.Turn{
			conversation.NewTurn(conversation.AuthorAssistant, conversation.Greeting),
		},
		search: conversation.SearchState{Status: conversation.SearchIdle},
		api:    cfg.API,
		bus:    cfg.Bus,
		logger: cfg.Logger,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT TURNS
// ══════════════════════════════════════════════════════════════════════════════

// SendMessage runs one chat turn. The user's turn joins the transcript
// before the network call (optimistic append) and is never rolled back. The
// reply - or the fixed apology when the call fails - is appended when the
// call settles, so concurrent turns interleave in response-arrival order.
//
// The assistant turn is returned. A failed call still appends the apology;
// the underlying error is returned alongside it for caller diagnostics.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) (conversation.Turn, error) {
	if conversation.IsBlank(text) {
		return conversation.Turn{}, shared.ErrBlankMessage
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return conversation.Turn{}, shared.ErrConversationClosed
	}
	userTurn := conversation.NewTurn(conversation.AuthorUser, text)
	o.transcript = append(o.transcript, userTurn)
	o.composing++
	includeSearch := o.includeSearch
	o.mu.Unlock()

	o.publish(conversation.NewTurnAppendedEvent(userTurn))
	o.publish(conversation.NewComposingEvent(true))

	reply, chatErr := o.api.Chat(ctx, text, includeSearch)

	o.mu.Lock()
	if o.closed {
		// Torn down while the call was in flight; the completion is dropped.
		o.mu.Unlock()
		return conversation.Turn{}, shared.ErrConversationClosed
	}

	var replyTurn conversation.Turn
	if chatErr != nil {
		replyTurn = conversation.NewTurn(conversation.AuthorAssistant, conversation.Apology)
	} else {
		replyTurn = conversation.NewTurn(conversation.AuthorAssistant, reply)
	}
	o.transcript = append(o.transcript, replyTurn)
	o.composing--
	stillComposing := o.composing > 0
	o.mu.Unlock()

	o.publish(conversation.NewTurnAppendedEvent(replyTurn))
	if !stillComposing {
		o.publish(conversation.NewComposingEvent(false))
	}

	if chatErr != nil {
		o.logger.Warn("chat call failed", "error", chatErr)
		return replyTurn, shared.WrapError("conversation", "SendMessage", shared.ErrExternalService, "assistant chat call", chatErr)
	}
	return replyTurn, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH AUGMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Search runs the search-augmentation machine for one query. It is fully
// independent of the chat-turn machine: a search never touches the
// transcript. Result lines carrying a link marker are rewritten to bare
// URLs; unparseable URLs become the placeholder so list length and order
// survive. A failed search settles with the single synthetic failure entry.
func (o *Orchestrator) Search(ctx context.Context, query string) error {
	if conversation.IsBlank(query) {
		return shared.ErrBlankQuery
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return shared.ErrConversationClosed
	}
	o.search = conversation.SearchState{Query: query, Status: conversation.SearchLoading}
	o.mu.Unlock()

	results, err := o.api.Search(ctx, query)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return shared.ErrConversationClosed
	}
	if err != nil {
		o.search = conversation.SearchState{
			Query:   query,
			Status:  conversation.SearchFailed,
			Results: []string{conversation.SearchFailureEntry},
			Reason:  err.Error(),
		}
	} else {
		o.search = conversation.SearchState{
			Query:   query,
			Status:  conversation.SearchSuccess,
			Results: extractLinks(results),
		}
	}
	settled := o.search
	o.mu.Unlock()

	o.publish(conversation.NewSearchSettledEvent(query, settled.Status))

	if err != nil {
		o.logger.Warn("search call failed", "query", query, "error", err)
		return shared.WrapError("conversation", "Search", shared.ErrExternalService, "assistant search call", err)
	}
	return nil
}

// ClearSearch returns the search machine to idle, dropping any settled
// results. A search in flight still settles afterwards.
func (o *Orchestrator) ClearSearch() {
	o.mu.Lock()
	o.search = conversation.SearchState{Status: conversation.SearchIdle}
	o.mu.Unlock()
}

// ══════════════════════════════════════════════════════════════════════════════
// FEEDBACK
// ══════════════════════════════════════════════════════════════════════════════

// SubmitFeedback submits one feedback record about an assistant reply. The
// submission retains no local state; an error only means the caller may want
// to tell the user it did not go through.
func (o *Orchestrator) SubmitFeedback(ctx context.Context, fb conversation.Feedback) error {
	if conversation.IsBlank(fb.Text) {
		return shared.ErrBlankFeedback
	}

	o.mu.RLock()
	closed := o.closed
	o.mu.RUnlock()
	if closed {
		return shared.ErrConversationClosed
	}

	err := o.api.SubmitFeedback(ctx, assistant.FeedbackRequestDTO{
		UserQuery:    fb.Query,
		AIResponse:   fb.Response,
		UserFeedback: fb.Text,
	})
	if err != nil {
		o.logger.Warn("feedback submission failed", "error", err)
		return shared.WrapError("conversation", "SubmitFeedback", shared.ErrExternalService, "assistant feedback call", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOTS AND TEARDOWN
// ══════════════════════════════════════════════════════════════════════════════

// Transcript returns a copy of the transcript in display order.
func (o *Orchestrator) Transcript() []conversation.Turn {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]conversation.Turn, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// SearchState returns a copy of the current search machine state.
func (o *Orchestrator) SearchState() conversation.SearchState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	state := o.search
	state.Results = append([]string(nil), o.search.Results...)
	return state
}

// Composing reports whether any chat call is in flight.
func (o *Orchestrator) Composing() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.composing > 0
}

// SetIncludeSearch flips the flag sent with every subsequent chat call.
func (o *Orchestrator) SetIncludeSearch(enabled bool) {
	o.mu.Lock()
	o.includeSearch = enabled
	o.mu.Unlock()
}

// IncludeSearch reports the current flag value.
func (o *Orchestrator) IncludeSearch() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.includeSearch
}

// Close tears the conversation down. Idempotent. Calls in flight settle
// without touching the transcript, and later operations are rejected.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

func (o *Orchestrator) publish(event shared.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(event); err != nil {
		o.logger.Warn("event not published", "event_type", event.EventType(), "error", err)
	}
}
