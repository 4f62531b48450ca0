// Package conversation contains the conversation domain model: transcript
// turns, the search-augmentation state machine, and feedback submissions.
package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// TURNS
// ══════════════════════════════════════════════════════════════════════════════

// Author identifies who produced a turn.
type Author string

const (
	// AuthorUser marks a turn typed by the student.
	AuthorUser Author = "user"

	// AuthorAssistant marks a turn produced by the assistant service.
	AuthorAssistant Author = "assistant"
)

// Greeting is the assistant turn every new transcript is seeded with.
const Greeting = "Hi there! I'm UniBot, your university assistant. How can I help you today?"

// Apology is the assistant turn appended in place of a reply when the chat
// call fails. Fixed text, matching what the display layer renders.
const Apology = "Sorry, something went wrong!"

// Turn is one message exchange unit in the transcript. Turns are append-only
// and their insertion order is the display order.
type Turn struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn creates a turn with a fresh unique ID.
func NewTurn(author Author, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// IsBlank reports whether a message text is empty after trimming. Blank
// input is rejected before any network call.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// FEEDBACK
// ══════════════════════════════════════════════════════════════════════════════

// Feedback is a fire-and-forget submission about one assistant reply. No
// local state is retained after the submission settles.
type Feedback struct {
	Query    string `json:"user_query"`
	Response string `json:"ai_response"`
	Text     string `json:"user_feedback"`
}
