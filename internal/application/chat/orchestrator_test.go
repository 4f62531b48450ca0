package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-student-hub/internal/domain/conversation"
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/assistant"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeAssistant struct {
	mu            sync.Mutex
	chatReply     string
	chatErr       error
	chatCalls     int
	chatGate      chan struct{} // when set, Chat blocks until the gate closes
	searchResults []string
	searchErr     error
	feedback      []assistant.FeedbackRequestDTO
	feedbackErr   error
}

func (f *fakeAssistant) Chat(_ context.Context, _ string, _ bool) (string, error) {
	f.mu.Lock()
	f.chatCalls++
	gate := f.chatGate
	reply, err := f.chatReply, f.chatErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return reply, err
}

func (f *fakeAssistant) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls
}

func (f *fakeAssistant) Search(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults, f.searchErr
}

func (f *fakeAssistant) SubmitFeedback(_ context.Context, fb assistant.FeedbackRequestDTO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, fb)
	return f.feedbackErr
}

func texts(turns []conversation.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Text
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT TURNS
// ══════════════════════════════════════════════════════════════════════════════

func TestNewTranscriptSeededWithGreeting(t *testing.T) {
	o := New(Config{API: &fakeAssistant{}})

	transcript := o.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, conversation.AuthorAssistant, transcript[0].Author)
	assert.Equal(t, conversation.Greeting, transcript[0].Text)
	assert.False(t, o.Composing())
}

func TestSendMessageAppendsUserAndReplyTurns(t *testing.T) {
	api := &fakeAssistant{chatReply: "Your attendance is 87.5%."}
	o := New(Config{API: api})

	reply, err := o.SendMessage(context.Background(), "What is my attendance?")
	require.NoError(t, err)
	assert.Equal(t, conversation.AuthorAssistant, reply.Author)
	assert.Equal(t, "Your attendance is 87.5%.", reply.Text)

	assert.Equal(t,
		[]string{conversation.Greeting, "What is my attendance?", "Your attendance is 87.5%."},
		texts(o.Transcript()))
	assert.False(t, o.Composing())
}

func TestSendMessageRejectsBlankInput(t *testing.T) {
	api := &fakeAssistant{}
	o := New(Config{API: api})

	_, err := o.SendMessage(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
	assert.Equal(t, 0, api.chatCalls, "blank input never reaches the network")
	assert.Len(t, o.Transcript(), 1)
}

func TestSendMessageFailureAppendsApology(t *testing.T) {
	api := &fakeAssistant{chatErr: errors.New("assistant: 503")}
	o := New(Config{API: api})

	reply, err := o.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrExternalService)
	assert.Equal(t, conversation.Apology, reply.Text)

	// Exactly greeting + user turn + apology; the user turn is never rolled back.
	assert.Equal(t,
		[]string{conversation.Greeting, "hello", conversation.Apology},
		texts(o.Transcript()))
	assert.False(t, o.Composing())
}

func TestComposingTrueWhileCallInFlight(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAssistant{chatReply: "ok", chatGate: gate}
	o := New(Config{API: api})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = o.SendMessage(context.Background(), "slow question")
	}()

	require.Eventually(t, o.Composing, waitFor, tick, "composing should flip on before the call settles")

	// The optimistic user turn is already visible mid-flight.
	assert.Equal(t, []string{conversation.Greeting, "slow question"}, texts(o.Transcript()))

	close(gate)
	<-done
	assert.False(t, o.Composing())
}

func TestConcurrentTurnsInterleaveInArrivalOrder(t *testing.T) {
	gate := make(chan struct{})
	slow := &fakeAssistant{chatReply: "slow reply", chatGate: gate}
	o := New(Config{API: slow})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = o.SendMessage(context.Background(), "first")
	}()

	require.Eventually(t, func() bool { return slow.calls() == 1 }, waitFor, tick,
		"first call must be holding the gate before the second is issued")

	// Second turn settles while the first is still in flight.
	slow.mu.Lock()
	slow.chatGate = nil
	slow.chatReply = "fast reply"
	slow.mu.Unlock()

	_, err := o.SendMessage(context.Background(), "second")
	require.NoError(t, err)
	assert.True(t, o.Composing(), "first call still in flight")

	close(gate)
	<-done

	got := texts(o.Transcript())
	assert.Equal(t, []string{
		conversation.Greeting,
		"first",
		"second",
		"fast reply",
		"slow reply",
	}, got, "replies join in response-arrival order")
	assert.False(t, o.Composing())
}

func TestIncludeSearchFlagReachesChatCall(t *testing.T) {
	var gotInclude bool
	api := &recordingAssistant{onChat: func(includeSearch bool) { gotInclude = includeSearch }}
	o := New(Config{API: api})

	o.SetIncludeSearch(true)
	assert.True(t, o.IncludeSearch())

	_, err := o.SendMessage(context.Background(), "question")
	require.NoError(t, err)
	assert.True(t, gotInclude)
}

// recordingAssistant captures the include_search flag per chat call.
type recordingAssistant struct {
	fakeAssistant
	onChat func(includeSearch bool)
}

func (r *recordingAssistant) Chat(ctx context.Context, message string, includeSearch bool) (string, error) {
	r.onChat(includeSearch)
	return r.fakeAssistant.Chat(ctx, message, includeSearch)
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH
// ══════════════════════════════════════════════════════════════════════════════

func TestSearchExtractsBareURLs(t *testing.T) {
	api := &fakeAssistant{searchResults: []string{
		"🔗 [Link](http://x.test/a)",
		"🔗 [Link](https://portal.test/notice.pdf)",
	}}
	o := New(Config{API: api})

	require.NoError(t, o.Search(context.Background(), "exam schedule"))

	state := o.SearchState()
	assert.Equal(t, conversation.SearchSuccess, state.Status)
	assert.Equal(t, []string{"http://x.test/a", "https://portal.test/notice.pdf"}, state.Results)
}

func TestSearchReplacesInvalidURLWithPlaceholder(t *testing.T) {
	api := &fakeAssistant{searchResults: []string{
		"🔗 [Link](http://x.test/a)",
		"🔗 [Link](::not a url::)",
		"plain text entry",
	}}
	o := New(Config{API: api})

	require.NoError(t, o.Search(context.Background(), "q"))

	state := o.SearchState()
	require.Len(t, state.Results, 3, "length is preserved, lines are replaced not dropped")
	assert.Equal(t, "http://x.test/a", state.Results[0])
	assert.Equal(t, conversation.LinkPlaceholder, state.Results[1])
	assert.Equal(t, "plain text entry", state.Results[2])
}

func TestSearchFailureSettlesWithSyntheticEntry(t *testing.T) {
	api := &fakeAssistant{searchErr: errors.New("assistant: 500")}
	o := New(Config{API: api})

	err := o.Search(context.Background(), "q")
	require.Error(t, err)

	state := o.SearchState()
	assert.Equal(t, conversation.SearchFailed, state.Status)
	assert.Equal(t, []string{conversation.SearchFailureEntry}, state.Results)
	assert.NotEmpty(t, state.Reason)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	o := New(Config{API: &fakeAssistant{}})

	err := o.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
	assert.Equal(t, conversation.SearchIdle, o.SearchState().Status)
}

func TestSearchDoesNotTouchTranscript(t *testing.T) {
	api := &fakeAssistant{searchResults: []string{"entry"}}
	o := New(Config{API: api})

	require.NoError(t, o.Search(context.Background(), "q"))
	assert.Len(t, o.Transcript(), 1, "search never appends turns")
}

func TestClearSearchReturnsToIdle(t *testing.T) {
	api := &fakeAssistant{searchResults: []string{"entry"}}
	o := New(Config{API: api})

	require.NoError(t, o.Search(context.Background(), "q"))
	o.ClearSearch()

	state := o.SearchState()
	assert.Equal(t, conversation.SearchIdle, state.Status)
	assert.Empty(t, state.Results)
}

// ══════════════════════════════════════════════════════════════════════════════
// FEEDBACK
// ══════════════════════════════════════════════════════════════════════════════

func TestSubmitFeedbackForwardsAllThreeFields(t *testing.T) {
	api := &fakeAssistant{}
	o := New(Config{API: api})

	err := o.SubmitFeedback(context.Background(), conversation.Feedback{
		Query:    "What is my attendance?",
		Response: "Your attendance is 87.5%.",
		Text:     "accurate, thanks",
	})
	require.NoError(t, err)

	require.Len(t, api.feedback, 1)
	assert.Equal(t, "What is my attendance?", api.feedback[0].UserQuery)
	assert.Equal(t, "Your attendance is 87.5%.", api.feedback[0].AIResponse)
	assert.Equal(t, "accurate, thanks", api.feedback[0].UserFeedback)
}

func TestSubmitFeedbackRejectsBlankText(t *testing.T) {
	api := &fakeAssistant{}
	o := New(Config{API: api})

	err := o.SubmitFeedback(context.Background(), conversation.Feedback{Text: " "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
	assert.Empty(t, api.feedback)
}

func TestSubmitFeedbackSurfacesDeliveryFailure(t *testing.T) {
	api := &fakeAssistant{feedbackErr: errors.New("assistant: 503")}
	o := New(Config{API: api})

	err := o.SubmitFeedback(context.Background(), conversation.Feedback{Text: "broken"})
	assert.ErrorIs(t, err, shared.ErrExternalService)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEARDOWN
// ══════════════════════════════════════════════════════════════════════════════

func TestClosedOrchestratorRejectsOperations(t *testing.T) {
	o := New(Config{API: &fakeAssistant{chatReply: "ok"}})
	o.Close()
	o.Close() // idempotent

	_, err := o.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, shared.ErrClosed)

	assert.ErrorIs(t, o.Search(context.Background(), "q"), shared.ErrClosed)
	assert.ErrorIs(t, o.SubmitFeedback(context.Background(), conversation.Feedback{Text: "fb"}), shared.ErrClosed)
}

func TestCloseDropsInFlightCompletion(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAssistant{chatReply: "late reply", chatGate: gate}
	o := New(Config{API: api})

	errCh := make(chan error, 1)
	go func() {
		_, err := o.SendMessage(context.Background(), "question")
		errCh <- err
	}()

	require.Eventually(t, o.Composing, waitFor, tick)
	o.Close()
	close(gate)

	err := <-errCh
	assert.ErrorIs(t, err, shared.ErrClosed)

	// The late reply never joined the transcript.
	assert.Equal(t, []string{conversation.Greeting, "question"}, texts(o.Transcript()))
}
