// Package assistant implements the conversational service API client:
// chat turn completion, web search, feedback submission and bulletin
// retrieval. Same transport discipline as the campus client - one bounded
// attempt per invocation, no automatic retries.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the assistant service client.
type ClientConfig struct {
	// BaseURL is the assistant service base URL
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// StatusError means the service answered with a non-2xx status.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant: unexpected status %d", e.StatusCode)
}

// ErrNonSuccess means a 2xx envelope carried a non-success status indicator.
type ErrNonSuccess struct {
	Status string
}

// Error implements the error interface.
func (e *ErrNonSuccess) Error() string {
	return fmt.Sprintf("assistant: service reported status %q", e.Status)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the assistant service API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new assistant service client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
	}
}

// Chat posts one user message to POST /chat and returns the assistant reply.
// includeSearch carries the search-augmentation toggle for this message.
func (c *Client) Chat(ctx context.Context, message string, includeSearch bool) (string, error) {
	form := url.Values{
		"message":        {message},
		"include_search": {strconv.FormatBool(includeSearch)},
	}

	body, err := c.do(ctx, http.MethodPost, "/chat", formBody(form))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	var resp ChatResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("chat: parse response: %w", err)
	}
	return resp.Reply, nil
}

// Search posts a query to POST /api/search. A 2xx envelope with a non-success
// status is returned as *ErrNonSuccess; result lines come back verbatim, the
// link extraction is the orchestrator's concern.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	form := url.Values{"query": {query}}

	body, err := c.do(ctx, http.MethodPost, "/api/search", formBody(form))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var resp SearchResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("search: parse response: %w", err)
	}
	if resp.Status != StatusSuccess {
		return nil, &ErrNonSuccess{Status: resp.Status}
	}
	return resp.Results, nil
}

// SubmitFeedback posts one feedback record to POST /feedback. The
// acknowledgment body is not consumed; only transport/status failures are
// reported.
func (c *Client) SubmitFeedback(ctx context.Context, feedback FeedbackRequestDTO) error {
	payload, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("feedback: marshal: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, "/feedback", jsonBody(payload)); err != nil {
		return fmt.Errorf("feedback: %w", err)
	}
	return nil
}

// Notifications fetches the bulletin list from GET /notifications.
func (c *Client) Notifications(ctx context.Context) ([]BulletinDTO, error) {
	body, err := c.do(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}

	var resp NotificationsResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("notifications: parse response: %w", err)
	}
	if resp.Status != StatusSuccess {
		return nil, &ErrNonSuccess{Status: resp.Status}
	}
	return resp.Notifications, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// requestBody pairs a reader with its content type.
type requestBody struct {
	reader      io.Reader
	contentType string
}

func formBody(form url.Values) *requestBody {
	return &requestBody{
		reader:      strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
}

func jsonBody(payload []byte) *requestBody {
	return &requestBody{
		reader:      bytes.NewReader(payload),
		contentType: "application/json",
	}
}

// do performs one HTTP request and returns the response body. Non-2xx
// responses become *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body *requestBody) ([]byte, error) {
	fullURL := c.config.BaseURL + path

	var reader io.Reader
	if body != nil {
		reader = body.reader
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("assistant api request", "method", method, "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return respBody, nil
}
