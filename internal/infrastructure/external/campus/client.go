// Package campus implements the campus portal API client.
// This package handles all communication with the academic-records service:
// authentication plus the attendance, results and timetable resources.
//
// Transport discipline: every call is bounded by the configured timeout and
// issued exactly once. Failed calls are never retried here - the user
// re-invokes the operation explicitly.
package campus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the campus portal client.
type ClientConfig struct {
	// BaseURL is the portal base URL
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

// FallbackAuthReason is surfaced when the portal rejects credentials without
// attaching a detail message.
const FallbackAuthReason = "Login failed"

// AuthRejectedError means the portal rejected the submitted credentials.
// Reason is always human-readable: the portal's detail string or the
// generic fallback.
type AuthRejectedError struct {
	Reason string
}

// Error implements the error interface.
func (e *AuthRejectedError) Error() string {
	return fmt.Sprintf("campus: authentication rejected: %s", e.Reason)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the campus portal API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new campus portal client.
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

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// Login submits the credential pair to POST /login. A rejection (non-2xx, or
// a 200 with success=false) is returned as *AuthRejectedError; transport
// failures are returned as plain errors.
func (c *Client) Login(ctx context.Context, creds session.Credentials) error {
	body, err := c.postForm(ctx, "/login", credentialsForm(creds))
	if err != nil {
		if rejected, ok := err.(*AuthRejectedError); ok {
			return rejected
		}
		return fmt.Errorf("login: %w", err)
	}

	var resp LoginResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("login: parse response: %w", err)
	}
	if !resp.Success {
		return &AuthRejectedError{Reason: FallbackAuthReason}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchResource fetches one academic resource. The payload is returned as
// raw JSON; only the envelope is parsed here.
func (c *Client) FetchResource(ctx context.Context, kind session.ResourceKind, creds session.Credentials) (json.RawMessage, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("fetch resource: unknown kind %q", kind)
	}

	body, err := c.postForm(ctx, "/"+kind.String(), credentialsForm(creds))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	var resp ResourceResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s: parse response: %w", kind, err)
	}
	return resp.Data, nil
}

// Attendance fetches the attendance resource.
func (c *Client) Attendance(ctx context.Context, creds session.Credentials) (json.RawMessage, error) {
	return c.FetchResource(ctx, session.ResourceAttendance, creds)
}

// Results fetches the results resource.
func (c *Client) Results(ctx context.Context, creds session.Credentials) (json.RawMessage, error) {
	return c.FetchResource(ctx, session.ResourceResults, creds)
}

// Timetable fetches the timetable resource.
func (c *Client) Timetable(ctx context.Context, creds session.Credentials) (json.RawMessage, error) {
	return c.FetchResource(ctx, session.ResourceTimetable, creds)
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// credentialsForm builds the form body the portal expects on every call.
func credentialsForm(creds session.Credentials) url.Values {
	return url.Values{
		"mobile":   {creds.Mobile.String()},
		"password": {creds.Password},
	}
}

// postForm performs one form-encoded POST. Non-2xx responses become
// *AuthRejectedError carrying the portal's detail string, which callers of
// non-auth endpoints treat as an opaque failure.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	fullURL := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("campus api request", "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := FallbackAuthReason
		var apiErr APIErrorDTO
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
			reason = apiErr.Detail
		}
		return nil, &AuthRejectedError{Reason: reason}
	}

	return body, nil
}
