// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrClosed          = errors.New("closed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "session", "conversation", "notification"
	Op      string // Operation that failed, e.g., "Login", "SendMessage"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Session domain errors
var (
	ErrInvalidMobile         = NewDomainError("session", "Validate", ErrInvalidFormat, "mobile must be a 10-digit number")
	ErrEmptyPassword         = NewDomainError("session", "Validate", ErrEmptyValue, "password cannot be empty")
	ErrNotAuthenticated      = NewDomainError("session", "CheckState", ErrInvalidState, "session is not authenticated")
	ErrAlreadyAuthenticating = NewDomainError("session", "Login", ErrStateTransition, "login already in progress")
	ErrUnknownResource       = NewDomainError("session", "Resource", ErrInvalidInput, "unknown resource kind")
)

// Conversation domain errors
var (
	ErrBlankMessage       = NewDomainError("conversation", "SendMessage", ErrEmptyValue, "message cannot be blank")
	ErrBlankQuery         = NewDomainError("conversation", "Search", ErrEmptyValue, "search query cannot be blank")
	ErrBlankFeedback      = NewDomainError("conversation", "SubmitFeedback", ErrEmptyValue, "feedback cannot be blank")
	ErrConversationClosed = NewDomainError("conversation", "CheckState", ErrClosed, "conversation is closed")
)
