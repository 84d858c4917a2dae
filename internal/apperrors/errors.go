// Package apperrors defines the request-scoped error taxonomy of the API.
// Every error is detected before any mutation; nothing here is fatal to the
// process.
package apperrors

import (
	"errors"
	"net/http"
)

// Error kinds. Controllers map these to HTTP status codes; services wrap them
// with operation-specific messages.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Actor checks
	ErrRoleNotPermitted = errors.New("role not permitted")
	ErrUnauthorized     = errors.New("unauthorized")

	// Dispatch
	ErrDriverNotApproved       = errors.New("driver not approved")
	ErrCourseNoLongerAvailable = errors.New("course no longer available")

	// Lifecycle
	ErrInvalidTransition = errors.New("invalid transition")

	// Lost an optimistic update outside the accept path; caller may retry.
	ErrConflictRetryable = errors.New("conflict, retry")
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// New wraps a kind with a message.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// StatusCode maps an error to the HTTP status controllers should answer with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoleNotPermitted),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrDriverNotApproved):
		return http.StatusForbidden
	case errors.Is(err, ErrCourseNoLongerAvailable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflictRetryable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
