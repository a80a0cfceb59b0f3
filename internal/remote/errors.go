package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Typed errors for reaction service calls.
// Callers use errors.Is() instead of matching on status text.
var (
	// ErrUnauthorized indicates a missing, invalid or expired token (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the viewer may not perform the operation (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the entity does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrBadRequest indicates the service rejected the request body (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrRateLimited indicates the service is throttling this client (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError indicates the service failed (HTTP 5xx).
	ErrServerError = errors.New("server error")

	// ErrCircuitOpen indicates calls are suspended after repeated failures.
	ErrCircuitOpen = errors.New("reaction service unavailable")
)

// IsAuthError returns true if the error is an authentication/authorization error.
// Logging in again may help with these.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// apiError is the JSON error body written by the reaction service
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusError maps a non-2xx response to a typed error.
func statusError(operation string, status int, body apiError) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusBadRequest:
		sentinel = ErrBadRequest
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status >= 500:
		sentinel = ErrServerError
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", operation, status, body.Message)
	}

	if body.Message != "" {
		return fmt.Errorf("%s: %w: %s", operation, sentinel, body.Message)
	}
	return fmt.Errorf("%s: %w", operation, sentinel)
}

// retryable reports whether err says something about the service's health
// rather than about the request.
func retryable(err error) bool {
	return !errors.Is(err, ErrUnauthorized) &&
		!errors.Is(err, ErrForbidden) &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrBadRequest)
}
