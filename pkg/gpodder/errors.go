package gpodder

import (
	"errors"
	"fmt"
)

// StatusError represents a non-2xx HTTP response from the service.
//
// The library does not interpret status codes itself; classifying them is
// the caller's responsibility. StatusError carries enough context to do
// that with errors.As.
type StatusError struct {
	Method     string // HTTP method of the failed request
	Path       string // Request path, without query string
	StatusCode int    // HTTP status code
	Status     string // HTTP status line, e.g. "404 Not Found"
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("gpodder: %s %s: unexpected status %s", e.Method, e.Path, e.Status)
}

// Is reports whether target is a StatusError with the same status code.
//
// This allows errors.Is() to match on status code alone:
//
//	errors.Is(err, &gpodder.StatusError{StatusCode: 401})
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// Predefined errors for invalid client construction.
var (
	// ErrMissingUsername is returned by NewClient when no username is set.
	ErrMissingUsername = errors.New("gpodder: Username is required")

	// ErrMissingPassword is returned by NewClient when no password is set.
	ErrMissingPassword = errors.New("gpodder: Password is required")

	// ErrInvalidDeviceID is returned when a device identifier contains
	// characters outside [\w.-]+.
	ErrInvalidDeviceID = errors.New(`gpodder: device id must match [\w.-]+`)
)
