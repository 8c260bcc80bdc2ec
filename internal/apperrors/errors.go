package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation indicates that required input was missing or empty.
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrStorage indicates that the document store was unreachable or a write failed.
var ErrStorage = errors.New("storage error")

// ErrUnavailable indicates that the enhancement service could not be reached.
var ErrUnavailable = errors.New("enhancement service unavailable")

// ErrMalformed indicates that the enhancement service response was missing the expected content.
var ErrMalformed = errors.New("malformed enhancement response")

// ErrPathEscape indicates that a resolved file path would escape the journal files directory.
var ErrPathEscape = errors.New("path escapes storage directory")

// UpstreamError carries an application-level error returned by the
// enhancement service itself (the service was reachable but refused the request).
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("enhancement service error (status %d): %s", e.Status, e.Message)
}
