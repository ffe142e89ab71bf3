package domain

import "errors"

// ErrNotFound is returned when a lookup targets an id that was never stored.
// It is an expected outcome, not a failure.
var ErrNotFound = errors.New("image not found")

// ValidationError rejects client input before any state is created. The
// message is safe to return to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
