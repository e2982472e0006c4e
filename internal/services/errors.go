package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCancellable is returned when a booking is cancelled, or starts
	// within the cancellation window.
	ErrNotCancellable     = errors.New("booking can no longer be cancelled")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError is a user input problem shown inline next to the form
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
