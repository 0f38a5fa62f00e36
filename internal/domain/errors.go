package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors.
	ErrNotFound = errors.New("resource not found")

	// Input errors.
	ErrValidation = errors.New("validation failed")

	// Authorization errors.
	ErrAccessDenied = errors.New("access denied")

	// State errors.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrStaleWrite is returned when a guarded write finds the row no longer in the state it was read in.
	ErrStaleWrite = fmt.Errorf("%w: record was modified concurrently", ErrInvalidState)

	// Uniqueness errors.
	ErrDuplicateApplication = errors.New("application already exists for this job")
	ErrConflict             = errors.New("resource already exists")
)

// FieldError is a validation failure attributed to a single input field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func invalidField(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
