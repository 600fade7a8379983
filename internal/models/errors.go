package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors surfaced by write operations.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "VALIDATION_ERROR" // missing required field or malformed input
	ErrorKindDatabase   ErrorKind = "DATABASE_ERROR"   // the backend rejected the operation
	ErrorKindUnknown    ErrorKind = "UNKNOWN_ERROR"    // anything else
)

// SubmitError is returned by song create and update.
type SubmitError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// NewValidationError reports invalid submitted data.
func NewValidationError(message string) *SubmitError {
	return &SubmitError{Kind: ErrorKindValidation, Message: message}
}

// NewDatabaseError wraps a backend failure.
func NewDatabaseError(message string, err error) *SubmitError {
	return &SubmitError{Kind: ErrorKindDatabase, Message: message, Err: err}
}

// NewUnknownError wraps an unexpected failure.
func NewUnknownError(err error) *SubmitError {
	return &SubmitError{Kind: ErrorKindUnknown, Message: "unexpected error", Err: err}
}

// KindOf returns the [ErrorKind] of err, or [ErrorKindUnknown] when err is not a [SubmitError].
func KindOf(err error) ErrorKind {
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrorKindUnknown
}
