package config

import "fmt"

// Error is a configuration error: a value does not fit its configured width
// or the parameters are inconsistent. It is detected before driving and
// aborts the run.
type Error struct {
	Field  string
	Reason string
	Cause  error
}

// NewError creates a configuration error.
func NewError(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

// WrapError creates a configuration error caused by err.
func WrapError(field string, err error) *Error {
	return &Error{Field: field, Reason: err.Error(), Cause: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
