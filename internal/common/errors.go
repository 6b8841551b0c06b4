// Package common defines the error taxonomy and small helpers shared by the
// store, the services and the CLI. Callers should match errors with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrUnknownIndex = errors.New("unknown index")

	// Service-level errors.
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("already exists")
	ErrAuth         = errors.New("invalid credentials")
	ErrPermission   = errors.New("permission denied")
	ErrNotConfirmed = errors.New("operation not confirmed")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// ValidationError reports the first unmet constraint of a user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a shorthand for &ValidationError{Field: field, Reason: reason}.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
