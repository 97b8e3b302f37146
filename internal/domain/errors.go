package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the lifecycle engine. Callers match with errors.Is;
// the sentinels are wrapped with detail text at the point of failure.
var (
	// ErrNotFound indicates that an (owner, id) pair does not resolve to an
	// instrument or ledger entry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates that a lifecycle action is not legal from
	// the instrument's current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrValidation indicates missing or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence indicates that the underlying store is unavailable or a
	// write failed.
	ErrPersistence = errors.New("persistence failure")
)

// Validationf builds a validation error with detail text.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Transitionf builds an invalid-transition error with detail text.
func Transitionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// NotFoundf builds a not-found error with detail text.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
