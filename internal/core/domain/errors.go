package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required service was not wired.
	ErrNotConfigured = errors.New("not configured")

	// Redaction Errors.

	// ErrEmptyText indicates a decision text is empty once cleaned.
	ErrEmptyText = errors.New("text is empty or invalid")

	// ErrZoningFailed indicates the zoning service returned no usable result.
	ErrZoningFailed = errors.New("zoning failed")

	// ErrMissingZone indicates a zone required for partial publication is absent.
	ErrMissingZone = errors.New("missing zone")
)

// RedactionError reports why a partially public decision could not be redacted.
type RedactionError struct {
	DecisionID int64
	Reason     string
	Err        error
}

func (e *RedactionError) Error() string {
	return fmt.Sprintf("cannot process partially-public decision %d because %s: %v", e.DecisionID, e.Reason, e.Err)
}

func (e *RedactionError) Unwrap() error {
	return e.Err
}
