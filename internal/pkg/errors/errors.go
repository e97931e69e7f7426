package errors

import "errors"

var (
	// ErrNotFound is the sentinel for missing resources (unknown user,
	// unknown impression).
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is the sentinel for malformed request parameters and
	// filter combinations.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOwnershipMismatch is returned when an engagement names a user other
	// than the impression's owner.
	ErrOwnershipMismatch = errors.New("ownership mismatch")
)
