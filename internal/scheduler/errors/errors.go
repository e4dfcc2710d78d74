// Package errors defines the sentinel errors shared by the scheduler core.
// Callers classify failures with errors.Is against these values.
package errors

import (
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input fields.
	ErrValidation = fmt.Errorf("validation failed")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = fmt.Errorf("conflict")
	// ErrNotFound marks a missing row. Out-of-tenant rows are reported as
	// not found rather than forbidden so existence is never confirmed
	// across tenants.
	ErrNotFound = fmt.Errorf("not found")
	// ErrUnauthorized marks a role or tenant mismatch on an operation
	// whose target is already known to the caller.
	ErrUnauthorized = fmt.Errorf("unauthorized")
	// ErrInvalidState marks a state-machine transition from a terminal
	// or wrong state.
	ErrInvalidState = fmt.Errorf("invalid state")
	// ErrStorage marks a backing store I/O failure.
	ErrStorage = fmt.Errorf("storage failure")
)
