/*
errors.go - Centralized error types for the shift engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy matches what the UI layer needs to distinguish:

  1. Validation errors - Bad user input, recovered locally by the UI
  2. Not-found errors  - Stale references to deleted records
  3. Conflict errors   - Punch-in attempted while one is already active
  4. Persistence errors - Underlying store read/write failures; these
     are NEVER swallowed on writes, since silently losing a punch-out
     is data loss, not a recoverable UI hiccup

USAGE:
  if errors.Is(err, shift.ErrPunchActive) { ... }

  var verr *shift.ValidationError
  if errors.As(err, &verr) { show(verr.Field, verr.Message) }

SEE ALSO:
  - lifecycle.go: Produces conflict and persistence errors
  - api: Maps this taxonomy onto HTTP status codes
*/
package shift

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPunchActive is returned by Start when a punch is already active.
	// Starting over an active punch is rejected rather than silently
	// replacing it.
	ErrPunchActive = errors.New("a punch is already active")

	// ErrNoActivePunch is returned by Stop/Cancel/EditActive when no
	// punch is active.
	ErrNoActivePunch = errors.New("no active punch")

	// ErrShiftNotFound is returned when a shift id does not exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrDuplicateShift is returned by ShiftStore.Append when the id
	// already exists. This is expected on a retried finalization and is
	// safe to treat as success.
	ErrDuplicateShift = errors.New("shift already exists")

	// ErrWorkplaceNotFound is returned when a workplace id does not exist.
	ErrWorkplaceNotFound = errors.New("workplace not found")

	// ErrRoleNotFound is returned when a role id does not exist.
	ErrRoleNotFound = errors.New("role not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports invalid user input. The UI surfaces Message
// next to Field and aborts the operation; it never propagates as a crash.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a store failure during a state-changing
// operation. The in-memory view is NOT advanced when one of these is
// returned: the store write and the transition are atomic from the
// caller's perspective.
type PersistenceError struct {
	Op  string // e.g. "punch.start", "shift.append"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid client input
// or a rejected transition, as opposed to an internal failure.
func IsClientError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrPunchActive) ||
		errors.Is(err, ErrNoActivePunch)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrWorkplaceNotFound) ||
		errors.Is(err, ErrRoleNotFound)
}

// IsConflict reports whether the error is a punch-in collision.
func IsConflict(err error) bool {
	return errors.Is(err, ErrPunchActive)
}
