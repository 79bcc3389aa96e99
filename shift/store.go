/*
store.go - Persistence interfaces for shifts and the active punch

PURPOSE:
  Defines the contract between the engine and device storage. The
  engine never touches a database directly; it is handed these
  interfaces. Different implementations can use SQLite or in-memory
  storage - the engine cannot tell the difference.

KEY INTERFACES:
  ShiftStore:       The finalized shift collection (append/list/update/remove)
  ActivePunchStore: The single in-flight punch slot (get/set/clear)

SNAPSHOT READS:
  All reads return point-in-time copies. Mutating a returned value
  never mutates the store.

THE ACTIVE PUNCH SLOT:
  ActivePunchStore holds AT MOST ONE record. Get returns nil (not an
  error) when no punch is active - "already cleared" is an expected
  state, and the lifecycle relies on re-reading this slot immediately
  before finalizing to make racing finalizers idempotent.

IMPLEMENTATIONS:
  - shift/store/memory.go: In-memory, for tests and dev
  - store/sqlite:          Production SQLite

SEE ALSO:
  - lifecycle.go: The only writer of the active punch slot
  - defaults.go: Provider interfaces for profile/workplace/role lookups
*/
package shift

import "context"

// =============================================================================
// SHIFT STORE - Finalized shift collection
// =============================================================================

// ShiftStore persists finalized Shift records. All reads return
// point-in-time snapshots.
type ShiftStore interface {
	// Append persists a newly finalized shift. An id that already
	// exists returns ErrDuplicateShift and writes nothing.
	Append(ctx context.Context, s Shift) error

	// List returns all shifts, ordered by StartTime ascending.
	List(ctx context.Context) ([]Shift, error)

	// Get returns one shift, or ErrShiftNotFound.
	Get(ctx context.Context, id ShiftID) (Shift, error)

	// Update replaces a shift in place, or returns ErrShiftNotFound.
	Update(ctx context.Context, s Shift) error

	// Remove deletes a shift, or returns ErrShiftNotFound.
	Remove(ctx context.Context, id ShiftID) error
}

// =============================================================================
// ACTIVE PUNCH STORE - The single in-flight punch slot
// =============================================================================

// ActivePunchStore holds at most one in-flight punch. Get returns
// (nil, nil) when the slot is empty; Clear on an empty slot is a no-op.
type ActivePunchStore interface {
	Get(ctx context.Context) (*ActivePunch, error)
	Set(ctx context.Context, p ActivePunch) error
	Clear(ctx context.Context) error
}

// =============================================================================
// WORKPLACE / ROLE / PROFILE STORES - Management surfaces
// =============================================================================
// The engine itself only needs the read-side Provider interfaces from
// defaults.go; the management stores exist for the surrounding
// application (settings screens, backup/restore).

type WorkplaceStore interface {
	WorkplaceProvider
	ListWorkplaces(ctx context.Context) ([]Workplace, error)
	SaveWorkplace(ctx context.Context, w Workplace) error
	DeleteWorkplace(ctx context.Context, id WorkplaceID) error
}

type RoleStore interface {
	RoleProvider
	ListRoles(ctx context.Context) ([]Role, error)
	SaveRole(ctx context.Context, r Role) error
	DeleteRole(ctx context.Context, id RoleID) error
}

type ProfileStore interface {
	ProfileProvider
	SaveProfile(ctx context.Context, p Profile) error
}
