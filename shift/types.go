/*
Package shift provides the core shift-tracking engine.

PURPOSE:
  This package contains the types and algorithms at the heart of the
  tracker: the punch (clock-in/clock-out) lifecycle state machine, the
  time arithmetic for overnight shifts and break deduction, the pay
  calculator, and the layered defaults resolution used to pre-fill
  punch-in forms.

KEY CONCEPTS IN THIS FILE (types.go):
  - ActivePunch: The single in-flight clock-in record
  - Shift: A finalized work record with stored pay/tips totals
  - ShiftID/PunchID/WorkplaceID/RoleID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all monetary values
  2. Locked inputs: Punch-in snapshots wage/break/names; later edits to
     defaults never leak into an already-started punch
  3. Stored derivation: Shift totals are computed once and persisted,
     never recomputed from source fields on read
  4. Type Safety: Strong ID typing prevents mixing shift/punch/ref IDs

USAGE:
  punch := shift.ActivePunch{
      ID:         shift.NewPunchID(),
      StartedAt:  time.Now(),
      HourlyWage: decimal.NewFromFloat(15.50),
  }

SEE ALSO:
  - time.go: Local-day boundaries, overnight normalization, break math
  - pay.go: Pay breakdown computation
  - lifecycle.go: The punch state machine producing Shift records
*/
package shift

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ShiftID string
type PunchID string
type WorkplaceID string
type RoleID string

func NewShiftID() ShiftID         { return ShiftID(uuid.NewString()) }
func NewPunchID() PunchID         { return PunchID(uuid.NewString()) }
func NewWorkplaceID() WorkplaceID { return WorkplaceID(uuid.NewString()) }
func NewRoleID() RoleID           { return RoleID(uuid.NewString()) }

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// All stored money fields in this package go through Round2 exactly once.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SanitizeMoney floors negative user input at zero. Input screens are
// expected to call this before any value reaches the calculators.
func SanitizeMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// ACTIVE PUNCH - The single in-flight clock-in record
// =============================================================================

// ActivePunch is the in-flight punch-in record. At most one exists
// system-wide at any time; it is created by PunchLifecycle.Start and
// destroyed by Stop, Cancel or a 14-hour auto-close.
//
// HourlyWage, BreakMinutes and UnpaidBreak are locked at punch-in time:
// they are immutable inputs to the eventual pay calculation regardless of
// later edits to Profile/Workplace/Role defaults. The only way to change
// them is an explicit EditActive before punching out.
//
// WorkplaceName and RoleName are denormalized snapshots captured at
// punch-in. They are never recomputed, even if the referenced Workplace
// or Role is renamed afterward.
type ActivePunch struct {
	ID        PunchID
	StartedAt time.Time

	WorkplaceRef  *WorkplaceID
	WorkplaceName string
	RoleRef       *RoleID
	RoleName      string

	HourlyWage   decimal.Decimal
	BreakMinutes int
	UnpaidBreak  bool

	Note string
}

// =============================================================================
// SHIFT - Finalized work record
// =============================================================================

// Shift is a finalized work record. It is created by the punch lifecycle
// (Stop or auto-close) or directly by manual entry, and is immutable once
// created except through an explicit user edit, which must recompute all
// derived fields together (see ApplyShiftEdit).
type Shift struct {
	ID ShiftID

	// LocalDate is the calendar day the shift is attributed to, always
	// derived from StartTime in the user's local timezone. An overnight
	// shift belongs to the day it started.
	LocalDate LocalDate

	// StartTime < EndTime strictly; a zero or negative duration is
	// rejected before a Shift ever exists.
	StartTime time.Time
	EndTime   time.Time

	WorkplaceRef  *WorkplaceID
	WorkplaceName string
	RoleRef       *RoleID
	RoleName      string

	UnpaidBreakApplied  bool
	BreakMinutesApplied int // clamped to [0, MaxBreakMinutes] at input time

	HourlyWage decimal.Decimal
	CashTips   decimal.Decimal
	CreditTips decimal.Decimal

	// Derived fields: computed once at creation (or edit), stored, and
	// never recomputed from the source fields on read.
	WorkedMinutes int
	WorkedHours   decimal.Decimal
	HourlyPay     decimal.Decimal
	TotalTips     decimal.Decimal
	TotalEarned   decimal.Decimal

	Note       string
	AutoClosed bool
}
