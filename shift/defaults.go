/*
defaults.go - Layered wage/break defaults resolution

PURPOSE:
  Pre-fills punch-in and manual-entry forms from three layered sources:
  Role overrides Workplace overrides Profile, per field independently.
  Profile values themselves fall back to {wage 0, break 30, unpaid true}
  when unset.

PURITY:
  ResolveDefaults is a pure function of its three inputs. It is re-run
  whenever the user changes the selected Workplace or Role on a form,
  and the result overwrites the form's wage/break/unpaid fields -
  including any values the user typed since the last resolution. That
  overwrite is existing documented behavior: switching context resets
  to that context's defaults.

SEE ALSO:
  - lifecycle.go: Locks the resolved values into the punch at start
  - store/sqlite: Implements the provider interfaces
*/
package shift

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITIES CARRYING DEFAULTS
// =============================================================================
// Workplace, Role and Profile are owned by the surrounding application;
// the engine only consumes their optional default fields. Nil means
// "no default at this layer".

type Workplace struct {
	ID   WorkplaceID
	Name string

	DefaultHourlyWage   *decimal.Decimal
	DefaultBreakMinutes *int
	DefaultUnpaidBreak  *bool
}

type Role struct {
	ID   RoleID
	Name string

	DefaultHourlyWage   *decimal.Decimal
	DefaultBreakMinutes *int
	DefaultUnpaidBreak  *bool
}

// Profile is the single user profile. There is exactly one.
type Profile struct {
	Name string

	DefaultHourlyWage   *decimal.Decimal
	DefaultBreakMinutes *int
	DefaultUnpaidBreak  *bool
}

// Built-in profile fallbacks, used when the profile has no defaults set.
const FallbackBreakMinutes = 30

// =============================================================================
// PROVIDERS - Lookup interfaces implemented by the persistence layer
// =============================================================================

type ProfileProvider interface {
	GetProfile(ctx context.Context) (Profile, error)
}

type WorkplaceProvider interface {
	GetWorkplace(ctx context.Context, id WorkplaceID) (*Workplace, error)
}

type RoleProvider interface {
	GetRole(ctx context.Context, id RoleID) (*Role, error)
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolvedDefaults is the fully-resolved triple a form is filled with
// and a punch locks in at start.
type ResolvedDefaults struct {
	HourlyWage   decimal.Decimal
	BreakMinutes int
	UnpaidBreak  bool
}

// ResolveDefaults merges the three layers. For each field independently,
// the first non-nil value walking Role -> Workplace -> Profile wins;
// unset profile fields fall back to wage 0, 30 break minutes, unpaid
// break enabled. Workplace and role are optional.
func ResolveDefaults(profile Profile, workplace *Workplace, role *Role) ResolvedDefaults {
	out := ResolvedDefaults{
		HourlyWage:   decimal.Zero,
		BreakMinutes: FallbackBreakMinutes,
		UnpaidBreak:  true,
	}

	// Profile layer (with built-in fallbacks already applied above).
	if profile.DefaultHourlyWage != nil {
		out.HourlyWage = *profile.DefaultHourlyWage
	}
	if profile.DefaultBreakMinutes != nil {
		out.BreakMinutes = *profile.DefaultBreakMinutes
	}
	if profile.DefaultUnpaidBreak != nil {
		out.UnpaidBreak = *profile.DefaultUnpaidBreak
	}

	// Workplace layer.
	if workplace != nil {
		if workplace.DefaultHourlyWage != nil {
			out.HourlyWage = *workplace.DefaultHourlyWage
		}
		if workplace.DefaultBreakMinutes != nil {
			out.BreakMinutes = *workplace.DefaultBreakMinutes
		}
		if workplace.DefaultUnpaidBreak != nil {
			out.UnpaidBreak = *workplace.DefaultUnpaidBreak
		}
	}

	// Role layer wins last.
	if role != nil {
		if role.DefaultHourlyWage != nil {
			out.HourlyWage = *role.DefaultHourlyWage
		}
		if role.DefaultBreakMinutes != nil {
			out.BreakMinutes = *role.DefaultBreakMinutes
		}
		if role.DefaultUnpaidBreak != nil {
			out.UnpaidBreak = *role.DefaultUnpaidBreak
		}
	}

	out.BreakMinutes = ClampBreakMinutes(out.BreakMinutes)
	return out
}
