/*
manual.go - Manual shift entry and edit paths

PURPOSE:
  The add-shift and edit-shift screens construct Shift records directly,
  bypassing the punch flow, but every invariant still holds: break
  minutes are clamped, the end time is overnight-normalized, a zero or
  negative duration is rejected, localDate comes from the start time,
  and the four derived money fields are computed together.

EDIT RULE:
  Derived fields are stored, not recomputed on read. Any edit therefore
  re-runs the time math and the pay calculator and overwrites ALL of
  workedMinutes/workedHours/hourlyPay/totalTips/totalEarned in one go -
  patching one without the others would leave stored state inconsistent.

SEE ALSO:
  - lifecycle.go: The timer path producing shifts
  - pay.go: The shared pay formula
*/
package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualShiftInput is the add-shift form. EndTime is normalized against
// StartTime (time-of-day comparison); tips and wage are sanitized and
// break minutes clamped here, at the input edge.
type ManualShiftInput struct {
	StartTime time.Time
	EndTime   time.Time

	WorkplaceRef  *WorkplaceID
	WorkplaceName string
	RoleRef       *RoleID
	RoleName      string

	HourlyWage   decimal.Decimal
	UnpaidBreak  bool
	BreakMinutes int

	CashTips   decimal.Decimal
	CreditTips decimal.Decimal

	Note string
}

// NewManualShift builds a finalized Shift from manually entered times.
// loc is the user's timezone for localDate attribution; nil means
// time.Local.
func NewManualShift(in ManualShiftInput, loc *time.Location) (*Shift, error) {
	end := NormalizeEnd(in.StartTime, in.EndTime)
	if !end.After(in.StartTime) {
		return nil, &ValidationError{Field: "endTime", Message: "shift must have a positive duration"}
	}

	breakMin := ClampBreakMinutes(in.BreakMinutes)
	wage := SanitizeMoney(in.HourlyWage)
	cash := SanitizeMoney(in.CashTips)
	credit := SanitizeMoney(in.CreditTips)

	raw := MinutesBetween(in.StartTime, end)
	if raw == 0 {
		return nil, &ValidationError{Field: "workedMinutes", Message: "shift must have a positive duration"}
	}
	net := DeductBreak(raw, in.UnpaidBreak, breakMin)
	pay := ComputePay(net, wage, cash, credit)

	return &Shift{
		ID:                  NewShiftID(),
		LocalDate:           LocalDateOf(in.StartTime, loc),
		StartTime:           in.StartTime,
		EndTime:             end,
		WorkplaceRef:        in.WorkplaceRef,
		WorkplaceName:       in.WorkplaceName,
		RoleRef:             in.RoleRef,
		RoleName:            in.RoleName,
		UnpaidBreakApplied:  in.UnpaidBreak,
		BreakMinutesApplied: breakMin,
		HourlyWage:          wage,
		CashTips:            cash,
		CreditTips:          credit,
		WorkedMinutes:       net,
		WorkedHours:         pay.WorkedHours,
		HourlyPay:           pay.HourlyPay,
		TotalTips:           pay.TotalTips,
		TotalEarned:         pay.TotalEarned,
		Note:                in.Note,
		AutoClosed:          false,
	}, nil
}

// ShiftEdits are the editable source fields of a stored shift. Nil
// fields are left unchanged. Applying any edit recomputes every
// derived field.
type ShiftEdits struct {
	StartTime    *time.Time
	EndTime      *time.Time
	HourlyWage   *decimal.Decimal
	UnpaidBreak  *bool
	BreakMinutes *int
	CashTips     *decimal.Decimal
	CreditTips   *decimal.Decimal
	Note         *string
}

// ApplyShiftEdit returns an updated copy of s with edits applied and
// all derived fields refreshed from the new source fields. The edited
// end time is re-normalized against the edited start time; localDate
// follows the (possibly edited) start time.
func ApplyShiftEdit(s Shift, edits ShiftEdits, loc *time.Location) (*Shift, error) {
	if edits.StartTime != nil {
		s.StartTime = *edits.StartTime
	}
	if edits.EndTime != nil {
		s.EndTime = *edits.EndTime
	}
	if edits.StartTime != nil || edits.EndTime != nil {
		s.EndTime = NormalizeEnd(s.StartTime, s.EndTime)
	}
	if !s.EndTime.After(s.StartTime) {
		return nil, &ValidationError{Field: "endTime", Message: "shift must have a positive duration"}
	}

	if edits.HourlyWage != nil {
		s.HourlyWage = SanitizeMoney(*edits.HourlyWage)
	}
	if edits.UnpaidBreak != nil {
		s.UnpaidBreakApplied = *edits.UnpaidBreak
	}
	if edits.BreakMinutes != nil {
		s.BreakMinutesApplied = ClampBreakMinutes(*edits.BreakMinutes)
	}
	if edits.CashTips != nil {
		s.CashTips = SanitizeMoney(*edits.CashTips)
	}
	if edits.CreditTips != nil {
		s.CreditTips = SanitizeMoney(*edits.CreditTips)
	}
	if edits.Note != nil {
		s.Note = *edits.Note
	}

	s.LocalDate = LocalDateOf(s.StartTime, loc)

	raw := MinutesBetween(s.StartTime, s.EndTime)
	net := DeductBreak(raw, s.UnpaidBreakApplied, s.BreakMinutesApplied)
	pay := ComputePay(net, s.HourlyWage, s.CashTips, s.CreditTips)

	s.WorkedMinutes = net
	s.WorkedHours = pay.WorkedHours
	s.HourlyPay = pay.HourlyPay
	s.TotalTips = pay.TotalTips
	s.TotalEarned = pay.TotalEarned

	return &s, nil
}
