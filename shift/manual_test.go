package shift_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise/shift-engine/shift"
)

func baseManualInput() shift.ManualShiftInput {
	return shift.ManualShiftInput{
		StartTime:     time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2024, time.January, 1, 17, 0, 0, 0, time.UTC),
		WorkplaceRef:  &testWorkplace,
		WorkplaceName: "Diner",
		HourlyWage:    dec("15"),
	}
}

func TestNewManualShift_OvernightEntry(t *testing.T) {
	// GIVEN: a 22:00 start with a 06:00 end entered on the same form
	in := baseManualInput()
	in.StartTime = time.Date(2024, time.January, 1, 22, 0, 0, 0, time.UTC)
	in.EndTime = time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)

	s, err := shift.NewManualShift(in, time.UTC)
	require.NoError(t, err)

	// THEN: the end rolls to the next day and the shift lasts 8 hours
	assert.Equal(t, 480, s.WorkedMinutes)
	assert.Equal(t, 2, s.EndTime.Day())
	assert.Equal(t, "2024-01-01", s.LocalDate.String(), "attributed to the start day")
}

func TestNewManualShift_RejectsZeroDuration(t *testing.T) {
	// A sub-minute window that still lands in the next clock minute
	// survives normalization but rounds to zero worked minutes.
	in := baseManualInput()
	in.StartTime = time.Date(2024, time.January, 1, 9, 0, 50, 0, time.UTC)
	in.EndTime = time.Date(2024, time.January, 1, 9, 1, 10, 0, time.UTC)

	_, err := shift.NewManualShift(in, time.UTC)
	var verr *shift.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewManualShift_ClampsAndSanitizesInputs(t *testing.T) {
	in := baseManualInput()
	in.BreakMinutes = 500
	in.UnpaidBreak = true
	in.HourlyWage = dec("-3")
	in.CashTips = dec("-1")

	s, err := shift.NewManualShift(in, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, shift.MaxBreakMinutes, s.BreakMinutesApplied)
	assert.Equal(t, 480-shift.MaxBreakMinutes, s.WorkedMinutes)
	assertDecEqual(t, dec("0"), s.HourlyWage)
	assertDecEqual(t, dec("0"), s.CashTips)
}

func TestNewManualShift_PaidBreakDeductsNothing(t *testing.T) {
	in := baseManualInput()
	in.BreakMinutes = 45
	in.UnpaidBreak = false

	s, err := shift.NewManualShift(in, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 480, s.WorkedMinutes)
	assert.Equal(t, 45, s.BreakMinutesApplied, "break stays on record even when paid")
}

func TestApplyShiftEdit_RefreshesAllDerivedFields(t *testing.T) {
	// GIVEN: a stored 8h shift at wage 15
	s, err := shift.NewManualShift(baseManualInput(), time.UTC)
	require.NoError(t, err)
	assertDecEqual(t, dec("120"), s.HourlyPay)

	// WHEN: the wage and tips are edited
	wage := dec("20")
	cash := dec("12.50")
	edited, err := shift.ApplyShiftEdit(*s, shift.ShiftEdits{HourlyWage: &wage, CashTips: &cash}, time.UTC)
	require.NoError(t, err)

	// THEN: every derived field reflects the new sources together
	assertDecEqual(t, dec("8"), edited.WorkedHours)
	assertDecEqual(t, dec("160"), edited.HourlyPay)
	assertDecEqual(t, dec("12.50"), edited.TotalTips)
	assertDecEqual(t, dec("172.50"), edited.TotalEarned)
	assert.Equal(t, s.ID, edited.ID, "identity is stable across edits")
}

func TestApplyShiftEdit_TimeEditRenormalizesAndMovesLocalDate(t *testing.T) {
	s, err := shift.NewManualShift(baseManualInput(), time.UTC)
	require.NoError(t, err)

	// Move the start to 23:00 on Jan 5 with an 03:00 end on the form.
	start := time.Date(2024, time.January, 5, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 5, 3, 0, 0, 0, time.UTC)
	edited, err := shift.ApplyShiftEdit(*s, shift.ShiftEdits{StartTime: &start, EndTime: &end}, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", edited.LocalDate.String())
	assert.Equal(t, 240, edited.WorkedMinutes)
	assert.Equal(t, 6, edited.EndTime.Day())
}

func TestApplyShiftEdit_EqualClockTimesNormalizeToFullDay(t *testing.T) {
	// An end edit landing on the start's clock time is read as "24 hours
	// later", the same rule the add-shift form follows.
	s, err := shift.NewManualShift(baseManualInput(), time.UTC)
	require.NoError(t, err)

	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	end := start
	edited, err := shift.ApplyShiftEdit(*s, shift.ShiftEdits{StartTime: &start, EndTime: &end}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1440, edited.WorkedMinutes)
}

func TestApplyShiftEdit_BreakEditReclamps(t *testing.T) {
	s, err := shift.NewManualShift(baseManualInput(), time.UTC)
	require.NoError(t, err)

	br := 10_000
	unpaid := true
	edited, err := shift.ApplyShiftEdit(*s, shift.ShiftEdits{BreakMinutes: &br, UnpaidBreak: &unpaid}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shift.MaxBreakMinutes, edited.BreakMinutesApplied)
	assert.Equal(t, 240, edited.WorkedMinutes)
}
