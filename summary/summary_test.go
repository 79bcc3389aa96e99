package summary_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise/shift-engine/shift"
	"github.com/clockwise/shift-engine/summary"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func shiftOn(t *testing.T, date string, minutes int, earned string) shift.Shift {
	t.Helper()
	d, err := shift.ParseLocalDate(date)
	require.NoError(t, err)
	return shift.Shift{
		ID:            shift.NewShiftID(),
		LocalDate:     d,
		WorkedMinutes: minutes,
		WorkedHours:   dec("0"),
		HourlyPay:     dec("0"),
		TotalTips:     dec("0"),
		TotalEarned:   dec(earned),
	}
}

func TestBucketize_ByDay(t *testing.T) {
	shifts := []shift.Shift{
		shiftOn(t, "2024-01-15", 480, "150"),
		shiftOn(t, "2024-01-15", 240, "60.50"),
		shiftOn(t, "2024-01-16", 300, "75"),
	}

	buckets := summary.Bucketize(shifts, summary.ByDay)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-01-15", buckets[0].Key)
	assert.Equal(t, 2, buckets[0].ShiftCount)
	assert.Equal(t, 720, buckets[0].WorkedMinutes)
	assert.True(t, dec("210.50").Equal(buckets[0].TotalEarned))

	assert.Equal(t, "2024-01-16", buckets[1].Key)
	assert.Equal(t, 1, buckets[1].ShiftCount)
}

func TestBucketize_OvernightShiftCountsOnceUnderStartDay(t *testing.T) {
	// GIVEN: a shift that started Jan 15 at 22:00 and ended Jan 16
	s := shiftOn(t, "2024-01-15", 480, "100")
	s.StartTime = time.Date(2024, time.January, 15, 22, 0, 0, 0, time.UTC)
	s.EndTime = time.Date(2024, time.January, 16, 6, 0, 0, 0, time.UTC)

	buckets := summary.Bucketize([]shift.Shift{s}, summary.ByDay)

	// THEN: one bucket, keyed by the start day; nothing under Jan 16
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-01-15", buckets[0].Key)
	assert.Equal(t, 1, buckets[0].ShiftCount)
}

func TestKey_WeekAndMonthFormats(t *testing.T) {
	d, err := shift.ParseLocalDate("2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", summary.Key(d, summary.ByDay))
	assert.Equal(t, "2024-W03", summary.Key(d, summary.ByWeek))
	assert.Equal(t, "2024-01", summary.Key(d, summary.ByMonth))
}

func TestKey_ISOWeekYearBoundary(t *testing.T) {
	// Dec 30 2024 falls in ISO week 1 of 2025.
	d, err := shift.ParseLocalDate("2024-12-30")
	require.NoError(t, err)
	assert.Equal(t, "2025-W01", summary.Key(d, summary.ByWeek))
}

func TestBucketize_SortsChronologically(t *testing.T) {
	shifts := []shift.Shift{
		shiftOn(t, "2024-03-01", 60, "10"),
		shiftOn(t, "2024-01-20", 60, "10"),
		shiftOn(t, "2024-02-10", 60, "10"),
	}

	buckets := summary.Bucketize(shifts, summary.ByMonth)
	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-01", buckets[0].Key)
	assert.Equal(t, "2024-02", buckets[1].Key)
	assert.Equal(t, "2024-03", buckets[2].Key)
}

func TestFilterRange(t *testing.T) {
	shifts := []shift.Shift{
		shiftOn(t, "2024-01-10", 60, "10"),
		shiftOn(t, "2024-01-15", 60, "10"),
		shiftOn(t, "2024-01-20", 60, "10"),
	}
	from, _ := shift.ParseLocalDate("2024-01-12")
	to, _ := shift.ParseLocalDate("2024-01-15")

	got := summary.FilterRange(shifts, from, to)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-15", got[0].LocalDate.String())

	// Open bounds.
	var zero shift.LocalDate
	assert.Len(t, summary.FilterRange(shifts, zero, to), 2)
	assert.Len(t, summary.FilterRange(shifts, from, zero), 2)
	assert.Len(t, summary.FilterRange(shifts, zero, zero), 3)
}
