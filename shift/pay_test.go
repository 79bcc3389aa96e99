package shift_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clockwise/shift-engine/shift"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecEqual compares decimals by value, not representation, so
// 8 == 8.00 passes with a readable failure message.
func assertDecEqual(t *testing.T, want, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// =============================================================================
// DETERMINISM
// =============================================================================

func TestComputePay_EightHourShiftWithTips(t *testing.T) {
	// GIVEN: 480 net minutes at 15.00/h with 20 cash + 10 credit tips
	got := shift.ComputePay(480, dec("15"), dec("20"), dec("10"))

	// THEN: the canonical breakdown
	assertDecEqual(t, dec("8"), got.WorkedHours)
	assertDecEqual(t, dec("120"), got.HourlyPay)
	assertDecEqual(t, dec("30"), got.TotalTips)
	assertDecEqual(t, dec("150"), got.TotalEarned)
}

func TestComputePay_ZeroMinutes(t *testing.T) {
	got := shift.ComputePay(0, dec("15"), dec("0"), dec("0"))
	assertDecEqual(t, dec("0"), got.WorkedHours)
	assertDecEqual(t, dec("0"), got.HourlyPay)
	assertDecEqual(t, dec("0"), got.TotalEarned)
}

// =============================================================================
// PRECISION CONTRACT
// =============================================================================

func TestComputePay_HourlyPayUsesUnroundedHours(t *testing.T) {
	// GIVEN: 37 minutes at 17.77/h. Exact hours = 0.61666..., which
	// displays as 0.62. Pay from the exact fraction is 10.96; pay from
	// the rounded display value would be 11.02.
	got := shift.ComputePay(37, dec("17.77"), dec("0"), dec("0"))

	assertDecEqual(t, dec("0.62"), got.WorkedHours)
	assertDecEqual(t, dec("10.96"), got.HourlyPay, "must not compound display rounding")
}

func TestComputePay_RoundsHalfAwayFromZero(t *testing.T) {
	// 30 minutes at 15.45/h = 7.725 exactly; half rounds away to 7.73.
	got := shift.ComputePay(30, dec("15.45"), dec("0"), dec("0"))
	assertDecEqual(t, dec("7.73"), got.HourlyPay)

	// Tip cents: 0.125 + 0.0 -> 0.13.
	got = shift.ComputePay(0, dec("0"), dec("0.125"), dec("0"))
	assertDecEqual(t, dec("0.13"), got.TotalTips)
}

func TestComputePay_TotalsAreConsistent(t *testing.T) {
	for _, minutes := range []int{1, 37, 59, 60, 61, 480, 840} {
		got := shift.ComputePay(minutes, dec("13.33"), dec("12.34"), dec("5.67"))
		assertDecEqual(t, got.HourlyPay.Add(got.TotalTips).Round(2), got.TotalEarned,
			"minutes=%d", minutes)
	}
}
