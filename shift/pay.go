/*
pay.go - Pay breakdown computation

PURPOSE:
  Turns net worked minutes + wage + tips into the four stored money
  fields of a Shift. This is the single place pay is ever computed;
  the punch lifecycle, manual entry and every edit path all run
  through ComputePay.

PRECISION CONTRACT:
  HourlyPay is computed from the EXACT minutes/60 fraction, not from
  the already-rounded WorkedHours display value, so rounding error
  never compounds. Only final results are rounded (2 places, half away
  from zero).

SEE ALSO:
  - time.go: Produces the workedMinutes input
  - manual.go: Edit paths that must refresh all four fields together
*/
package shift

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// PayBreakdown is the derived money state of a Shift. All four fields
// are written together, always.
type PayBreakdown struct {
	WorkedHours decimal.Decimal
	HourlyPay   decimal.Decimal
	TotalTips   decimal.Decimal
	TotalEarned decimal.Decimal
}

// ComputePay derives the pay breakdown. It has no error conditions:
// negative inputs are the caller's responsibility to sanitize at the
// input edges (SanitizeMoney), not this function's.
func ComputePay(workedMinutes int, hourlyWage, cashTips, creditTips decimal.Decimal) PayBreakdown {
	exactHours := decimal.NewFromInt(int64(workedMinutes)).Div(minutesPerHour)

	hourlyPay := Round2(exactHours.Mul(hourlyWage))
	totalTips := Round2(cashTips.Add(creditTips))

	return PayBreakdown{
		WorkedHours: Round2(exactHours),
		HourlyPay:   hourlyPay,
		TotalTips:   totalTips,
		TotalEarned: Round2(hourlyPay.Add(totalTips)),
	}
}
