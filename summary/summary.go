/*
Package summary buckets finalized shifts into day, week and month views.

PURPOSE:
  The history screens group shifts by the local calendar day they are
  attributed to and show per-bucket totals. Bucketing always keys off
  Shift.LocalDate - the day the shift STARTED - so an overnight shift
  appears once, under its start day, never split or duplicated.

SEE ALSO:
  - shift/time.go: LocalDate and ISO week arithmetic
*/
package summary

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/clockwise/shift-engine/shift"
)

type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// Bucket is one row of a summary view. Money totals are plain sums of
// the stored derived fields; nothing is recomputed from source fields.
type Bucket struct {
	Key string `json:"key"` // "2024-01-15", "2024-W03" or "2024-01"

	ShiftCount    int             `json:"shift_count"`
	WorkedMinutes int             `json:"worked_minutes"`
	WorkedHours   decimal.Decimal `json:"worked_hours"`
	HourlyPay     decimal.Decimal `json:"hourly_pay"`
	TotalTips     decimal.Decimal `json:"total_tips"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
}

// Key computes the bucket key of a date at granularity g.
func Key(d shift.LocalDate, g Granularity) string {
	switch g {
	case ByWeek:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case ByMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	default:
		return d.String()
	}
}

// Bucketize groups shifts by their localDate at granularity g and sums
// the stored totals. Buckets come back sorted by key ascending, which
// for these key formats is chronological order.
func Bucketize(shifts []shift.Shift, g Granularity) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, s := range shifts {
		k := Key(s.LocalDate, g)
		b, ok := byKey[k]
		if !ok {
			b = &Bucket{
				Key:         k,
				WorkedHours: decimal.Zero,
				HourlyPay:   decimal.Zero,
				TotalTips:   decimal.Zero,
				TotalEarned: decimal.Zero,
			}
			byKey[k] = b
		}
		b.ShiftCount++
		b.WorkedMinutes += s.WorkedMinutes
		b.WorkedHours = b.WorkedHours.Add(s.WorkedHours)
		b.HourlyPay = b.HourlyPay.Add(s.HourlyPay)
		b.TotalTips = b.TotalTips.Add(s.TotalTips)
		b.TotalEarned = b.TotalEarned.Add(s.TotalEarned)
	}

	result := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// FilterRange keeps shifts whose localDate falls in [from, to]. A zero
// LocalDate bound is open.
func FilterRange(shifts []shift.Shift, from, to shift.LocalDate) []shift.Shift {
	var zero shift.LocalDate
	var result []shift.Shift
	for _, s := range shifts {
		if from != zero && s.LocalDate.Before(from) {
			continue
		}
		if to != zero && s.LocalDate.After(to) {
			continue
		}
		result = append(result, s)
	}
	return result
}
