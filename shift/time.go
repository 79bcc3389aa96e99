/*
time.go - Local-day boundaries, overnight normalization, break math

PURPOSE:
  Pure time arithmetic for the shift engine. Everything here is a
  function of its inputs; the only clock in the system is the Clock
  interface injected into PunchLifecycle.

KEY RULES:
  - A shift belongs to the local calendar day it STARTED on, even when
    it crosses midnight.
  - NormalizeEnd compares time-of-day only: an end clock-time at or
    before the start clock-time is assumed to mean "the next day".
  - Break minutes are clamped to [0, 240] at the input edges
    (ClampBreakMinutes); DeductBreak trusts its caller already clamped.

SEE ALSO:
  - pay.go: Consumes the minute counts produced here
  - lifecycle.go: Injects Clock and local time.Location
*/
package shift

import (
	"fmt"
	"math"
	"time"
)

// MaxBreakMinutes is the upper clamp for a break, 4 hours.
const MaxBreakMinutes = 240

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock abstracts time.Now so the lifecycle is testable with a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// =============================================================================
// LOCAL DATE - Calendar day in the user's timezone
// =============================================================================

// LocalDate is a calendar day (no time-of-day, no zone stored). It is the
// bucketing key for day/week/month views and the day a shift is
// attributed to.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// LocalDateOf extracts the calendar day of an instant under loc.
// A nil loc means time.Local.
func LocalDateOf(t time.Time, loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in loc. Used for bucketing math.
func (d LocalDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d LocalDate) Equal(other LocalDate) bool { return d == other }
func (d LocalDate) After(other LocalDate) bool { return other.Before(d) }

func (d LocalDate) AddDays(n int) LocalDate {
	y, m, dd := d.Time(time.UTC).AddDate(0, 0, n).Date()
	return LocalDate{Year: y, Month: m, Day: dd}
}

// ISOWeek returns the ISO 8601 year and week number of the date.
func (d LocalDate) ISOWeek() (year, week int) {
	return d.Time(time.UTC).ISOWeek()
}

// ParseLocalDate parses "YYYY-MM-DD".
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid local date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}, nil
}

// =============================================================================
// OVERNIGHT NORMALIZATION
// =============================================================================

// NormalizeEnd resolves the overnight-shift ambiguity of a manually
// entered end time. The comparison is time-of-day only: if end's
// minute-of-day is at or before start's, end is advanced by exactly one
// calendar day. A same-day end that is earlier by clock time (start
// 22:00, end 06:00) is therefore always pushed to the next day; there is
// no way to express a sub-day shift that crosses midnight other than
// through this rule.
func NormalizeEnd(start, end time.Time) time.Time {
	if minuteOfDay(end) <= minuteOfDay(start) {
		return end.AddDate(0, 0, 1)
	}
	return end
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// =============================================================================
// MINUTE ARITHMETIC
// =============================================================================

// MinutesBetween returns the whole minutes from start to end, rounded to
// nearest, floored at 0.
func MinutesBetween(start, end time.Time) int {
	m := math.Round(end.Sub(start).Minutes())
	if m < 0 {
		return 0
	}
	return int(m)
}

// DeductBreak subtracts an unpaid break from worked minutes. The result
// never goes negative. Break minutes must already be clamped by the
// caller (see ClampBreakMinutes).
func DeductBreak(workedMinutes int, unpaidBreakEnabled bool, breakMinutes int) int {
	if !unpaidBreakEnabled {
		return workedMinutes
	}
	net := workedMinutes - breakMinutes
	if net < 0 {
		return 0
	}
	return net
}

// ClampBreakMinutes clamps user-entered break minutes to [0, MaxBreakMinutes].
// Applied at the input edges (API decode, manual entry), never inside
// DeductBreak.
func ClampBreakMinutes(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxBreakMinutes {
		return MaxBreakMinutes
	}
	return n
}
