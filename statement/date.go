/*
date.go - Day-granular calendar dates

PURPOSE:
  All statement arithmetic operates on whole calendar days. Date wraps
  time.Time pinned to midnight UTC so that comparisons never depend on
  clock time or zone of the caller.

KEY OPERATIONS:
  - NewDate / ParseDate / DateOf: constructors
  - Before/After/Equal and the OrEqual variants: comparisons
  - AddDays: day arithmetic (month and year rollover handled by time.Time)
  - DaysIn / clampDay: month-length aware clamping for statement days

SEE ALSO:
  - period.go: statement period resolution built on these dates
*/
package statement

import "time"

// Date is a calendar date at day granularity, always UTC midnight.
type Date struct {
	Time time.Time
}

// NewDate constructs a date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date, discarding time-of-day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// DaysBetween returns the number of whole days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// DaysIn returns the number of days in the given month (28/29/30/31).
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay bounds a statement day to a real day of the target month.
// Day 31 in February becomes 28 (or 29 in a leap year). Clamping is the
// specified behavior for short months, never an error.
func clampDay(year int, month time.Month, day int) int {
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}
