/*
period.go - Statement period resolution

PURPOSE:
  A credit card statement period is the month-wide window between two
  consecutive statement-generation dates. Given a transaction date and a
  card's statement day, ResolvePeriod returns the enclosing period.

ALGORITHM:
  - Transaction on or before the statement day of its month: the period
    ENDS in that month on the (clamped) statement day and started the day
    after the previous month's (clamped) statement day.
  - Transaction after the statement day: the period STARTS the day after
    this month's (clamped) statement day and ends on the next month's
    (clamped) statement day.

INVARIANTS:
  1. Both boundaries are inclusive.
  2. For a fixed statement day, periods of consecutive months are
     contiguous and non-overlapping: every date falls in exactly one.
  3. Resolution is pure. Same inputs, same output, no hidden state.

EDGE CASES:
  - Statement day beyond the end of a month clamps to the month's last
    day (31 -> Feb 28/29).
  - January resolves its previous month into December of the prior year;
    December resolves its next month into January of the following year.
*/
package statement

import "time"

// Period is one statement cycle: [Start, End], both inclusive.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether the date falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Next returns the immediately following statement period for the same
// statement day.
func (p Period) Next(statementDay int) Period {
	return ResolvePeriod(p.End.AddDays(1), statementDay)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// ResolvePeriod returns the statement period containing the given date
// for a card whose statement is generated on statementDay (1-31).
//
// A date exactly on the statement day belongs to the period ending that
// month, not the next one.
func ResolvePeriod(d Date, statementDay int) Period {
	if d.Day() <= statementDay {
		// Period ends in the transaction's own month.
		end := onStatementDay(d.Year(), d.Month(), statementDay)
		prevYear, prevMonth := monthBefore(d.Year(), d.Month())
		start := onStatementDay(prevYear, prevMonth, statementDay).AddDays(1)
		return Period{Start: start, End: end}
	}

	// Period starts in the transaction's own month.
	start := onStatementDay(d.Year(), d.Month(), statementDay).AddDays(1)
	nextYear, nextMonth := monthAfter(d.Year(), d.Month())
	end := onStatementDay(nextYear, nextMonth, statementDay)
	return Period{Start: start, End: end}
}

// onStatementDay returns the statement date within a month, clamped to
// the month's actual length.
func onStatementDay(year int, month time.Month, statementDay int) Date {
	return NewDate(year, month, clampDay(year, month, statementDay))
}

func monthBefore(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func monthAfter(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
