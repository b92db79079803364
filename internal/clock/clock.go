// Package clock supplies "today" to the budget engine.
//
// The engine never reads the wall clock itself; callers resolve an effective
// date once per request and pass it down.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns T. Used by tests and tooling.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }

// Date builds a midnight UTC date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the time of day, keeping the calendar date of t in its own location.
func Day(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// EffectiveDate is today's date shifted by a signed number of days.
func EffectiveDate(now time.Time, offsetDays int) time.Time {
	return Day(now).AddDate(0, 0, offsetDays)
}

// Today resolves the effective date from c.
func Today(c Clock, offsetDays int) time.Time {
	return EffectiveDate(c.Now(), offsetDays)
}

// DaysBetween counts whole calendar days from a to b (negative if b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// WeekdayIndex maps t onto 0 = Monday ... 6 = Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -WeekdayIndex(d))
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// LastDayOfMonth jumps from the 28th past the month end and steps back by the
// day-of-month it lands on, which always yields the last calendar day.
func LastDayOfMonth(t time.Time) time.Time {
	next := Date(t.Year(), t.Month(), 28).AddDate(0, 0, 4)
	return next.AddDate(0, 0, -next.Day())
}
