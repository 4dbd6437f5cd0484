package tabular

import (
	"time"
)

// Date represents a calendar date without a time component. Two events on
// the same calendar day compare equal regardless of time-of-day noise in
// the source data.
type Date struct {
	time.Time
}

// NewDate creates a Date from a time.Time, discarding the time component.
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf creates a Date from year, month and day.
func DateOf(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether both dates fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// AddMonths returns the date n calendar months later (earlier for
// negative n), normalized by the standard library's AddDate rules.
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Time.AddDate(0, n, 0))
}

// String renders the date in day-first format, matching the source
// extracts.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// YearsBetween returns the whole calendar years elapsed from start to
// end, decremented by one when end's (month, day) has not yet reached
// start's. This is the usual birthday rule.
func YearsBetween(start, end Date) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}

// MonthsBetween returns the whole calendar months elapsed from start to
// end, decremented by one when end's day of month has not yet reached
// start's. Calendar arithmetic keeps leap years from skewing interval
// boundaries.
func MonthsBetween(start, end Date) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
