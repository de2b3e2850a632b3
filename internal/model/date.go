// Package model defines domain types for hvault series and estimates.
package model

import "time"

// Days are date-only values pinned to midnight UTC. All day arithmetic
// uses fixed 24h days, so counts never shift across DST transitions.

// NewDate returns the given calendar day at midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar day at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the day n 24h-days after d.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b (negative
// when b precedes a). Both arguments are normalized to days first.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// StartOfWeek returns the most recent day on or before d whose weekday
// matches firstWeekday (1=Sunday .. 7=Saturday). Out-of-range values
// fall back to Monday.
func StartOfWeek(d time.Time, firstWeekday int) time.Time {
	if firstWeekday < 1 || firstWeekday > 7 {
		firstWeekday = 2
	}
	day := DateOf(d)
	// time.Weekday is 0=Sunday; config weekdays are 1=Sunday.
	back := (int(day.Weekday()) - (firstWeekday - 1) + 7) % 7
	return AddDays(day, -back)
}
