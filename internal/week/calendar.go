// Package week holds the calendar arithmetic behind the rolling schedule window.
// Every function is pure; "now" always comes from the caller, normally via a Clock.
package week

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for week start dates.
const DateLayout = "2006-01-02"

// CurrentMonday returns the Monday of the week containing now, as midnight UTC of
// that calendar date. The weekday is taken from now's own location.
func CurrentMonday(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	back := (int(now.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// MondayForOffset returns the Monday weeksAhead weeks after the current one.
func MondayForOffset(now time.Time, weeksAhead int) time.Time {
	return CurrentMonday(now).AddDate(0, 0, weeksAhead*7)
}

// MondayOf normalises any date to the Monday of its week.
func MondayOf(date time.Time) time.Time {
	return CurrentMonday(date)
}

// Label is the human label for a week offset.
func Label(weeksAhead int) string {
	switch weeksAhead {
	case 0:
		return "This Week"
	case 1:
		return "Next Week"
	case 2:
		return "Week After Next"
	}
	return fmt.Sprintf("%d Weeks Ahead", weeksAhead)
}

// IsMonday reports whether date falls on a Monday.
func IsMonday(date time.Time) bool {
	return date.Weekday() == time.Monday
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day, each read in its
// own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
