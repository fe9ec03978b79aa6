// Package lateness decides whether a pending collection has overrun its slot and
// records the resulting alert.
package lateness

import (
	"time"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

// GracePeriod is the tolerance after a slot's end before a pending entry is late.
const GracePeriod = 15 * time.Minute

// IsLate reports whether entry is still pending more than GracePeriod after its
// slot ended today. Unknown slots, days or a missing week start are never late.
// The entry is not modified.
func IsLate(entry model.ScheduleEntry, now time.Time) bool {
	if entry.Status != model.StatusPending {
		return false
	}
	if entry.Day != model.DayOf(now) {
		return false
	}

	// Only today's occurrence of that weekday counts, not the same weekday in
	// another week still waiting in the table.
	date := entry.Date()
	if date.IsZero() || !week.SameDate(date, now) {
		return false
	}

	window, ok := entry.Slot.Window()
	if !ok {
		return false
	}

	deadline := window.End.On(now).Add(GracePeriod)
	return now.After(deadline)
}
