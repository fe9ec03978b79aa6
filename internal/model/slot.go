package model

import (
	"fmt"
	"slices"
	"time"
)

// Day is a weekday name as persisted on a schedule entry.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the week in order, starting Monday.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index is the day's offset from Monday, or -1 for an unknown name.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

func (d Day) Valid() bool { return d.Index() >= 0 }

// DayOf returns the weekday name of t in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Weekday().String())
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On places the time of day on date's calendar day, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Slot is one of the fixed collection time ranges.
type Slot string

const (
	SlotMorning  Slot = "Morning"
	SlotExtended Slot = "Extended"
)

// Slots lists every slot generated for each day.
var Slots = []Slot{SlotMorning, SlotExtended}

// SlotWindow is the structured time range behind a slot.
type SlotWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

var slotWindows = map[Slot]SlotWindow{
	SlotMorning:  {Start: TimeOfDay{Hour: 6}, End: TimeOfDay{Hour: 12}},
	SlotExtended: {Start: TimeOfDay{Hour: 6}, End: TimeOfDay{Hour: 18}},
}

// Window returns the slot's time range; ok is false for unknown slots.
func (s Slot) Window() (SlotWindow, bool) {
	w, ok := slotWindows[s]
	return w, ok
}

// Index is the slot's position in Slots, or -1 for an unknown slot.
func (s Slot) Index() int {
	return slices.Index(Slots, s)
}

func (s Slot) Valid() bool {
	_, ok := slotWindows[s]
	return ok
}

// Display renders the slot with its range, e.g. "Morning (06:00 - 12:00)".
func (s Slot) Display() string {
	w, ok := s.Window()
	if !ok {
		return string(s)
	}
	return fmt.Sprintf("%s (%s - %s)", s, w.Start, w.End)
}

// Status is the operator-managed progress of a collection.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
