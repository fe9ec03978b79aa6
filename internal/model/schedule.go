package model

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleEntry is one hotel's collection slot on one day of one week.
// (HotelID, Day, Slot, WeekStartDate) is unique.
type ScheduleEntry struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	HotelID         string         `gorm:"size:36;not null;uniqueIndex:idx_schedule_entry_key,priority:1" json:"hotel_id"`
	Day             Day            `gorm:"size:16;not null;uniqueIndex:idx_schedule_entry_key,priority:2" json:"day"`
	Slot            Slot           `gorm:"size:16;not null;uniqueIndex:idx_schedule_entry_key,priority:3" json:"slot"`
	WeekStartDate   datatypes.Date `gorm:"not null;index;uniqueIndex:idx_schedule_entry_key,priority:4" json:"-"`
	Status          Status         `gorm:"size:16;not null" json:"status"`
	IsVisible       bool           `gorm:"not null" json:"is_visible"`
	CompletionNotes string         `gorm:"type:text;not null" json:"completion_notes"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`

	// Associations
	Hotel *Hotel `gorm:"constraint:OnDelete:CASCADE" json:"hotel,omitempty"`
}

// WeekStart returns the entry's Monday as a time.Time.
func (e ScheduleEntry) WeekStart() time.Time {
	return time.Time(e.WeekStartDate)
}

// Date is the calendar day the entry is scheduled on, or the zero time when the
// week start or day is missing.
func (e ScheduleEntry) Date() time.Time {
	ws := e.WeekStart()
	idx := e.Day.Index()
	if ws.IsZero() || idx < 0 {
		return time.Time{}
	}
	return ws.AddDate(0, 0, idx)
}
