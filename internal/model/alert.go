package model

import "time"

const (
	AlertTypeLateService = "LateService"
	SeverityCritical     = "Critical"
)

// AlertRecord marks a schedule entry seen still pending past its slot end.
// It is append-only and deliberately not tied to the entry by a foreign key,
// so it survives retention cleanup.
type AlertRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ScheduleEntryID string    `gorm:"size:36;not null;index" json:"schedule_entry_id"`
	HotelID         string    `gorm:"size:36;not null;index" json:"hotel_id"`
	AlertType       string    `gorm:"size:32;not null" json:"alert_type"`
	Severity        string    `gorm:"size:16;not null" json:"severity"`
	CreatedAt       time.Time `gorm:"not null;index" json:"created_at"`
}
