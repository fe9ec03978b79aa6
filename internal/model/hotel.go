package model

import "time"

// Hotel is a collection site. The registry is owned elsewhere; this service only reads it.
type Hotel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:254" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
