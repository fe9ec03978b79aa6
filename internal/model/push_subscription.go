package model

import "time"

// PushSubscription is an operator browser subscribed to late-service alerts
// for a set of hotels.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Hotels []*Hotel `gorm:"many2many:subscription_hotel_mapping;"`
}
