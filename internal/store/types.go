package store

import (
	"errors"

	"hotel-waste-scheduler/internal/model"
)

var (
	ErrEntryNotFound  = errors.New("schedule entry not found")
	ErrHotelNotFound  = errors.New("hotel not found")
	ErrDuplicateEntry = errors.New("schedule entry already exists for hotel, day, slot and week")

	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// EntryPatch carries the operator-editable fields of a schedule entry. Nil fields
// are left unchanged.
type EntryPatch struct {
	Status          *model.Status
	CompletionNotes *string
	IsVisible       *bool
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Status == nil && p.CompletionNotes == nil && p.IsVisible == nil
}
