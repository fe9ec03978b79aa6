package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-waste-scheduler/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ListHotels(ctx context.Context) ([]model.Hotel, error)
	CountHotels(ctx context.Context) (int64, error)

	UpsertWeek(ctx context.Context, weekStart time.Time, hotels []model.Hotel, now time.Time) ([]model.ScheduleEntry, error)
	CountWeek(ctx context.Context, weekStart time.Time) (int64, error)
	ListWeek(ctx context.Context, weekStart time.Time) ([]model.ScheduleEntry, error)
	ListPendingOn(ctx context.Context, weekStart time.Time, day model.Day) ([]model.ScheduleEntry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CreateEntry(ctx context.Context, entry *model.ScheduleEntry) error
	GetEntry(ctx context.Context, id string) (model.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, id string, patch EntryPatch) (model.ScheduleEntry, error)

	CreateAlert(ctx context.Context, alert *model.AlertRecord) error
	ListAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error)
	CountAlerts(ctx context.Context) (int64, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription, hotelIDs []string) error
	SubscribedHotelIDs(ctx context.Context, endpoint string) ([]string, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// entryKeyColumns is the idempotency key backed by idx_schedule_entry_key.
var entryKeyColumns = []clause.Column{{Name: "hotel_id"}, {Name: "day"}, {Name: "slot"}, {Name: "week_start_date"}}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	var hotels []model.Hotel
	if err := s.db.WithContext(ctx).Order("name, id").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

func (s *gormStore) CountHotels(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Hotel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return n, nil
}

// UpsertWeek inserts the full day/slot grid of one week for every hotel inside a
// single transaction. Rows whose key already exists are left untouched. Any failed
// insert rolls the whole week back. It returns only the rows it created.
func (s *gormStore) UpsertWeek(ctx context.Context, weekStart time.Time, hotels []model.Hotel, now time.Time) ([]model.ScheduleEntry, error) {
	var created []model.ScheduleEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created = created[:0]
		for _, hotel := range hotels {
			for _, day := range model.Days {
				for _, slot := range model.Slots {
					entry := model.ScheduleEntry{
						ID:              uuid.NewString(),
						HotelID:         hotel.ID,
						Day:             day,
						Slot:            slot,
						WeekStartDate:   datatypes.Date(weekStart),
						Status:          model.StatusPending,
						IsVisible:       true,
						CompletionNotes: "",
						CreatedAt:       now,
					}
					res := tx.Clauses(clause.OnConflict{Columns: entryKeyColumns, DoNothing: true}).Create(&entry)
					if res.Error != nil {
						return fmt.Errorf("failed to upsert %s %s %s for hotel %s: %w", weekStart.Format("2006-01-02"), day, slot, hotel.ID, res.Error)
					}
					if res.RowsAffected > 0 {
						created = append(created, entry)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *gormStore) CountWeek(ctx context.Context, weekStart time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Where("week_start_date = ?", datatypes.Date(weekStart)).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count week %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return n, nil
}

func (s *gormStore) ListWeek(ctx context.Context, weekStart time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := s.db.WithContext(ctx).Preload("Hotel").
		Where("week_start_date = ?", datatypes.Date(weekStart)).
		Order("hotel_id, day, slot").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list week %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return entries, nil
}

func (s *gormStore) ListPendingOn(ctx context.Context, weekStart time.Time, day model.Day) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := s.db.WithContext(ctx).Preload("Hotel").
		Where("week_start_date = ? AND day = ? AND status = ?", datatypes.Date(weekStart), day, model.StatusPending).
		Order("hotel_id, slot").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending entries for %s: %w", day, err)
	}
	return entries, nil
}

// DeleteBefore removes every entry whose week starts strictly before cutoff.
func (s *gormStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("week_start_date < ?", datatypes.Date(cutoff)).
		Delete(&model.ScheduleEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete schedules before %s: %w", cutoff.Format("2006-01-02"), res.Error)
	}
	return res.RowsAffected, nil
}

// CreateEntry inserts a single entry. A row with the same key yields ErrDuplicateEntry.
func (s *gormStore) CreateEntry(ctx context.Context, entry *model.ScheduleEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotel model.Hotel
		if err := tx.First(&hotel, "id = ?", entry.HotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHotelNotFound
			}
			return fmt.Errorf("failed to look up hotel %s: %w", entry.HotelID, err)
		}

		res := tx.Clauses(clause.OnConflict{Columns: entryKeyColumns, DoNothing: true}).Create(entry)
		if res.Error != nil {
			return fmt.Errorf("failed to create schedule entry: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDuplicateEntry
		}
		entry.Hotel = &hotel
		return nil
	})
}

func (s *gormStore) GetEntry(ctx context.Context, id string) (model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	if err := s.db.WithContext(ctx).Preload("Hotel").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ScheduleEntry{}, ErrEntryNotFound
		}
		return model.ScheduleEntry{}, fmt.Errorf("failed to get schedule entry %s: %w", id, err)
	}
	return entry, nil
}

// UpdateEntry applies an operator patch. Any status may be set from any other.
func (s *gormStore) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		updates := map[string]any{}
		if patch.Status != nil {
			updates["status"] = *patch.Status
		}
		if patch.CompletionNotes != nil {
			updates["completion_notes"] = *patch.CompletionNotes
		}
		if patch.IsVisible != nil {
			updates["is_visible"] = *patch.IsVisible
		}
		if len(updates) > 0 {
			if err := tx.Model(&entry).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Hotel").First(&entry, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return model.ScheduleEntry{}, err
		}
		return model.ScheduleEntry{}, fmt.Errorf("failed to update schedule entry %s: %w", id, err)
	}
	return entry, nil
}

func (s *gormStore) CreateAlert(ctx context.Context, alert *model.AlertRecord) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert for entry %s: %w", alert.ScheduleEntryID, err)
	}
	return nil
}

func (s *gormStore) ListAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	var alerts []model.AlertRecord
	q := s.db.WithContext(ctx).Order("created_at DESC, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (s *gormStore) CountAlerts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.AlertRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return n, nil
}
