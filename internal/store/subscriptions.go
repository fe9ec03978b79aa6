package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-waste-scheduler/internal/model"
)

// SaveSubscription upserts sub by endpoint and replaces its hotel set. Every
// hotel ID must exist.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription, hotelIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error
		if err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		hotels := []model.Hotel{}
		if len(hotelIDs) > 0 {
			if err := tx.Where("id IN ?", hotelIDs).Find(&hotels).Error; err != nil {
				return fmt.Errorf("failed to load subscribed hotels: %w", err)
			}
			if len(hotels) != len(uniqueStrings(hotelIDs)) {
				return ErrHotelNotFound
			}
		}

		if err := tx.Model(sub).Association("Hotels").Replace(&hotels); err != nil {
			return fmt.Errorf("failed to replace subscribed hotels: %w", err)
		}
		return nil
	})
}

// SubscribedHotelIDs returns the hotels mapped to endpoint.
func (s *gormStore) SubscribedHotelIDs(ctx context.Context, endpoint string) ([]string, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Hotels", func(db *gorm.DB) *gorm.DB {
		return db.Order("name, id")
	}).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	ids := make([]string, 0, len(sub.Hotels))
	for _, h := range sub.Hotels {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// DeleteSubscription removes endpoint and its hotel mappings. Unknown endpoints
// are not an error.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	sub := model.PushSubscription{Endpoint: endpoint}
	if err := s.db.WithContext(ctx).Select("Hotels").Delete(&sub).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func uniqueStrings(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, v := range in {
		set[v] = struct{}{}
	}
	return set
}
