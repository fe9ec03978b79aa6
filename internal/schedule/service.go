// Package schedule keeps the rolling window of weekly collection schedules
// generated, retires old weeks and runs the entry write path.
package schedule

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/lateness"
	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

// ErrValidation marks input rejected before it reaches the store.
var ErrValidation = errors.New("invalid input")

// lookaheadOffsets are the future weeks that must always be fully generated.
var lookaheadOffsets = []int{1, 2}

// Service orchestrates schedule generation and the entry write path.
type Service struct {
	store   store.Store
	clock   week.Clock
	emitter *lateness.Emitter
	logger  *zap.Logger
}

// NewService creates a schedule service. A nil emitter disables lateness checks.
func NewService(st store.Store, clock week.Clock, emitter *lateness.Emitter, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		clock:   clock,
		emitter: emitter,
		logger:  logger.Named("schedule"),
	}
}

// Now is the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	return s.store.ListHotels(ctx)
}

// ListAlerts returns the newest alerts first. A limit <= 0 returns all of them.
func (s *Service) ListAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	return s.store.ListAlerts(ctx, limit)
}

// checkLateness runs the emitter over freshly written entries. Alert failures are
// logged and never fail the write.
func (s *Service) checkLateness(ctx context.Context, entries ...model.ScheduleEntry) *model.AlertRecord {
	if s.emitter == nil {
		return nil
	}

	var last *model.AlertRecord
	for _, entry := range entries {
		alert, err := s.emitter.Check(ctx, entry)
		if err != nil {
			s.logger.Error("failed to record late service alert",
				zap.String("schedule_entry_id", entry.ID),
				zap.Error(err),
			)
			continue
		}
		if alert != nil {
			last = alert
		}
	}
	return last
}
