package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

// RegenerateWeek fills in every missing (hotel, day, slot) row of the week starting
// at weekStart and returns how many rows it created. Existing rows are untouched.
// A non-Monday date is moved back to its Monday. Failures are logged and yield 0.
// New rows in the current week also top up the lookahead.
func (s *Service) RegenerateWeek(ctx context.Context, weekStart time.Time) int {
	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		s.logger.Error("week generation aborted", zap.String("week_start", week.FormatDate(weekStart)), zap.Error(err))
		return 0
	}
	created, _ := s.generate(ctx, week.MondayOf(weekStart), hotels)
	return len(created)
}

// generate upserts one week for hotels. The error is already logged. Creating
// rows in the current week runs EnsureUpcomingWeeks once.
func (s *Service) generate(ctx context.Context, monday time.Time, hotels []model.Hotel) ([]model.ScheduleEntry, error) {
	if len(hotels) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	created, err := s.store.UpsertWeek(ctx, monday, hotels, now.UTC())
	if err != nil {
		s.logger.Error("week generation rolled back",
			zap.String("week_start", week.FormatDate(monday)),
			zap.Int("hotels", len(hotels)),
			zap.Error(err),
		)
		return nil, err
	}

	if len(created) > 0 {
		s.logger.Info("generated schedule entries",
			zap.String("week_start", week.FormatDate(monday)),
			zap.Int("created", len(created)),
		)
		s.checkLateness(ctx, created...)

		if week.SameDate(monday, week.CurrentMonday(now)) {
			s.EnsureUpcomingWeeks(ctx)
		}
	}
	return created, nil
}
