package schedule

import (
	"context"

	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/week"
)

// EnsureUpcomingWeeks regenerates the next two weeks so the lookahead is always
// complete. Concurrent calls converge on one row per key.
func (s *Service) EnsureUpcomingWeeks(ctx context.Context) MaintenanceResult {
	now := s.clock.Now()

	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		s.logger.Error("lookahead maintenance failed", zap.Error(err))
		return MaintenanceResult{Action: ActionError, Error: err.Error(), Timestamp: now}
	}

	results := make([]WeekResult, 0, len(lookaheadOffsets))
	for _, offset := range lookaheadOffsets {
		monday := week.MondayForOffset(now, offset)
		created, _ := s.generate(ctx, monday, hotels)
		results = append(results, WeekResult{
			WeekStart: week.FormatDate(monday),
			Action:    ActionRegenerated,
			Created:   len(created),
		})
	}

	return MaintenanceResult{Action: ActionMaintained, Results: results, Timestamp: now}
}

// AutoInitialize generates the current week when hotels exist. Creating any
// current-week rows also tops up the lookahead through generate.
func (s *Service) AutoInitialize(ctx context.Context) InitResult {
	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		s.logger.Error("auto initialization failed", zap.Error(err))
		return InitResult{Action: ActionError, Error: err.Error()}
	}
	if len(hotels) == 0 {
		return InitResult{Action: ActionSkipped, Reason: "No hotels found"}
	}

	monday := week.CurrentMonday(s.clock.Now())
	created, err := s.generate(ctx, monday, hotels)
	if err != nil {
		return InitResult{Action: ActionError, WeekStart: week.FormatDate(monday), Error: err.Error()}
	}

	s.logger.Info("auto initialization complete",
		zap.String("week_start", week.FormatDate(monday)),
		zap.Int("created", len(created)),
	)
	return InitResult{Action: ActionInitialized, WeekStart: week.FormatDate(monday), Created: len(created)}
}
