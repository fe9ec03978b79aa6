package schedule

import (
	"context"

	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/week"
)

// CleanupOldSchedules deletes weeks that start before the current Monday minus
// keepWeeks weeks. A negative keepWeeks is treated as 0.
func (s *Service) CleanupOldSchedules(ctx context.Context, keepWeeks int) CleanupResult {
	if keepWeeks < 0 {
		keepWeeks = 0
	}
	cutoff := week.CurrentMonday(s.clock.Now()).AddDate(0, 0, -7*keepWeeks)

	deleted, err := s.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("schedule cleanup failed", zap.String("cutoff", week.FormatDate(cutoff)), zap.Error(err))
		return CleanupResult{Action: ActionError, Error: err.Error()}
	}

	if deleted > 0 {
		s.logger.Info("removed old schedule entries",
			zap.Int64("deleted", deleted),
			zap.String("cutoff", week.FormatDate(cutoff)),
		)
	}
	return CleanupResult{Action: ActionCleaned, Deleted: deleted, CutoffDate: week.FormatDate(cutoff)}
}
