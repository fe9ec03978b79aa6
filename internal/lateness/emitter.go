package lateness

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

// Notifier receives alerts once they are durable. Implementations must not block.
type Notifier interface {
	NotifyLateService(alert model.AlertRecord)
}

// AlertWriter is the persistence the emitter needs.
type AlertWriter interface {
	CreateAlert(ctx context.Context, alert *model.AlertRecord) error
}

// Emitter checks written entries for lateness and raises alerts.
type Emitter struct {
	alerts   AlertWriter
	notifier Notifier
	clock    week.Clock
	logger   *zap.Logger
}

// NewEmitter creates an Emitter. A nil notifier disables the hand-off.
func NewEmitter(alerts AlertWriter, notifier Notifier, clock week.Clock, logger *zap.Logger) *Emitter {
	return &Emitter{alerts: alerts, notifier: notifier, clock: clock, logger: logger}
}

// Check evaluates entry against the clock and emits an alert when it is late.
// It returns the new alert, or nil when the entry is on time.
func (e *Emitter) Check(ctx context.Context, entry model.ScheduleEntry) (*model.AlertRecord, error) {
	if !IsLate(entry, e.clock.Now()) {
		return nil, nil
	}
	return e.Emit(ctx, entry)
}

// Emit records a LateService alert for entry and hands it to the notifier.
// Repeated calls for the same entry each produce a new record.
func (e *Emitter) Emit(ctx context.Context, entry model.ScheduleEntry) (*model.AlertRecord, error) {
	alert := model.AlertRecord{
		ID:              uuid.NewString(),
		ScheduleEntryID: entry.ID,
		HotelID:         entry.HotelID,
		AlertType:       model.AlertTypeLateService,
		Severity:        model.SeverityCritical,
		CreatedAt:       e.clock.Now().UTC(),
	}
	if err := e.alerts.CreateAlert(ctx, &alert); err != nil {
		return nil, err
	}

	e.logger.Warn("late service detected",
		zap.String("alert_id", alert.ID),
		zap.String("schedule_entry_id", entry.ID),
		zap.String("hotel_id", entry.HotelID),
		zap.String("day", string(entry.Day)),
		zap.String("slot", string(entry.Slot)),
	)

	if e.notifier != nil {
		e.notifier.NotifyLateService(alert)
	}
	return &alert, nil
}
