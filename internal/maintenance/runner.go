// Package maintenance drives the periodic upkeep of the schedule window.
package maintenance

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"hotel-waste-scheduler/config"
	"hotel-waste-scheduler/internal/mail"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

// Report summarises one maintenance cycle.
type Report struct {
	Maintenance schedule.MaintenanceResult `json:"maintenance"`
	Cleanup     *schedule.CleanupResult    `json:"cleanup,omitempty"`
	Apologies   int                        `json:"apologies"`
}

// Runner periodically tops up the lookahead, retires old weeks and sends the
// daily apology mails.
type Runner struct {
	cfg     *config.SchedulerConfig
	service *schedule.Service
	store   store.Store
	mail    mail.Publisher
	clock   week.Clock
	logger  *zap.Logger

	// Apology progress for apologyDate. apologized holds hotels already mailed;
	// apologyDone is set once a pass queued every mail it attempted.
	mu          sync.Mutex
	apologyDate string
	apologized  map[string]struct{}
	apologyDone bool
}

// NewRunner creates a maintenance runner. A nil publisher disables apologies.
func NewRunner(cfg *config.SchedulerConfig, service *schedule.Service, st store.Store, pub mail.Publisher, clock week.Clock, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		service: service,
		store:   st,
		mail:    pub,
		clock:   clock,
		logger:  logger.Named("maintenance"),
	}
}

// Run executes a cycle immediately and then every configured interval until ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.Info("maintenance runner is disabled, not starting")
		return
	}
	r.logger.Info("starting maintenance runner", zap.Duration("interval", r.cfg.Interval))

	r.RunOnce(ctx)

	timer := time.NewTimer(r.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("maintenance runner shutting down")
			return
		case <-timer.C:
			r.RunOnce(ctx)
			timer.Reset(r.cfg.Interval)
		}
	}
}

// RunOnce performs a single maintenance cycle.
func (r *Runner) RunOnce(ctx context.Context) Report {
	r.logger.Debug("executing maintenance cycle")

	report := Report{Maintenance: r.service.EnsureUpcomingWeeks(ctx)}
	if report.Maintenance.Action == schedule.ActionError {
		r.logger.Warn("lookahead maintenance reported an error", zap.String("error", report.Maintenance.Error))
	}

	if r.cfg.CleanupEnabled {
		cleanup := r.service.CleanupOldSchedules(ctx, r.cfg.KeepWeeks)
		report.Cleanup = &cleanup
	}

	if r.cfg.ApologyEnabled {
		n, err := r.SendApologies(ctx)
		if err != nil {
			r.logger.Error("failed to send apology mails", zap.Error(err))
		}
		report.Apologies = n
	}

	r.logger.Debug("maintenance cycle finished")
	return report
}
