package schedule

import (
	"context"
	"fmt"

	"hotel-waste-scheduler/internal/week"
)

const overviewWeeks = 3

// WeeklyOverview tops up the lookahead, then summarises the current and next two weeks.
func (s *Service) WeeklyOverview(ctx context.Context) (Overview, error) {
	maintenance := s.EnsureUpcomingWeeks(ctx)

	now := s.clock.Now()
	weeks := make(map[string]WeekSummary, overviewWeeks)
	for offset := 0; offset < overviewWeeks; offset++ {
		monday := week.MondayForOffset(now, offset)
		count, err := s.store.CountWeek(ctx, monday)
		if err != nil {
			return Overview{}, err
		}

		weekType := WeekTypeUpcoming
		if offset == 0 {
			weekType = WeekTypeCurrent
		}
		weeks[fmt.Sprintf("week_%d", offset)] = WeekSummary{
			WeekStart:     week.FormatDate(monday),
			WeekLabel:     week.Label(offset),
			ScheduleCount: count,
			HasSchedules:  count > 0,
			WeekType:      weekType,
		}
	}

	return Overview{
		Maintenance:   maintenance,
		Weeks:         weeks,
		CurrentMonday: week.FormatDate(week.CurrentMonday(now)),
		Timestamp:     now,
	}, nil
}

// SystemStatus reports window coverage and alert volume without writing anything.
func (s *Service) SystemStatus(ctx context.Context) (Status, error) {
	now := s.clock.Now()

	hotels, err := s.store.CountHotels(ctx)
	if err != nil {
		return Status{}, err
	}
	alerts, err := s.store.CountAlerts(ctx)
	if err != nil {
		return Status{}, err
	}

	expected := hotels * slotsPerWeek
	status := Status{
		Hotels:            hotels,
		CurrentMonday:     week.FormatDate(week.CurrentMonday(now)),
		LookaheadComplete: true,
		Alerts:            alerts,
		Timestamp:         now,
	}
	for offset := 0; offset < overviewWeeks; offset++ {
		monday := week.MondayForOffset(now, offset)
		count, err := s.store.CountWeek(ctx, monday)
		if err != nil {
			return Status{}, err
		}
		if offset > 0 && count != expected {
			status.LookaheadComplete = false
		}
		status.Weeks = append(status.Weeks, WeekCount{
			Offset:    offset,
			WeekStart: week.FormatDate(monday),
			WeekLabel: week.Label(offset),
			Count:     count,
			Expected:  expected,
		})
	}
	return status, nil
}
