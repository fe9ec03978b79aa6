package schedule

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

var slotsPerWeek = int64(len(model.Days) * len(model.Slots))

// NewEntry is an operator-created schedule entry. Empty Status means Pending and a
// nil IsVisible means visible.
type NewEntry struct {
	HotelID         string
	Day             model.Day
	Slot            model.Slot
	WeekStart       time.Time
	Status          model.Status
	IsVisible       *bool
	CompletionNotes string
}

// WriteResult is what the write path reports back to the operator.
type WriteResult struct {
	Entry       model.ScheduleEntry `json:"entry"`
	Alert       *model.AlertRecord  `json:"alert,omitempty"`
	Maintenance *MaintenanceResult  `json:"maintenance,omitempty"`
}

func (in NewEntry) validate() error {
	if strings.TrimSpace(in.HotelID) == "" {
		return fmt.Errorf("%w: hotel_id is required", ErrValidation)
	}
	if !in.Day.Valid() {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, in.Day)
	}
	if !in.Slot.Valid() {
		return fmt.Errorf("%w: unknown slot %q", ErrValidation, in.Slot)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.WeekStart.IsZero() {
		return fmt.Errorf("%w: week_start is required", ErrValidation)
	}
	if !week.IsMonday(in.WeekStart) {
		return fmt.Errorf("%w: week_start %s is not a Monday", ErrValidation, week.FormatDate(in.WeekStart))
	}
	return nil
}

// CreateEntry stores a single entry, checks it for lateness and, when it belongs
// to the current week, tops up the lookahead once.
func (s *Service) CreateEntry(ctx context.Context, in NewEntry) (WriteResult, error) {
	if err := in.validate(); err != nil {
		return WriteResult{}, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}

	now := s.clock.Now()
	monday := week.MondayOf(in.WeekStart)
	entry := model.ScheduleEntry{
		ID:              uuid.NewString(),
		HotelID:         in.HotelID,
		Day:             in.Day,
		Slot:            in.Slot,
		WeekStartDate:   datatypes.Date(monday),
		Status:          status,
		IsVisible:       visible,
		CompletionNotes: in.CompletionNotes,
		CreatedAt:       now.UTC(),
	}
	if err := s.store.CreateEntry(ctx, &entry); err != nil {
		return WriteResult{}, err
	}

	result := WriteResult{Entry: entry}
	result.Alert = s.checkLateness(ctx, entry)

	if monday.Equal(week.CurrentMonday(now)) {
		maintenance := s.EnsureUpcomingWeeks(ctx)
		result.Maintenance = &maintenance
	}
	return result, nil
}

// UpdateEntry applies an operator patch and checks the result for lateness. Any
// status may follow any other.
func (s *Service) UpdateEntry(ctx context.Context, id string, patch store.EntryPatch) (WriteResult, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return WriteResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
	}

	entry, err := s.store.UpdateEntry(ctx, id, patch)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Entry: entry, Alert: s.checkLateness(ctx, entry)}, nil
}

func (s *Service) GetEntry(ctx context.Context, id string) (model.ScheduleEntry, error) {
	return s.store.GetEntry(ctx, id)
}

// ListWeek returns one week ordered by hotel, weekday and slot.
func (s *Service) ListWeek(ctx context.Context, weekStart time.Time) ([]model.ScheduleEntry, error) {
	entries, err := s.store.ListWeek(ctx, week.MondayOf(weekStart))
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// ListByWeekType returns the current week, or both lookahead weeks for "upcoming".
func (s *Service) ListByWeekType(ctx context.Context, weekType string) ([]model.ScheduleEntry, error) {
	now := s.clock.Now()
	switch weekType {
	case WeekTypeCurrent:
		return s.ListWeek(ctx, week.CurrentMonday(now))
	case WeekTypeUpcoming:
		var all []model.ScheduleEntry
		for _, offset := range lookaheadOffsets {
			entries, err := s.ListWeek(ctx, week.MondayForOffset(now, offset))
			if err != nil {
				return nil, err
			}
			all = append(all, entries...)
		}
		return all, nil
	}
	return nil, fmt.Errorf("%w: unknown week type %q", ErrValidation, weekType)
}

func sortEntries(entries []model.ScheduleEntry) {
	slices.SortStableFunc(entries, func(a, b model.ScheduleEntry) int {
		return cmp.Or(
			a.WeekStart().Compare(b.WeekStart()),
			cmp.Compare(a.HotelID, b.HotelID),
			cmp.Compare(a.Day.Index(), b.Day.Index()),
			cmp.Compare(a.Slot.Index(), b.Slot.Index()),
		)
	})
}
