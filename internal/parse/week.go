// Package parse turns raw request values into scheduling types.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

var (
	ErrInvalidDate      = errors.New("date must be formatted YYYY-MM-DD")
	ErrNotMonday        = errors.New("week start must be a Monday")
	ErrInvalidKeepWeeks = errors.New("keep_weeks must be an integer")
	ErrInvalidLimit     = errors.New("limit must be a non-negative integer")
	ErrUnknownDay       = errors.New("unknown day")
	ErrUnknownSlot      = errors.New("unknown slot")
	ErrUnknownStatus    = errors.New("unknown status")
)

// WeekStart parses a YYYY-MM-DD Monday. An empty value yields the zero time and
// no error so callers can substitute the current week.
func WeekStart(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := week.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	if !week.IsMonday(t) {
		return time.Time{}, fmt.Errorf("%w: %s is a %s", ErrNotMonday, s, t.Weekday())
	}
	return t, nil
}

// KeepWeeks parses the retention depth, falling back to def when raw is empty.
// Negative values are passed through; the cleaner clamps them.
func KeepWeeks(raw string, def int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKeepWeeks, raw)
	}
	return n, nil
}

// Limit parses a list limit. Empty means def.
func Limit(raw string, def int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
	}
	return n, nil
}

// Day matches a weekday name case-insensitively.
func Day(raw string) (model.Day, error) {
	s := strings.TrimSpace(raw)
	for _, d := range model.Days {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, raw)
}

// Slot matches a slot name case-insensitively. Time ranges are not accepted.
func Slot(raw string) (model.Slot, error) {
	s := strings.TrimSpace(raw)
	for _, slot := range model.Slots {
		if strings.EqualFold(s, string(slot)) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, raw)
}

// Status matches a status name case-insensitively, ignoring spaces and
// underscores so "in progress" and "IN_PROGRESS" both resolve.
func Status(raw string) (model.Status, error) {
	s := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(raw))
	for _, st := range []model.Status{model.StatusPending, model.StatusInProgress, model.StatusCompleted} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}
