package maintenance

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/mail"
	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

// SendApologies queues one apology per hotel that still has pending collections
// today. It does nothing before the apology hour and mails each hotel at most
// once per day. Hotels whose publish failed are retried on the next call until a
// pass queues everything it attempted. It returns the number of mails queued.
func (r *Runner) SendApologies(ctx context.Context) (int, error) {
	if r.mail == nil {
		return 0, nil
	}

	now := r.clock.Now()
	if now.Hour() < r.cfg.ApologyHour {
		return 0, nil
	}

	today := week.FormatDate(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.apologyDate != today {
		r.apologyDate = today
		r.apologized = make(map[string]struct{})
		r.apologyDone = false
	}
	if r.apologyDone {
		return 0, nil
	}

	pending, err := r.store.ListPendingOn(ctx, week.CurrentMonday(now), model.DayOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list pending collections for %s: %w", today, err)
	}

	if len(pending) == 0 {
		r.logger.Info("no pending collections today, no apologies to send")
		r.apologyDone = true
		return 0, nil
	}

	sent, failed := 0, 0
	for _, group := range groupByHotel(pending) {
		if _, ok := r.apologized[group[0].HotelID]; ok {
			continue
		}
		hotel := group[0].Hotel
		if hotel == nil || hotel.Email == "" {
			r.logger.Warn("hotel has no email, skipping apology", zap.String("hotel_id", group[0].HotelID))
			continue
		}

		slices.SortFunc(group, func(a, b model.ScheduleEntry) int {
			return cmp.Compare(a.Slot.Index(), b.Slot.Index())
		})
		data := mail.ApologyData{HotelName: hotel.Name, Day: string(group[0].Day), Date: today}
		for _, e := range group {
			data.Slots = append(data.Slots, e.Slot.Display())
		}

		msg, err := mail.NewMessage(mail.TypeApology, hotel.Email, data)
		if err != nil {
			r.logger.Error("failed to build apology mail", zap.String("hotel_id", hotel.ID), zap.Error(err))
			continue
		}
		if err := r.mail.Publish(ctx, msg); err != nil {
			r.logger.Error("failed to queue apology mail", zap.String("hotel_id", hotel.ID), zap.Error(err))
			failed++
			continue
		}
		r.apologized[hotel.ID] = struct{}{}
		sent++
	}
	r.apologyDone = failed == 0

	r.logger.Info("queued apology mails", zap.Int("sent", sent), zap.Int("failed", failed), zap.String("date", today))
	return sent, nil
}

// groupByHotel keeps the first-seen hotel order.
func groupByHotel(entries []model.ScheduleEntry) [][]model.ScheduleEntry {
	index := make(map[string]int)
	var groups [][]model.ScheduleEntry
	for _, e := range entries {
		i, ok := index[e.HotelID]
		if !ok {
			i = len(groups)
			index[e.HotelID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}
