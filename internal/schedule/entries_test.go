package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

func TestCreateEntry_CurrentWeekCascades(t *testing.T) {
	f := newFixture(t, wednesday, "H1", "H2")
	ctx := context.Background()

	res, err := f.svc.CreateEntry(ctx, NewEntry{
		HotelID:   f.hotels[0].ID,
		Day:       model.Friday,
		Slot:      model.SlotMorning,
		WeekStart: date(2024, 6, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Entry.Status)
	assert.True(t, res.Entry.IsVisible)
	require.NotNil(t, res.Entry.Hotel)
	assert.Equal(t, "H1", res.Entry.Hotel.Name)
	assert.Nil(t, res.Alert)

	require.NotNil(t, res.Maintenance)
	assert.Equal(t, ActionMaintained, res.Maintenance.Action)
	assert.Equal(t, int64(1), f.countWeek(t, date(2024, 6, 3)))
	assert.Equal(t, int64(28), f.countWeek(t, date(2024, 6, 10)))
	assert.Equal(t, int64(28), f.countWeek(t, date(2024, 6, 17)))
}

func TestCreateEntry_FutureWeekDoesNotCascade(t *testing.T) {
	f := newFixture(t, wednesday, "H1")

	hidden := false
	res, err := f.svc.CreateEntry(context.Background(), NewEntry{
		HotelID:         f.hotels[0].ID,
		Day:             model.Monday,
		Slot:            model.SlotExtended,
		WeekStart:       date(2024, 6, 17),
		Status:          model.StatusInProgress,
		IsVisible:       &hidden,
		CompletionNotes: "gate code 1234",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Maintenance)
	assert.Equal(t, model.StatusInProgress, res.Entry.Status)
	assert.False(t, res.Entry.IsVisible)
	assert.Equal(t, int64(0), f.countWeek(t, date(2024, 6, 10)))
}

func TestCreateEntry_Rejections(t *testing.T) {
	f := newFixture(t, wednesday, "H1")
	ctx := context.Background()
	valid := NewEntry{HotelID: f.hotels[0].ID, Day: model.Monday, Slot: model.SlotMorning, WeekStart: date(2024, 6, 10)}

	testCases := []struct {
		name   string
		mutate func(*NewEntry)
	}{
		{"not a monday", func(in *NewEntry) { in.WeekStart = date(2024, 6, 11) }},
		{"missing week", func(in *NewEntry) { in.WeekStart = time.Time{} }},
		{"unknown day", func(in *NewEntry) { in.Day = "Funday" }},
		{"unknown slot", func(in *NewEntry) { in.Slot = "Evening" }},
		{"unknown status", func(in *NewEntry) { in.Status = "Cancelled" }},
		{"missing hotel", func(in *NewEntry) { in.HotelID = " " }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := f.svc.CreateEntry(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := f.svc.CreateEntry(ctx, valid)
	require.NoError(t, err)
	_, err = f.svc.CreateEntry(ctx, valid)
	assert.ErrorIs(t, err, store.ErrDuplicateEntry)

	orphan := valid
	orphan.HotelID = "no-such-hotel"
	_, err = f.svc.CreateEntry(ctx, orphan)
	assert.ErrorIs(t, err, store.ErrHotelNotFound)
}

func TestWritePath_RaisesLateAlerts(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 12, 16, 0, 0, time.UTC), "H1")
	ctx := context.Background()

	res, err := f.svc.CreateEntry(ctx, NewEntry{
		HotelID:   f.hotels[0].ID,
		Day:       model.Monday,
		Slot:      model.SlotMorning,
		WeekStart: date(2024, 6, 3),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Equal(t, res.Entry.ID, res.Alert.ScheduleEntryID)
	assert.Equal(t, model.AlertTypeLateService, res.Alert.AlertType)

	completed := model.StatusCompleted
	upd, err := f.svc.UpdateEntry(ctx, res.Entry.ID, store.EntryPatch{Status: &completed})
	require.NoError(t, err)
	assert.Nil(t, upd.Alert)

	pending := model.StatusPending
	upd, err = f.svc.UpdateEntry(ctx, res.Entry.ID, store.EntryPatch{Status: &pending})
	require.NoError(t, err)
	assert.NotNil(t, upd.Alert)

	assert.Equal(t, 2, f.notifier.count())
	status, err := f.svc.SystemStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Alerts)
}

func TestUpdateEntry_Errors(t *testing.T) {
	f := newFixture(t, wednesday, "H1")
	ctx := context.Background()

	done := model.StatusCompleted
	_, err := f.svc.UpdateEntry(ctx, "missing", store.EntryPatch{Status: &done})
	assert.ErrorIs(t, err, store.ErrEntryNotFound)

	bogus := model.Status("Archived")
	_, err = f.svc.UpdateEntry(ctx, "missing", store.EntryPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListWeek_OrdersByWeekday(t *testing.T) {
	f := newFixture(t, wednesday, "H1")
	ctx := context.Background()
	require.Equal(t, 14, f.svc.RegenerateWeek(ctx, date(2024, 6, 10)))

	entries, err := f.svc.ListWeek(ctx, date(2024, 6, 12))
	require.NoError(t, err)
	require.Len(t, entries, 14)
	for i, e := range entries {
		assert.Equal(t, model.Days[i/2], e.Day)
		assert.Equal(t, model.Slots[i%2], e.Slot)
	}
}

func TestListByWeekType(t *testing.T) {
	f := newFixture(t, wednesday, "H1")
	ctx := context.Background()
	require.Equal(t, 14, f.svc.AutoInitialize(ctx).Created)

	current, err := f.svc.ListByWeekType(ctx, WeekTypeCurrent)
	require.NoError(t, err)
	assert.Len(t, current, 14)

	upcoming, err := f.svc.ListByWeekType(ctx, WeekTypeUpcoming)
	require.NoError(t, err)
	require.Len(t, upcoming, 28)
	assert.Equal(t, "2024-06-10", week.FormatDate(upcoming[0].WeekStart()))
	assert.Equal(t, "2024-06-17", week.FormatDate(upcoming[27].WeekStart()))

	_, err = f.svc.ListByWeekType(ctx, "past")
	assert.ErrorIs(t, err, ErrValidation)
}
