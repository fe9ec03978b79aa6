package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyOverview(t *testing.T) {
	f := newFixture(t, wednesday, "H1", "H2")

	overview, err := f.svc.WeeklyOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionMaintained, overview.Maintenance.Action)
	assert.Equal(t, "2024-06-03", overview.CurrentMonday)
	assert.Equal(t, wednesday, overview.Timestamp)
	assert.Equal(t, WeekSummary{
		WeekStart: "2024-06-03", WeekLabel: "This Week", ScheduleCount: 0, HasSchedules: false, WeekType: WeekTypeCurrent,
	}, overview.Weeks["week_0"])
	assert.Equal(t, WeekSummary{
		WeekStart: "2024-06-10", WeekLabel: "Next Week", ScheduleCount: 28, HasSchedules: true, WeekType: WeekTypeUpcoming,
	}, overview.Weeks["week_1"])
	assert.Equal(t, WeekSummary{
		WeekStart: "2024-06-17", WeekLabel: "Week After Next", ScheduleCount: 28, HasSchedules: true, WeekType: WeekTypeUpcoming,
	}, overview.Weeks["week_2"])
}

func TestSystemStatus(t *testing.T) {
	f := newFixture(t, wednesday, "H1", "H2", "H3")
	ctx := context.Background()

	status, err := f.svc.SystemStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.Hotels)
	assert.Equal(t, "2024-06-03", status.CurrentMonday)
	assert.False(t, status.LookaheadComplete)
	require.Len(t, status.Weeks, 3)
	assert.Equal(t, int64(42), status.Weeks[0].Expected)

	f.svc.EnsureUpcomingWeeks(ctx)

	status, err = f.svc.SystemStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.LookaheadComplete)
	assert.Equal(t, int64(0), status.Weeks[0].Count)
	assert.Equal(t, int64(42), status.Weeks[1].Count)
	assert.Equal(t, int64(42), status.Weeks[2].Count)
	assert.Equal(t, int64(0), status.Alerts)
}
