package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentMonday(t *testing.T) {
	testCases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"Monday morning", time.Date(2024, 6, 3, 6, 0, 0, 0, time.UTC), "2024-06-03"},
		{"Wednesday", time.Date(2024, 6, 5, 12, 30, 0, 0, time.UTC), "2024-06-03"},
		{"Sunday late", time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC), "2024-06-03"},
		{"Across month boundary", time.Date(2024, 7, 2, 8, 0, 0, 0, time.UTC), "2024-07-01"},
		{"Across year boundary", time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), "2024-12-30"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentMonday(tc.now)
			assert.Equal(t, tc.want, FormatDate(got))
			assert.True(t, IsMonday(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestCurrentMonday_UsesLocalCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// Sunday 22:00 UTC is already Monday 01:00 at UTC+3.
	now := time.Date(2024, 6, 9, 22, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-06-10", FormatDate(CurrentMonday(now)))
}

func TestMondayForOffset(t *testing.T) {
	now := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-03", FormatDate(MondayForOffset(now, 0)))
	assert.Equal(t, "2024-06-10", FormatDate(MondayForOffset(now, 1)))
	assert.Equal(t, "2024-06-17", FormatDate(MondayForOffset(now, 2)))
	assert.Equal(t, "2024-05-06", FormatDate(MondayForOffset(now, -4)))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "This Week", Label(0))
	assert.Equal(t, "Next Week", Label(1))
	assert.Equal(t, "Week After Next", Label(2))
	assert.Equal(t, "3 Weeks Ahead", Label(3))
	assert.Equal(t, "10 Weeks Ahead", Label(10))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("03/06/2024")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())

	c.Set(start.Add(time.Hour))
	assert.Equal(t, start.Add(time.Hour), c.Now())
}
