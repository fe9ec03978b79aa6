package schedule

import "time"

// Action values reported by the maintenance operations.
const (
	ActionMaintained  = "maintained"
	ActionRegenerated = "regenerated"
	ActionInitialized = "initialized"
	ActionSkipped     = "skipped"
	ActionCleaned     = "cleaned"
	ActionError       = "error"
)

// Week types accepted by ListByWeekType and reported in the overview.
const (
	WeekTypeCurrent  = "current"
	WeekTypeUpcoming = "upcoming"
)

// WeekResult is the outcome of regenerating one week of the lookahead.
type WeekResult struct {
	WeekStart string `json:"week_start"`
	Action    string `json:"action"`
	Created   int    `json:"created"`
}

// MaintenanceResult is returned by EnsureUpcomingWeeks.
type MaintenanceResult struct {
	Action    string       `json:"action"`
	Results   []WeekResult `json:"results,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Error     string       `json:"error,omitempty"`
}

// InitResult is returned by AutoInitialize.
type InitResult struct {
	Action    string `json:"action"`
	WeekStart string `json:"week_start,omitempty"`
	Created   int    `json:"created"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CleanupResult is returned by CleanupOldSchedules.
type CleanupResult struct {
	Action     string `json:"action"`
	Deleted    int64  `json:"deleted"`
	CutoffDate string `json:"cutoff_date,omitempty"`
	Error      string `json:"error,omitempty"`
}

// WeekSummary describes one week of the overview.
type WeekSummary struct {
	WeekStart     string `json:"week_start"`
	WeekLabel     string `json:"week_label"`
	ScheduleCount int64  `json:"schedule_count"`
	HasSchedules  bool   `json:"has_schedules"`
	WeekType      string `json:"week_type"`
}

// Overview is returned by WeeklyOverview. Weeks is keyed week_0 to week_2.
type Overview struct {
	Maintenance   MaintenanceResult      `json:"maintenance"`
	Weeks         map[string]WeekSummary `json:"weeks"`
	CurrentMonday string                 `json:"current_monday"`
	Timestamp     time.Time              `json:"timestamp"`
}

// WeekCount is the generated row count of one window week against the full grid.
type WeekCount struct {
	Offset    int    `json:"offset"`
	WeekStart string `json:"week_start"`
	WeekLabel string `json:"week_label"`
	Count     int64  `json:"count"`
	Expected  int64  `json:"expected"`
}

// Status is returned by SystemStatus.
type Status struct {
	Hotels            int64       `json:"hotels"`
	CurrentMonday     string      `json:"current_monday"`
	Weeks             []WeekCount `json:"weeks"`
	LookaheadComplete bool        `json:"lookahead_complete"`
	Alerts            int64       `json:"alerts"`
	Timestamp         time.Time   `json:"timestamp"`
}
