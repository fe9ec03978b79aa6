package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/parse"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

const defaultAlertLimit = 50

// InitializeSystem handles POST /api/schedules/initialize-system.
func (h *Handler) InitializeSystem(c *gin.Context) {
	res := h.service.AutoInitialize(c.Request.Context())
	if res.Action == schedule.ActionError {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// EnsureUpcoming handles POST /api/schedules/ensure-upcoming.
func (h *Handler) EnsureUpcoming(c *gin.Context) {
	res := h.service.EnsureUpcomingWeeks(c.Request.Context())
	if res.Action == schedule.ActionError {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// WeeklyOverview handles GET /api/schedules/weekly-overview.
func (h *Handler) WeeklyOverview(c *gin.Context) {
	overview, err := h.service.WeeklyOverview(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// CleanupOld handles POST /api/schedules/cleanup-old?keep_weeks=N.
func (h *Handler) CleanupOld(c *gin.Context) {
	keepWeeks, err := parse.KeepWeeks(c.Query("keep_weeks"), h.keepWeeks)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := h.service.CleanupOldSchedules(c.Request.Context(), keepWeeks)
	if res.Action == schedule.ActionError {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

type regenerateRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

// Regenerate handles POST /api/schedules/regenerate.
func (h *Handler) Regenerate(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weekStart, err := parse.WeekStart(req.WeekStart)
	if err != nil {
		h.writeError(c, err)
		return
	}

	created := h.service.RegenerateWeek(c.Request.Context(), weekStart)
	c.JSON(http.StatusOK, gin.H{"week_start": week.FormatDate(weekStart), "created": created})
}

// ListSchedules handles GET /api/schedules?week_start=YYYY-MM-DD. The current
// week is used when week_start is omitted.
func (h *Handler) ListSchedules(c *gin.Context) {
	weekStart, err := parse.WeekStart(c.Query("week_start"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if weekStart.IsZero() {
		weekStart = week.CurrentMonday(h.service.Now())
	}

	entries, err := h.service.ListWeek(c.Request.Context(), weekStart)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEntryResponses(entries))
}

// ListByWeekType handles GET /api/schedules/by-week-type?type=current|upcoming.
func (h *Handler) ListByWeekType(c *gin.Context) {
	entries, err := h.service.ListByWeekType(c.Request.Context(), c.DefaultQuery("type", schedule.WeekTypeCurrent))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEntryResponses(entries))
}

// SystemStatus handles GET /api/schedules/system-status.
func (h *Handler) SystemStatus(c *gin.Context) {
	status, err := h.service.SystemStatus(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetSchedule handles GET /api/schedules/:id.
func (h *Handler) GetSchedule(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEntryResponse(entry))
}

type createScheduleRequest struct {
	HotelID         string `json:"hotel_id" binding:"required"`
	Day             string `json:"day" binding:"required"`
	Slot            string `json:"slot" binding:"required"`
	WeekStart       string `json:"week_start" binding:"required"`
	Status          string `json:"status"`
	IsVisible       *bool  `json:"is_visible"`
	CompletionNotes string `json:"completion_notes"`
}

// CreateSchedule handles POST /api/schedules.
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := schedule.NewEntry{
		HotelID:         req.HotelID,
		IsVisible:       req.IsVisible,
		CompletionNotes: req.CompletionNotes,
	}
	var err error
	if in.Day, err = parse.Day(req.Day); err != nil {
		h.writeError(c, err)
		return
	}
	if in.Slot, err = parse.Slot(req.Slot); err != nil {
		h.writeError(c, err)
		return
	}
	if in.WeekStart, err = parse.WeekStart(req.WeekStart); err != nil {
		h.writeError(c, err)
		return
	}
	if req.Status != "" {
		if in.Status, err = parse.Status(req.Status); err != nil {
			h.writeError(c, err)
			return
		}
	}

	res, err := h.service.CreateEntry(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newWriteResponse(res))
}

type updateScheduleRequest struct {
	Status          *string `json:"status"`
	CompletionNotes *string `json:"completion_notes"`
	IsVisible       *bool   `json:"is_visible"`
}

// UpdateSchedule handles PATCH /api/schedules/:id.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.EntryPatch{CompletionNotes: req.CompletionNotes, IsVisible: req.IsVisible}
	if req.Status != nil {
		status, err := parse.Status(*req.Status)
		if err != nil {
			h.writeError(c, err)
			return
		}
		patch.Status = &status
	}

	res, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWriteResponse(res))
}

// ListAlerts handles GET /api/alerts?limit=N.
func (h *Handler) ListAlerts(c *gin.Context) {
	limit, err := parse.Limit(c.Query("limit"), defaultAlertLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	alerts, err := h.service.ListAlerts(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if alerts == nil {
		alerts = []model.AlertRecord{}
	}
	c.JSON(http.StatusOK, alerts)
}

// ListHotels handles GET /api/hotels.
func (h *Handler) ListHotels(c *gin.Context) {
	hotels, err := h.service.ListHotels(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if hotels == nil {
		hotels = []model.Hotel{}
	}
	c.JSON(http.StatusOK, hotels)
}
