package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-waste-scheduler/internal/parse"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	service   *schedule.Service
	store     store.Store
	webpush   *webpush.Options
	keepWeeks int
	logger    *zap.Logger
}

// NewHandler creates a new API handler. keepWeeks is the cleanup default.
func NewHandler(svc *schedule.Service, s store.Store, webpushOptions *webpush.Options, keepWeeks int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:   svc,
		store:     s,
		webpush:   webpushOptions,
		keepWeeks: keepWeeks,
		logger:    logger.Named("api"),
	}
}

var badRequestErrors = []error{
	schedule.ErrValidation,
	store.ErrHotelNotFound,
	parse.ErrInvalidDate,
	parse.ErrNotMonday,
	parse.ErrInvalidKeepWeeks,
	parse.ErrInvalidLimit,
	parse.ErrUnknownDay,
	parse.ErrUnknownSlot,
	parse.ErrUnknownStatus,
}

// writeError maps domain errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, store.ErrEntryNotFound), errors.Is(err, store.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
