package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotel-waste-scheduler/internal/mw"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
)

// RouterConfig tunes the middleware in front of the API.
type RouterConfig struct {
	RateLimit rate.Limit
	RateBurst int
	CacheTTL  time.Duration
	KeepWeeks int
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *schedule.Service, s store.Store, webpushOptions *webpush.Options, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	handler := NewHandler(svc, s, webpushOptions, cfg.KeepWeeks, logger)

	rateLimiter := mw.RateLimiter(cfg.RateLimit, cfg.RateBurst)

	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		schedules := api.Group("/schedules")
		schedules.POST("/initialize-system", handler.InitializeSystem)
		schedules.POST("/ensure-upcoming", handler.EnsureUpcoming)
		schedules.GET("/weekly-overview", handler.WeeklyOverview)
		schedules.POST("/cleanup-old", handler.CleanupOld)
		schedules.POST("/regenerate", handler.Regenerate)
		schedules.GET("/by-week-type", handler.ListByWeekType)
		// Not cached: weekly-overview and the maintenance runner both write weeks.
		schedules.GET("/system-status", handler.SystemStatus)
		schedules.GET("", handler.ListSchedules)
		schedules.POST("", handler.CreateSchedule)
		schedules.GET("/:id", handler.GetSchedule)
		schedules.PATCH("/:id", handler.UpdateSchedule)

		api.GET("/alerts", handler.ListAlerts)
		api.GET("/hotels", caching, handler.ListHotels)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
