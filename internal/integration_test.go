package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotel-waste-scheduler/config"
	"hotel-waste-scheduler/internal/api"
	"hotel-waste-scheduler/internal/lateness"
	"hotel-waste-scheduler/internal/mail"
	"hotel-waste-scheduler/internal/maintenance"
	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/notification"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/testutil"
	"hotel-waste-scheduler/internal/week"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg mail.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) ofType(typ string) []mail.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []mail.Message
	for _, m := range p.messages {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

// TestScheduleLifecycle drives one hotel through a full cycle: initialization,
// periodic upkeep, a late collection, the afternoon apology and retention cleanup.
func TestScheduleLifecycle(t *testing.T) {
	// --- Test Setup ---
	gormDB := testutil.SetupSQLite(t)
	hotels := testutil.SeedHotels(t, gormDB, "Grand Plaza")
	appStore := store.NewGormStore(gormDB)
	clock := week.NewFixedClock(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	logger := zap.NewNop()

	publisher := &recordingPublisher{}
	pool := notification.NewWorkerPool(1, 8, gormDB, &webpush.Options{}, logger)
	pool.UseMail(publisher, []string{"ops@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	emitter := lateness.NewEmitter(appStore, pool, clock, logger)
	svc := schedule.NewService(appStore, clock, emitter, logger)

	schedCfg := config.SchedulerConfig{
		Enabled:        true,
		Interval:       time.Hour,
		KeepWeeks:      4,
		CleanupEnabled: true,
		ApologyEnabled: true,
		ApologyHour:    16,
	}
	runner := maintenance.NewRunner(&schedCfg, svc, appStore, publisher, clock, logger)

	router := api.NewRouter(svc, appStore, &webpush.Options{}, api.RouterConfig{
		RateLimit: rate.Inf,
		RateBurst: 1,
		CacheTTL:  time.Minute,
		KeepWeeks: 4,
	}, logger)

	call := func(method, path string, payload any) *httptest.ResponseRecorder {
		var body bytes.Buffer
		if payload != nil {
			require.NoError(t, json.NewEncoder(&body).Encode(payload))
		}
		req, err := http.NewRequest(method, path, &body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// --- Step 1: initialize the current week; the lookahead follows ---
	w := call(http.MethodPost, "/api/schedules/initialize-system", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"action":"initialized","week_start":"2024-06-03","created":14}`, w.Body.String())

	for offset := 0; offset <= 2; offset++ {
		n, err := appStore.CountWeek(ctx, week.MondayForOffset(clock.Now(), offset))
		require.NoError(t, err)
		assert.Equal(t, int64(14), n, "offset %d", offset)
	}

	// --- Step 2: periodic upkeep is a no-op on a complete window ---
	report := runner.RunOnce(ctx)
	require.Equal(t, schedule.ActionMaintained, report.Maintenance.Action)
	for _, res := range report.Maintenance.Results {
		assert.Equal(t, 0, res.Created)
	}

	// --- Step 3: an operator touches the Morning entry after its slot ran over ---
	entries, err := svc.ListWeek(ctx, week.CurrentMonday(clock.Now()))
	require.NoError(t, err)
	morning := entries[0]
	require.Equal(t, model.Monday, morning.Day)
	require.Equal(t, model.SlotMorning, morning.Slot)

	clock.Set(time.Date(2024, 6, 3, 12, 16, 0, 0, time.UTC))
	w = call(http.MethodPatch, "/api/schedules/"+morning.ID, map[string]any{"completion_notes": "truck stuck in traffic"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		return len(publisher.ofType(mail.TypeLateService)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	var late mail.LateServiceData
	require.NoError(t, json.Unmarshal(publisher.ofType(mail.TypeLateService)[0].Data, &late))
	assert.Equal(t, "Grand Plaza", late.HotelName)
	assert.Equal(t, "Morning (06:00 - 12:00)", late.Slot)

	// --- Step 4: afternoon apology for the still-pending collections ---
	clock.Set(time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC))
	report = runner.RunOnce(ctx)
	assert.Equal(t, 1, report.Apologies)

	apologies := publisher.ofType(mail.TypeApology)
	require.Len(t, apologies, 1)
	assert.Equal(t, hotels[0].Email, apologies[0].To)

	// --- Step 5: six weeks later the first week is retired, its alert is kept ---
	clock.Set(time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC))
	report = runner.RunOnce(ctx)
	require.NotNil(t, report.Cleanup)
	assert.Equal(t, "2024-06-17", report.Cleanup.CutoffDate)
	assert.Equal(t, int64(28), report.Cleanup.Deleted)

	n, err := appStore.CountWeek(ctx, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	w = call(http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alerts []model.AlertRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, morning.ID, alerts[0].ScheduleEntryID)
}
