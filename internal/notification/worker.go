package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-waste-scheduler/internal/mail"
	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/week"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans late-service alerts out to push subscribers and the mail queue.
type WorkerPool struct {
	size       int
	jobs       chan model.AlertRecord
	db         *gorm.DB
	webpush    *webpush.Options
	sender     NotificationSender
	mail       mail.Publisher
	recipients []string
	logger     *zap.Logger
}

// NewWorkerPool creates a new worker pool with a job queue of queueSize.
func NewWorkerPool(size, queueSize int, db *gorm.DB, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.AlertRecord, queueSize),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger.Named("notification"),
	}
}

// UseMail enables alert emails to recipients through pub.
func (wp *WorkerPool) UseMail(pub mail.Publisher, recipients []string) {
	wp.mail = pub
	wp.recipients = recipients
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug("worker started", zap.Int("worker", id))
	for {
		select {
		case alert := <-wp.jobs:
			wp.logger.Debug("processing alert", zap.Int("worker", id), zap.String("alert_id", alert.ID))
			wp.notifyAlert(ctx, alert)
		case <-ctx.Done():
			wp.logger.Debug("worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// NotifyLateService queues alert for delivery.
func (wp *WorkerPool) NotifyLateService(alert model.AlertRecord) {
	wp.Dispatch(alert)
}

// Dispatch queues a job without blocking. It reports false when the queue is
// full and the alert was dropped.
func (wp *WorkerPool) Dispatch(alert model.AlertRecord) bool {
	select {
	case wp.jobs <- alert:
		return true
	default:
		wp.logger.Warn("notification queue full, dropping alert",
			zap.String("alert_id", alert.ID),
			zap.String("schedule_entry_id", alert.ScheduleEntryID),
		)
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.AlertRecord {
	return wp.jobs
}

func (wp *WorkerPool) notifyAlert(ctx context.Context, alert model.AlertRecord) {
	data := wp.describe(ctx, alert)
	if wp.webpush != nil {
		wp.pushToSubscribers(ctx, alert.HotelID, data)
	}
	wp.mailRecipients(ctx, data)
}

// describe loads the entry behind alert. Missing rows fall back to the IDs.
func (wp *WorkerPool) describe(ctx context.Context, alert model.AlertRecord) mail.LateServiceData {
	data := mail.LateServiceData{
		AlertID:   alert.ID,
		EntryID:   alert.ScheduleEntryID,
		HotelName: alert.HotelID,
		RaisedAt:  alert.CreatedAt.UTC().Format(time.RFC3339),
	}

	var entry model.ScheduleEntry
	if err := wp.db.WithContext(ctx).Preload("Hotel").First(&entry, "id = ?", alert.ScheduleEntryID).Error; err != nil {
		wp.logger.Warn("failed to load schedule entry for alert",
			zap.String("schedule_entry_id", alert.ScheduleEntryID),
			zap.Error(err),
		)
		return data
	}

	if entry.Hotel != nil && entry.Hotel.Name != "" {
		data.HotelName = entry.Hotel.Name
	}
	data.Day = string(entry.Day)
	data.Slot = entry.Slot.Display()
	if d := entry.Date(); !d.IsZero() {
		data.Date = week.FormatDate(d)
	}
	return data
}

func pushMessage(data mail.LateServiceData) string {
	if data.Day == "" {
		return fmt.Sprintf("Late service: %s is past its slot end", data.HotelName)
	}
	return fmt.Sprintf("Late service: %s, %s %s is past its slot end", data.HotelName, data.Day, data.Slot)
}

func (wp *WorkerPool) pushToSubscribers(ctx context.Context, hotelID string, data mail.LateServiceData) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_hotel_mapping shm ON shm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("shm.hotel_id = ?", hotelID).
		Find(&subscriptions).Error
	if err != nil {
		wp.logger.Error("failed to fetch subscriptions", zap.String("hotel_id", hotelID), zap.Error(err))
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	wp.logger.Info("sending push notifications",
		zap.Int("subscriptions", len(subscriptions)),
		zap.String("hotel_id", hotelID),
	)

	message := []byte(pushMessage(data))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, message)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Error("failed to send push notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.db.WithContext(ctx).Select("Hotels").Delete(&sub).Error; err != nil {
			wp.logger.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

func (wp *WorkerPool) mailRecipients(ctx context.Context, data mail.LateServiceData) {
	if wp.mail == nil {
		return
	}
	for _, to := range wp.recipients {
		msg, err := mail.NewMessage(mail.TypeLateService, to, data)
		if err != nil {
			wp.logger.Error("failed to build alert mail", zap.Error(err))
			return
		}
		if err := wp.mail.Publish(ctx, msg); err != nil {
			wp.logger.Error("failed to queue alert mail", zap.String("to", to), zap.Error(err))
		}
	}
}
