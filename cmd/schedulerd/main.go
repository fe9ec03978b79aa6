package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotel-waste-scheduler/config"
	"hotel-waste-scheduler/internal/api"
	"hotel-waste-scheduler/internal/db"
	"hotel-waste-scheduler/internal/lateness"
	"hotel-waste-scheduler/internal/logging"
	"hotel-waste-scheduler/internal/mail"
	"hotel-waste-scheduler/internal/maintenance"
	"hotel-waste-scheduler/internal/notification"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/store"
	"hotel-waste-scheduler/internal/week"
)

func main() {
	// A missing .env is fine, the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)
	logger.Info("configuration loaded", zap.String("path", configPath), zap.String("timezone", cfg.Scheduler.Timezone))

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Warn("VAPID keys are not configured, push notifications are disabled")
	}

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	clock := week.SystemClock{Location: cfg.Scheduler.Location}

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, gormDB, webpushOptions, logger)

	var publisher mail.Publisher
	if cfg.Mail.Enabled {
		conn, err := amqp.Dial(cfg.Mail.AMQPDSN)
		if err != nil {
			logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Fatal("failed to open rabbitmq channel", zap.Error(err))
		}
		defer ch.Close()

		if _, err := mail.DeclareQueue(ch, cfg.Mail.Queue); err != nil {
			logger.Fatal("failed to declare mail queue", zap.String("queue", cfg.Mail.Queue), zap.Error(err))
		}
		timeout := time.Duration(cfg.Mail.PublishTimeoutSeconds) * time.Second
		publisher = mail.NewAMQPPublisher(ch, cfg.Mail.Queue, timeout)
		pool.UseMail(publisher, cfg.Mail.AlertRecipients)
		logger.Info("mail publishing enabled", zap.String("queue", cfg.Mail.Queue))
	}
	pool.Start(ctx)

	emitter := lateness.NewEmitter(appStore, pool, clock, logger)
	svc := schedule.NewService(appStore, clock, emitter, logger)

	initRes := svc.AutoInitialize(ctx)
	logger.Info("startup initialization finished",
		zap.String("action", initRes.Action),
		zap.String("week_start", initRes.WeekStart),
		zap.Int("created", initRes.Created),
	)

	runner := maintenance.NewRunner(&cfg.Scheduler, svc, appStore, publisher, clock, logger)
	go runner.Run(ctx)

	router := api.NewRouter(svc, appStore, webpushOptions, api.RouterConfig{
		RateLimit: rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst: cfg.Server.RateLimitBurst,
		CacheTTL:  time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		KeepWeeks: cfg.Scheduler.KeepWeeks,
	}, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
		return
	}
	logger.Info("server gracefully stopped")
}
