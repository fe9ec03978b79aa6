package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"hotel-waste-scheduler/config"
	"hotel-waste-scheduler/internal/logging"
	"hotel-waste-scheduler/internal/mail"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
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

	smtp := cfg.Mail.SMTP
	client, err := gomail.NewClient(smtp.Host,
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithSSL(),
		gomail.WithPort(smtp.Port),
		gomail.WithUsername(smtp.Username),
		gomail.WithPassword(smtp.Password),
		gomail.WithTimeout(time.Duration(smtp.DialTimeoutSeconds)*time.Second),
	)
	if err != nil {
		logger.Fatal("failed to create mail client", zap.Error(err))
	}
	defer client.Close()

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

	q, err := mail.DeclareQueue(ch, cfg.Mail.Queue)
	if err != nil {
		logger.Fatal("failed to declare mail queue", zap.String("queue", cfg.Mail.Queue), zap.Error(err))
	}

	// One message at a time; SMTP is the bottleneck anyway.
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("failed to set channel qos", zap.Error(err))
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("failed to consume mail queue", zap.Error(err))
	}

	from := cfg.Mail.From
	if from == "" {
		from = smtp.Username
	}
	consumer := mail.NewConsumer(mail.NewRenderer(from), client, logger)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Serve(ctx, deliveries)
	}()
	logger.Info("mailer consuming", zap.String("queue", q.Name), zap.String("smtp_host", smtp.Host))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown signal received, stopping mailer")
	cancel()
	wg.Wait()
}
