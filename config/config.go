package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Environment string           `yaml:"environment" env:"ENVIRONMENT"`
	Log         LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Server      ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	Database    DatabaseConfig   `yaml:"database" envPrefix:"DATABASE_"`
	Scheduler   SchedulerConfig  `yaml:"scheduler" envPrefix:"SCHEDULER_"`
	Push        PushConfig       `yaml:"push" envPrefix:"PUSH_"`
	WorkerPool  WorkerPoolConfig `yaml:"worker_pool" envPrefix:"WORKER_POOL_"`
	Mail        MailConfig       `yaml:"mail" envPrefix:"MAIL_"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" env:"PORT"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" env:"RATE_LIMIT_PER_SEC"`
	RateLimitBurst  int     `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds" env:"CACHE_TTL_SECONDS"`
	ShutdownSeconds int     `yaml:"shutdown_seconds" env:"SHUTDOWN_SECONDS"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" env:"DRIVER"`
	DSN                    string `yaml:"dsn" env:"DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns           int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes" env:"CONN_MAX_LIFETIME_MINUTES"`
	LogLevel               string `yaml:"log_level" env:"LOG_LEVEL"`
}

// SchedulerConfig drives the rolling window maintenance loop.
type SchedulerConfig struct {
	Enabled         bool           `yaml:"enabled" env:"ENABLED"`
	IntervalSeconds int            `yaml:"interval_seconds" env:"INTERVAL_SECONDS"`
	Interval        time.Duration  `yaml:"-"` // Ignored by YAML parser
	Timezone        string         `yaml:"timezone" env:"TIMEZONE"`
	Location        *time.Location `yaml:"-"`
	KeepWeeks       int            `yaml:"keep_weeks" env:"KEEP_WEEKS"`
	CleanupEnabled  bool           `yaml:"cleanup_enabled" env:"CLEANUP_ENABLED"`
	ApologyEnabled  bool           `yaml:"apology_enabled" env:"APOLOGY_ENABLED"`
	ApologyHour     int            `yaml:"apology_hour" env:"APOLOGY_HOUR"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" env:"VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" env:"VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject" env:"SUBJECT"`
	TTL        int    `yaml:"ttl" env:"TTL"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size" env:"SIZE"`
	QueueSize int `yaml:"queue_size" env:"QUEUE_SIZE"`
}

// MailConfig covers both the publishing side (alert recipients, queue) and
// the SMTP settings used by the mail consumer.
type MailConfig struct {
	Enabled               bool       `yaml:"enabled" env:"ENABLED"`
	AMQPDSN               string     `yaml:"amqp_dsn" env:"AMQP_DSN"`
	Queue                 string     `yaml:"queue" env:"QUEUE"`
	PublishTimeoutSeconds int        `yaml:"publish_timeout_seconds" env:"PUBLISH_TIMEOUT_SECONDS"`
	AlertRecipients       []string   `yaml:"alert_recipients" env:"ALERT_RECIPIENTS" envSeparator:","`
	From                  string     `yaml:"from" env:"FROM"`
	SMTP                  SMTPConfig `yaml:"smtp" envPrefix:"SMTP_"`
}

// SMTPConfig is only read by mailerd.
type SMTPConfig struct {
	Host               string `yaml:"host" env:"HOST"`
	Port               int    `yaml:"port" env:"PORT"`
	Username           string `yaml:"username" env:"USERNAME"`
	Password           string `yaml:"password" env:"PASSWORD"`
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds" env:"DIAL_TIMEOUT_SECONDS"`
}

const defaultKeepWeeks = 4

// Load reads the configuration from the given path and applies environment overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Seeded before decoding so an explicit zero survives.
	cfg := Config{Scheduler: SchedulerConfig{KeepWeeks: defaultKeepWeeks}}
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	if cfg.Server.ShutdownSeconds <= 0 {
		cfg.Server.ShutdownSeconds = 5
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Scheduler.IntervalSeconds <= 0 {
		cfg.Scheduler.IntervalSeconds = 3600
	}
	cfg.Scheduler.Interval = time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second

	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Scheduler.Timezone, err)
	}
	cfg.Scheduler.Location = loc

	if cfg.Scheduler.KeepWeeks < 0 {
		return fmt.Errorf("scheduler.keep_weeks must not be negative, got %d", cfg.Scheduler.KeepWeeks)
	}
	if cfg.Scheduler.ApologyHour <= 0 || cfg.Scheduler.ApologyHour > 23 {
		cfg.Scheduler.ApologyHour = 16
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}

	if cfg.Mail.Queue == "" {
		cfg.Mail.Queue = "alert_mail_queue"
	}
	if cfg.Mail.PublishTimeoutSeconds <= 0 {
		cfg.Mail.PublishTimeoutSeconds = 10
	}
	if cfg.Mail.SMTP.Port <= 0 {
		cfg.Mail.SMTP.Port = 465
	}
	if cfg.Mail.SMTP.DialTimeoutSeconds <= 0 {
		cfg.Mail.SMTP.DialTimeoutSeconds = 10
	}
	return nil
}
