package config

import (
	"fmt"
	"strings"

	"github.com/Netflix/go-env"
)

const (
	NotifyModeInline = "inline"
	NotifyModeQueue  = "queue"
)

type Config struct {
	DatabaseDSN         string `env:"DATABASE_DSN,required=true"`
	RedisURL            string `env:"REDIS_URL,required=true"`
	WhatsAppAPIURL      string `env:"WHATSAPP_API_URL,required=true"`
	SessionSecret       string `env:"SESSION_SECRET,required=true"`
	SessionCookieName   string `env:"SESSION_COOKIE_NAME,default=session"`
	NotifyMode          string `env:"NOTIFY_MODE,default=inline"`
	RabbitMQURL         string `env:"RABBITMQ_URL"`
	DeliveryMaxAttempts int    `env:"DELIVERY_MAX_ATTEMPTS,default=3"`
	RateLimitPerSec     int    `env:"RATE_LIMIT_PER_SEC,default=20"`
	WorkerConcurrency   int    `env:"WORKER_CONCURRENCY,default=4"`
	APIPort             int    `env:"API_PORT,default=8080"`
	LogLevel            string `env:"LOG_LEVEL,default=info"`
}

// CLIConfig is the subset read by notifyctl. Every field is optional because
// each subcommand needs a different part and flags can override it.
type CLIConfig struct {
	DatabaseDSN   string `env:"DATABASE_DSN"`
	RedisURL      string `env:"REDIS_URL"`
	RabbitMQURL   string `env:"RABBITMQ_URL"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL,default=warn"`
}

func LoadCLI() (*CLIConfig, error) {
	var cfg CLIConfig
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.NotifyMode = strings.ToLower(strings.TrimSpace(cfg.NotifyMode))
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// RequireRabbitMQ is used by processes that always talk to the broker.
func (c *Config) RequireRabbitMQ() error {
	if strings.TrimSpace(c.RabbitMQURL) == "" {
		return fmt.Errorf("RABBITMQ_URL is required")
	}
	return nil
}

func (c *Config) QueueMode() bool {
	return c.NotifyMode == NotifyModeQueue
}

func (c *Config) validate() error {
	switch c.NotifyMode {
	case NotifyModeInline:
	case NotifyModeQueue:
		if err := c.RequireRabbitMQ(); err != nil {
			return fmt.Errorf("NOTIFY_MODE=queue: %w", err)
		}
	default:
		return fmt.Errorf("NOTIFY_MODE must be %q or %q, got %q", NotifyModeInline, NotifyModeQueue, c.NotifyMode)
	}

	if c.DeliveryMaxAttempts < 1 {
		return fmt.Errorf("DELIVERY_MAX_ATTEMPTS must be positive")
	}
	if c.RateLimitPerSec < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_SEC must be positive")
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	return nil
}
