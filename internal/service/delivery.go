package service

import (
	"fmt"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	infraredis "github.com/kursadbilgin/bill-notifier/internal/infra/redis"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/provider"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeliveryConfig carries the provider settings shared by the api inline mode
// and the worker.
type DeliveryConfig struct {
	WhatsAppAPIURL  string
	MaxAttempts     int
	RateLimitPerSec int
}

// NewDeliveryDispatcher builds the inline delivery path: Redis-backed provider
// tokens, the WhatsApp client with retries counted in metrics, and the
// per-organisation Redis rate limiter.
func NewDeliveryDispatcher(
	cfg DeliveryConfig,
	rdb *goredis.Client,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*InlineDispatcher, error) {
	tokens, err := provider.NewRedisTokenStore(rdb)
	if err != nil {
		return nil, fmt.Errorf("token store initialization failed: %w", err)
	}
	client, err := provider.NewWhatsAppClient(cfg.WhatsAppAPIURL, tokens)
	if err != nil {
		return nil, fmt.Errorf("whatsapp client initialization failed: %w", err)
	}
	sender, err := provider.NewRetryingSender(client, cfg.MaxAttempts, logger)
	if err != nil {
		return nil, fmt.Errorf("retrying sender initialization failed: %w", err)
	}
	sender.OnRetry(func(kind domain.NotificationKind) {
		metrics.IncDeliveryRetry(kind.String())
	})

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		return nil, fmt.Errorf("rate limiter initialization failed: %w", err)
	}

	return NewInlineDispatcher(sender, limiter, metrics, logger)
}
