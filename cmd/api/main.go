package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/bill-notifier/internal/auth"
	"github.com/kursadbilgin/bill-notifier/internal/config"
	"github.com/kursadbilgin/bill-notifier/internal/handler"
	"github.com/kursadbilgin/bill-notifier/internal/infra/postgresql"
	"github.com/kursadbilgin/bill-notifier/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/bill-notifier/internal/infra/redis"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
	"github.com/kursadbilgin/bill-notifier/internal/repository"
	"github.com/kursadbilgin/bill-notifier/internal/service"
	"github.com/kursadbilgin/bill-notifier/internal/transport"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var errBrokerDisconnected = errors.New("rabbitmq connection closed")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, "api")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgresql.NewPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	metrics := observability.NewMetrics()

	dispatcher, readinessChecks, closeDispatcher, err := newDispatcher(ctx, cfg, rdb, metrics, logger)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}
	defer closeDispatcher()

	bills := repository.NewGormBillRepo(db)

	trackingService, err := service.NewTrackingService(bills, dispatcher, metrics, logger)
	if err != nil {
		logger.Fatal("tracking service initialization failed", zap.Error(err))
	}
	notificationService, err := service.NewNotificationService(bills, dispatcher, logger)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}

	sessions, err := auth.NewSessionManager(cfg.SessionSecret, auth.DefaultSessionTTL)
	if err != nil {
		logger.Fatal("session manager initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "bill-notifier",
		DisableStartupMessage: true,
		ErrorHandler:          transport.ErrorHandler(logger),
	})
	app.Use(observability.CorrelationMiddleware())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, handler.PingFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}), readinessChecks...)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("", transport.RequireSession(sessions, cfg.SessionCookieName))
	if err := handler.RegisterTrackingRoutes(api, trackingService); err != nil {
		logger.Fatal("tracking routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(api, notificationService); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	}()

	logger.Info("bill-notifier api started",
		zap.Int("port", cfg.APIPort),
		zap.String("notifyMode", cfg.NotifyMode),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("http server stopped", zap.Error(err))
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	logger.Info("bill-notifier api stopped")
}

// newDispatcher picks the delivery path for the configured notify mode. Inline
// sends from the request; queue hands off to the worker over RabbitMQ and adds
// the broker to the readiness checks.
func newDispatcher(
	ctx context.Context,
	cfg *config.Config,
	rdb *goredis.Client,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (service.Dispatcher, []handler.Check, func(), error) {
	if cfg.QueueMode() {
		mq, err := queue.NewRabbitMQ(ctx, cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("rabbitmq initialization failed: %w", err)
		}
		publisher := queue.NewRabbitMQPublisher(mq)
		dispatcher, err := service.NewQueueDispatcher(publisher, metrics, logger)
		if err != nil {
			_ = mq.Close()
			return nil, nil, nil, err
		}
		broker := handler.Check{Name: "rabbitmq", Pinger: handler.PingFunc(func(context.Context) error {
			if !mq.Connected() {
				return errBrokerDisconnected
			}
			return nil
		})}
		return dispatcher, []handler.Check{broker}, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("rabbitmq close failed", zap.Error(err))
			}
		}, nil
	}

	dispatcher, err := service.NewDeliveryDispatcher(service.DeliveryConfig{
		WhatsAppAPIURL:  cfg.WhatsAppAPIURL,
		MaxAttempts:     cfg.DeliveryMaxAttempts,
		RateLimitPerSec: cfg.RateLimitPerSec,
	}, rdb, metrics, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return dispatcher, nil, func() {}, nil
}
