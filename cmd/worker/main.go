package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/bill-notifier/internal/config"
	"github.com/kursadbilgin/bill-notifier/internal/handler"
	infraredis "github.com/kursadbilgin/bill-notifier/internal/infra/redis"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
	"github.com/kursadbilgin/bill-notifier/internal/service"
	"go.uber.org/zap"
)

const (
	metricsAddr     = ":9091"
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.RequireRabbitMQ(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, "worker")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := infraredis.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	metrics := observability.NewMetrics()

	dispatcher, err := service.NewDeliveryDispatcher(service.DeliveryConfig{
		WhatsAppAPIURL:  cfg.WhatsAppAPIURL,
		MaxAttempts:     cfg.DeliveryMaxAttempts,
		RateLimitPerSec: cfg.RateLimitPerSec,
	}, rdb, metrics, logger)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}

	mq, err := queue.NewRabbitMQ(ctx, cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	consumer := queue.NewRabbitMQConsumer(mq, cfg.WorkerConcurrency, logger)
	defer consumer.Close()

	worker, err := service.NewWorkerService(consumer, dispatcher, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Fatal("worker initialization failed", zap.Error(err))
	}
	worker.SetMetrics(metrics)

	metricsApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	metricsApp.Get("/livez", handler.LivezHandler())
	metricsApp.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	go func() {
		if err := metricsApp.Listen(metricsAddr); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	logger.Info("bill-notifier worker started",
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.Strings("queues", queue.WorkQueueNames()),
	)

	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", zap.Error(err))
	}

	if err := metricsApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("metrics server shutdown failed", zap.Error(err))
	}
	logger.Info("bill-notifier worker stopped")
}
