package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/provider"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
	"github.com/kursadbilgin/bill-notifier/internal/ratelimit"
	"go.uber.org/zap"
)

// Dispatcher hands a composed message to the delivery path. It never fails;
// problems are reported in the outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.OutboundMessage) domain.NotificationOutcome
}

// DeliverySender is satisfied by provider.RetryingSender.
type DeliverySender interface {
	Send(ctx context.Context, msg domain.OutboundMessage) (provider.Delivery, error)
}

const (
	reasonInvalidMessage = "invalid_message"
	reasonRateLimited    = "rate_limiter"
	reasonRetryExhausted = "retry_exhausted"
	reasonCanceled       = "canceled"
	reasonPublishError   = "publish_error"
)

// InlineDispatcher delivers within the caller's request: throttle, then
// send with retries.
type InlineDispatcher struct {
	sender      DeliverySender
	rateLimiter ratelimit.RateLimiter
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

func NewInlineDispatcher(
	sender DeliverySender,
	rateLimiter ratelimit.RateLimiter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*InlineDispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("delivery sender is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InlineDispatcher{
		sender:      sender,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, msg domain.OutboundMessage) domain.NotificationOutcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.WithContextLogger(d.logger, ctx)
	kind := msg.Kind.String()

	if err := msg.Validate(); err != nil {
		d.metrics.IncNotificationFailed(kind, reasonInvalidMessage)
		return d.failed(err.Error(), 0)
	}

	if d.rateLimiter != nil {
		if err := d.rateLimiter.Wait(ctx, msg.OrganisationID); err != nil {
			logger.Warn("rate limiter wait failed",
				zap.String("kind", kind),
				zap.Uint("organisationId", msg.OrganisationID),
				zap.Error(err),
			)
			d.metrics.IncNotificationFailed(kind, reasonRateLimited)
			return d.failed(fmt.Sprintf("rate limiter wait failed: %v", err), 0)
		}
	}

	start := d.now()
	delivery, err := d.sender.Send(ctx, msg)
	d.metrics.ObserveNotificationSendDuration(kind, d.now().Sub(start))

	if err != nil {
		reason := reasonCanceled
		var exhausted *provider.RetryExhaustedError
		if errors.As(err, &exhausted) {
			reason = reasonRetryExhausted
		}

		logger.Error("notification delivery failed",
			zap.String("kind", kind),
			zap.Uint("organisationId", msg.OrganisationID),
			zap.Int64("billNo", msg.BillNo),
			zap.Int("attempts", delivery.Attempts),
			zap.Error(err),
		)
		d.metrics.IncNotificationFailed(kind, reason)
		return d.failed(err.Error(), delivery.Attempts)
	}

	logger.Info("notification delivered",
		zap.String("kind", kind),
		zap.Uint("organisationId", msg.OrganisationID),
		zap.Int64("billNo", msg.BillNo),
		zap.String("messageId", delivery.MessageID),
		zap.Int("attempts", delivery.Attempts),
	)
	d.metrics.IncNotificationSent(kind)

	return domain.NotificationOutcome{
		Status:    domain.NotificationSent,
		MessageID: delivery.MessageID,
		Attempts:  delivery.Attempts,
		Timestamp: d.now().UTC(),
	}
}

func (d *InlineDispatcher) failed(reason string, attempts int) domain.NotificationOutcome {
	return domain.NotificationOutcome{
		Status:    domain.NotificationFailed,
		Error:     reason,
		Attempts:  attempts,
		Timestamp: d.now().UTC(),
	}
}

// QueueDispatcher publishes messages for the worker process to deliver.
type QueueDispatcher struct {
	publisher queue.Publisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewQueueDispatcher(publisher queue.Publisher, metrics *observability.Metrics, logger *zap.Logger) (*QueueDispatcher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QueueDispatcher{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg domain.OutboundMessage) domain.NotificationOutcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.WithContextLogger(d.logger, ctx)
	kind := msg.Kind.String()

	if err := msg.Validate(); err != nil {
		d.metrics.IncNotificationFailed(kind, reasonInvalidMessage)
		return domain.NotificationOutcome{Status: domain.NotificationFailed, Error: err.Error(), Timestamp: d.now().UTC()}
	}

	correlationID, _ := observability.CorrelationIDFromContext(ctx)
	queued := queue.NewNotificationMessage(msg, correlationID)

	if err := d.publisher.Publish(ctx, queue.QueueName(msg.Kind), queued); err != nil {
		logger.Error("failed to publish notification",
			zap.String("kind", kind),
			zap.Uint("organisationId", msg.OrganisationID),
			zap.Error(err),
		)
		d.metrics.IncNotificationFailed(kind, reasonPublishError)
		return domain.NotificationOutcome{
			Status:    domain.NotificationFailed,
			Error:     fmt.Sprintf("failed to queue notification: %v", err),
			Timestamp: d.now().UTC(),
		}
	}

	return domain.NotificationOutcome{
		Status:    domain.NotificationQueued,
		MessageID: queued.ID,
		Timestamp: d.now().UTC(),
	}
}
