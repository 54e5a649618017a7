package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	baseRetryDelay     = time.Second
)

// Delivery is the final result of a retried send.
type Delivery struct {
	DeliveryResult
	Attempts int
}

// RetryingSender repeats a Sender call with exponential backoff until it
// succeeds or the attempt budget runs out.
type RetryingSender struct {
	sender      Sender
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
	onRetry     func(kind domain.NotificationKind)
	logger      *zap.Logger
}

func NewRetryingSender(sender Sender, maxAttempts int, logger *zap.Logger) (*RetryingSender, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RetryingSender{
		sender:      sender,
		maxAttempts: maxAttempts,
		baseDelay:   baseRetryDelay,
		sleep:       sleepWithContext,
		now:         time.Now,
		logger:      logger,
	}, nil
}

// OnRetry registers a hook called before every backoff wait.
func (r *RetryingSender) OnRetry(fn func(kind domain.NotificationKind)) {
	if r == nil {
		return
	}
	r.onRetry = fn
}

// Send delivers msg, waiting 2^attempt base delays between failed attempts.
// Exhaustion is reported as *RetryExhaustedError alongside the last result.
func (r *RetryingSender) Send(ctx context.Context, msg domain.OutboundMessage) (Delivery, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var last DeliveryResult
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		last = r.attempt(ctx, msg)
		if last.Success {
			return Delivery{DeliveryResult: last, Attempts: attempt}, nil
		}

		r.logger.Warn("delivery attempt failed",
			zap.String("kind", msg.Kind.String()),
			zap.Uint("organisationId", msg.OrganisationID),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", r.maxAttempts),
			zap.String("error", last.Error),
		)

		if attempt == r.maxAttempts {
			break
		}

		if r.onRetry != nil {
			r.onRetry(msg.Kind)
		}
		if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
			return Delivery{DeliveryResult: last, Attempts: attempt},
				fmt.Errorf("delivery retry canceled after %d attempts: %w", attempt, err)
		}
	}

	lastErr := last.Error
	if lastErr == "" {
		lastErr = "provider reported failure"
	}
	return Delivery{DeliveryResult: last, Attempts: r.maxAttempts}, &RetryExhaustedError{
		Attempts:  r.maxAttempts,
		LastError: lastErr,
	}
}

func (r *RetryingSender) attempt(ctx context.Context, msg domain.OutboundMessage) (result DeliveryResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = DeliveryResult{
				Error:     fmt.Sprintf("delivery attempt panicked: %v", rec),
				Timestamp: r.now().UTC(),
			}
		}
	}()

	return r.sender.Send(ctx, msg)
}

// backoff returns 2^attempt base delays: 2s, 4s, 8s for a one second base.
func (r *RetryingSender) backoff(attempt int) time.Duration {
	return r.baseDelay << uint(attempt)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
