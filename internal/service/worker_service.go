package service

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const minWorkerConcurrency = 1

// WorkerService drains the notification queues through an inline dispatcher.
type WorkerService struct {
	consumer    queue.Consumer
	dispatcher  Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	concurrency int
}

func NewWorkerService(
	consumer queue.Consumer,
	dispatcher Dispatcher,
	concurrency int,
	logger *zap.Logger,
) (*WorkerService, error) {
	if consumer == nil {
		return nil, fmt.Errorf("consumer is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if concurrency < minWorkerConcurrency {
		concurrency = minWorkerConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WorkerService{
		consumer:    consumer,
		dispatcher:  dispatcher,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

func (s *WorkerService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start runs the consumers until ctx is canceled. Workers are spread across
// the queues round-robin; each queue gets at least one.
func (s *WorkerService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	queueNames := queue.WorkQueueNames()
	if len(queueNames) == 0 {
		return fmt.Errorf("no work queues configured")
	}

	workers := max(s.concurrency, len(queueNames))

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		queueName := queueNames[i%len(queueNames)]
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("worker started",
				zap.Int("workerId", workerID),
				zap.String("queue", queueName),
			)

			err := s.consumer.Consume(groupCtx, queueName, s.processMessage)
			if err != nil {
				s.logger.Error("worker stopped with error",
					zap.Int("workerId", workerID),
					zap.String("queue", queueName),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("worker stopped",
				zap.Int("workerId", workerID),
				zap.String("queue", queueName),
			)
			return nil
		})
	}

	return g.Wait()
}

// processMessage returns an error for any outcome other than sent, which
// dead-letters the message.
func (s *WorkerService) processMessage(ctx context.Context, msg queue.NotificationMessage) error {
	if msg.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, msg.CorrelationID)
	}

	kind := msg.Kind.String()
	s.metrics.IncWorkerInFlight(kind)
	defer s.metrics.DecWorkerInFlight(kind)

	outcome := s.dispatcher.Dispatch(ctx, msg.Outbound())
	if outcome.Status != domain.NotificationSent {
		return fmt.Errorf("message %s not delivered after %d attempts: %s", msg.ID, outcome.Attempts, outcome.Error)
	}

	observability.WithContextLogger(s.logger, ctx).Debug("queued notification delivered",
		zap.String("messageId", msg.ID),
		zap.String("providerMessageId", outcome.MessageID),
	)
	return nil
}
