package queue

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

// Publisher publishes notification messages to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg NotificationMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message. A returned error
// dead-letters the message.
type MessageHandler func(ctx context.Context, msg NotificationMessage) error

// Consumer consumes notification messages from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}

const queuePrefix = "whatsapp"

var supportedKinds = []domain.NotificationKind{
	domain.KindInvoice,
	domain.KindOrderStatus,
}

// QueueName returns the work queue for a kind, e.g. whatsapp.invoice.
func QueueName(kind domain.NotificationKind) string {
	return fmt.Sprintf("%s.%s", queuePrefix, kind)
}

// DLQName returns the dead-letter queue for a kind, e.g. dlq.whatsapp.invoice.
func DLQName(kind domain.NotificationKind) string {
	return "dlq." + QueueName(kind)
}

func WorkQueueNames() []string {
	queues := make([]string, 0, len(supportedKinds))
	for _, kind := range supportedKinds {
		queues = append(queues, QueueName(kind))
	}
	return queues
}

func DLQNames() []string {
	queues := make([]string, 0, len(supportedKinds))
	for _, kind := range supportedKinds {
		queues = append(queues, DLQName(kind))
	}
	return queues
}
