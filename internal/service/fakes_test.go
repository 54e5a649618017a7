package service

import (
	"context"
	"sync"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/provider"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
)

// fakeBillRepo keeps bills in memory keyed by organisation and bill number.
type fakeBillRepo struct {
	mu      sync.Mutex
	bills   map[uint]map[int64]*domain.Bill
	updates int

	findErr   error
	updateErr error
}

func newFakeBillRepo(bills ...*domain.Bill) *fakeBillRepo {
	repo := &fakeBillRepo{bills: make(map[uint]map[int64]*domain.Bill)}
	for _, b := range bills {
		if repo.bills[b.OrganisationID] == nil {
			repo.bills[b.OrganisationID] = make(map[int64]*domain.Bill)
		}
		repo.bills[b.OrganisationID][b.BillNo] = b
	}
	return repo
}

func (r *fakeBillRepo) FindByNumber(_ context.Context, organisationID uint, billNo int64) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.bills[organisationID][billNo]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBillRepo) UpdateShipment(_ context.Context, organisationID uint, billID uint, update domain.ShipmentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	for _, b := range r.bills[organisationID] {
		if b.ID != billID {
			continue
		}
		tracking := update.TrackingNumber
		b.TrackingNumber = &tracking
		b.Weight = update.Weight
		b.Status = domain.BillStatusShipped
		r.updates++
		return nil
	}
	return domain.ErrNotFound
}

func (r *fakeBillRepo) get(organisationID uint, billNo int64) *domain.Bill {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bills[organisationID][billNo]
}

type stubDispatcher struct {
	mu         sync.Mutex
	messages   []domain.OutboundMessage
	dispatchFn func(msg domain.OutboundMessage) domain.NotificationOutcome
}

func (d *stubDispatcher) Dispatch(_ context.Context, msg domain.OutboundMessage) domain.NotificationOutcome {
	d.mu.Lock()
	d.messages = append(d.messages, msg)
	d.mu.Unlock()

	if d.dispatchFn != nil {
		return d.dispatchFn(msg)
	}
	return domain.NotificationOutcome{Status: domain.NotificationSent, MessageID: "wamid-1", Attempts: 1}
}

func (d *stubDispatcher) sent() []domain.OutboundMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.OutboundMessage(nil), d.messages...)
}

type stubDeliverySender struct {
	calls  int
	sendFn func(msg domain.OutboundMessage) (provider.Delivery, error)
}

func (s *stubDeliverySender) Send(_ context.Context, msg domain.OutboundMessage) (provider.Delivery, error) {
	s.calls++
	return s.sendFn(msg)
}

type stubRateLimiter struct {
	waits   []uint
	waitErr error
}

func (l *stubRateLimiter) Allow(context.Context, uint) (bool, error) {
	return l.waitErr == nil, l.waitErr
}

func (l *stubRateLimiter) Wait(_ context.Context, organisationID uint) error {
	l.waits = append(l.waits, organisationID)
	return l.waitErr
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

type publishedMessage struct {
	queue string
	msg   queue.NotificationMessage
}

func (p *fakePublisher) Publish(_ context.Context, queueName string, msg queue.NotificationMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedMessage{queue: queueName, msg: msg})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeConsumer struct {
	mu        sync.Mutex
	queues    []string
	consumeFn func(ctx context.Context, queue string, handler queue.MessageHandler) error
}

func (c *fakeConsumer) Consume(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	c.mu.Lock()
	c.queues = append(c.queues, queueName)
	c.mu.Unlock()

	if c.consumeFn != nil {
		return c.consumeFn(ctx, queueName, handler)
	}
	<-ctx.Done()
	return nil
}

func (c *fakeConsumer) Close() error { return nil }
