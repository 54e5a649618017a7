package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

type stubSender struct {
	calls  int
	sendFn func(call int) DeliveryResult
}

func (s *stubSender) Send(_ context.Context, _ domain.OutboundMessage) DeliveryResult {
	s.calls++
	return s.sendFn(s.calls)
}

func newTestRetryingSender(t *testing.T, sender Sender, maxAttempts int) (*RetryingSender, *[]time.Duration) {
	t.Helper()

	r, err := NewRetryingSender(sender, maxAttempts, nil)
	if err != nil {
		t.Fatalf("NewRetryingSender() error = %v", err)
	}

	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func TestRetryingSenderSucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	sender := &stubSender{sendFn: func(call int) DeliveryResult {
		if call < 3 {
			return DeliveryResult{Error: "temporary failure"}
		}
		return DeliveryResult{Success: true, StatusCode: 200, MessageID: "m-3"}
	}}

	r, waits := newTestRetryingSender(t, sender, 3)

	var retries int
	r.OnRetry(func(kind domain.NotificationKind) {
		if kind != domain.KindInvoice {
			t.Errorf("retry kind = %q, want invoice", kind)
		}
		retries++
	})

	delivery, err := r.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sender.calls != 3 {
		t.Fatalf("calls = %d, want 3", sender.calls)
	}
	if delivery.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", delivery.Attempts)
	}
	if delivery.MessageID != "m-3" {
		t.Fatalf("MessageID = %q, want m-3", delivery.MessageID)
	}
	if retries != 2 {
		t.Fatalf("retries = %d, want 2", retries)
	}

	wantWaits := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*waits) != len(wantWaits) {
		t.Fatalf("waits = %v, want %v", *waits, wantWaits)
	}
	for i := range wantWaits {
		if (*waits)[i] != wantWaits[i] {
			t.Fatalf("waits = %v, want %v", *waits, wantWaits)
		}
	}
}

func TestRetryingSenderExhaustsAttempts(t *testing.T) {
	t.Parallel()

	sender := &stubSender{sendFn: func(call int) DeliveryResult {
		return DeliveryResult{Error: "failure " + string(rune('0'+call))}
	}}

	r, waits := newTestRetryingSender(t, sender, 4)

	delivery, err := r.Send(context.Background(), testMessage())
	if err == nil {
		t.Fatal("expected error")
	}

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error type = %T, want *RetryExhaustedError", err)
	}
	if exhausted.Attempts != 4 {
		t.Fatalf("Attempts = %d, want 4", exhausted.Attempts)
	}
	if exhausted.LastError != "failure 4" {
		t.Fatalf("LastError = %q, want %q", exhausted.LastError, "failure 4")
	}
	if !strings.Contains(err.Error(), "after 4 attempts") || !strings.Contains(err.Error(), "failure 4") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if sender.calls != 4 {
		t.Fatalf("calls = %d, want 4", sender.calls)
	}
	if delivery.Attempts != 4 {
		t.Fatalf("delivery.Attempts = %d, want 4", delivery.Attempts)
	}
	// No wait follows the final attempt.
	if len(*waits) != 3 {
		t.Fatalf("waits = %v, want 3 entries", *waits)
	}
}

func TestRetryingSenderDefaultsToThreeAttempts(t *testing.T) {
	t.Parallel()

	sender := &stubSender{sendFn: func(int) DeliveryResult {
		return DeliveryResult{}
	}}

	r, _ := newTestRetryingSender(t, sender, 0)

	_, err := r.Send(context.Background(), testMessage())

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error type = %T, want *RetryExhaustedError", err)
	}
	if sender.calls != DefaultMaxAttempts {
		t.Fatalf("calls = %d, want %d", sender.calls, DefaultMaxAttempts)
	}
	if exhausted.LastError == "" {
		t.Fatal("LastError should not be empty")
	}
}

func TestRetryingSenderRecoversPanic(t *testing.T) {
	t.Parallel()

	sender := &stubSender{sendFn: func(call int) DeliveryResult {
		if call == 1 {
			panic("boom")
		}
		return DeliveryResult{Success: true}
	}}

	r, _ := newTestRetryingSender(t, sender, 2)

	delivery, err := r.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if delivery.Attempts != 2 {
		t.Fatalf("Attempts = %d, want 2", delivery.Attempts)
	}
}

func TestRetryingSenderStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	sender := &stubSender{sendFn: func(int) DeliveryResult {
		return DeliveryResult{Error: "down"}
	}}

	r, err := NewRetryingSender(sender, 3, nil)
	if err != nil {
		t.Fatalf("NewRetryingSender() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	delivery, err := r.Send(ctx, testMessage())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Send() error = %v, want context.Canceled", err)
	}
	if sender.calls != 1 || delivery.Attempts != 1 {
		t.Fatalf("calls = %d attempts = %d, want 1", sender.calls, delivery.Attempts)
	}
}

func TestNewRetryingSenderRequiresSender(t *testing.T) {
	t.Parallel()

	if _, err := NewRetryingSender(nil, 3, nil); err == nil {
		t.Fatal("expected error")
	}
}
