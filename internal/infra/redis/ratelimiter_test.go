package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestRedisRateLimiterAllow(t *testing.T) {
	t.Parallel()

	rdb := newTestRedisClient(t)

	now := time.Unix(1_700_000_000, 0)
	limiter, err := newRedisRateLimiter(
		rdb,
		2,
		func() time.Time { return now },
		sleepWithContext,
	)
	if err != nil {
		t.Fatalf("newRedisRateLimiter() error = %v", err)
	}

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{want: true},
		{want: true},
		{want: false},
		{advance: time.Second, want: true},
	}

	for i, step := range steps {
		now = now.Add(step.advance)

		allowed, err := limiter.Allow(context.Background(), 7)
		if err != nil {
			t.Fatalf("step %d: Allow() error = %v", i, err)
		}
		if allowed != step.want {
			t.Fatalf("step %d: allowed = %v, want %v", i, allowed, step.want)
		}
	}
}

func TestRedisRateLimiterAllowPerOrganisation(t *testing.T) {
	t.Parallel()

	rdb := newTestRedisClient(t)

	now := time.Unix(1_700_000_100, 0)
	limiter, err := newRedisRateLimiter(
		rdb,
		1,
		func() time.Time { return now },
		sleepWithContext,
	)
	if err != nil {
		t.Fatalf("newRedisRateLimiter() error = %v", err)
	}

	allowed, err := limiter.Allow(context.Background(), 1)
	if err != nil {
		t.Fatalf("Allow(1) error = %v", err)
	}
	if !allowed {
		t.Fatal("organisation 1 should be allowed on first request")
	}

	allowed, err = limiter.Allow(context.Background(), 2)
	if err != nil {
		t.Fatalf("Allow(2) error = %v", err)
	}
	if !allowed {
		t.Fatal("organisation 2 should be allowed on first request")
	}

	allowed, err = limiter.Allow(context.Background(), 1)
	if err != nil {
		t.Fatalf("Allow(1) error = %v", err)
	}
	if allowed {
		t.Fatal("organisation 1 second request should be rejected")
	}
}

func TestRedisRateLimiterRejectsMissingOrganisation(t *testing.T) {
	t.Parallel()

	limiter, err := NewRedisRateLimiter(newTestRedisClient(t), 1)
	if err != nil {
		t.Fatalf("NewRedisRateLimiter() error = %v", err)
	}

	if _, err := limiter.Allow(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero organisation id")
	}
}

func TestRedisRateLimiterWait(t *testing.T) {
	t.Parallel()

	rdb := newTestRedisClient(t)

	now := time.Unix(1_700_000_200, 0)
	sleepCalls := 0
	limiter, err := newRedisRateLimiter(
		rdb,
		1,
		func() time.Time { return now },
		func(ctx context.Context, d time.Duration) error {
			sleepCalls++
			if sleepCalls == 1 {
				now = now.Add(time.Second)
			}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("newRedisRateLimiter() error = %v", err)
	}

	allowed, err := limiter.Allow(context.Background(), 3)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Fatal("expected first call to be allowed")
	}

	if err := limiter.Wait(context.Background(), 3); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if sleepCalls == 0 {
		t.Fatal("expected Wait() to sleep at least once")
	}
}

func TestRedisRateLimiterWaitContextDeadline(t *testing.T) {
	t.Parallel()

	rdb := newTestRedisClient(t)

	now := time.Unix(1_700_000_300, 0)
	limiter, err := newRedisRateLimiter(
		rdb,
		1,
		func() time.Time { return now },
		sleepWithContext,
	)
	if err != nil {
		t.Fatalf("newRedisRateLimiter() error = %v", err)
	}

	allowed, err := limiter.Allow(context.Background(), 4)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Fatal("expected first call to be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err = limiter.Wait(ctx, 4)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestWindowKey(t *testing.T) {
	t.Parallel()

	got := windowKey(12, time.Unix(1_700_000_000, 0))
	if want := "ratelimit:whatsapp:12:1700000000"; got != want {
		t.Fatalf("windowKey() = %q, want %q", got, want)
	}
}

func newTestRedisClient(t *testing.T) *goredis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return rdb
}
