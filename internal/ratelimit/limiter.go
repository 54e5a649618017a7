package ratelimit

import "context"

// RateLimiter throttles provider sends per organisation so one tenant's
// burst cannot exhaust the shared provider quota.
type RateLimiter interface {
	Allow(ctx context.Context, organisationID uint) (bool, error)
	Wait(ctx context.Context, organisationID uint) error
}
