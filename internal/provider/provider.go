package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

// Sender is the outbound message delivery port. Implementations report
// failures in the result instead of returning errors.
type Sender interface {
	Send(ctx context.Context, msg domain.OutboundMessage) DeliveryResult
}

// TokenProvider returns a valid bearer token for an organisation.
type TokenProvider interface {
	Token(ctx context.Context, organisationID uint) (string, error)
}

// DeliveryResult is the outcome of a single provider call.
type DeliveryResult struct {
	Success    bool
	StatusCode int
	MessageID  string
	Response   json.RawMessage
	Error      string
	Timestamp  time.Time
}
