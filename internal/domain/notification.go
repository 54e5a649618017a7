package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationKind identifies which message flow produced an outbound message.
type NotificationKind string

const (
	KindInvoice     NotificationKind = "invoice"
	KindOrderStatus NotificationKind = "order_status"
)

func (k NotificationKind) String() string { return string(k) }

func (k NotificationKind) IsValid() bool {
	switch k {
	case KindInvoice, KindOrderStatus:
		return true
	}
	return false
}

// OutboundMessage is a composed message waiting for delivery.
type OutboundMessage struct {
	Kind           NotificationKind
	OrganisationID uint
	BillNo         int64
	Phone          string
	Body           string
}

func (m OutboundMessage) Validate() error {
	if !m.Kind.IsValid() {
		return fmt.Errorf("%w: invalid notification kind %q", ErrValidation, m.Kind)
	}
	if m.OrganisationID == 0 {
		return fmt.Errorf("%w: organisation id is required", ErrValidation)
	}
	if strings.TrimSpace(m.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: message body is required", ErrValidation)
	}
	return nil
}

// NotificationStatus is the final state of a dispatch.
type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationQueued  NotificationStatus = "queued"
	NotificationSkipped NotificationStatus = "skipped"
)

func (s NotificationStatus) String() string { return string(s) }

// NotificationOutcome reports what happened to a notification. It is never persisted.
type NotificationOutcome struct {
	Status    NotificationStatus
	MessageID string
	Error     string
	Attempts  int
	Timestamp time.Time
}

func SkippedOutcome(reason string, at time.Time) *NotificationOutcome {
	return &NotificationOutcome{
		Status:    NotificationSkipped,
		Error:     reason,
		Timestamp: at,
	}
}
