package queue

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

// NotificationMessage is the broker payload for a composed WhatsApp message.
type NotificationMessage struct {
	ID             string                  `json:"id"`
	CorrelationID  string                  `json:"correlationId,omitempty"`
	Kind           domain.NotificationKind `json:"kind"`
	OrganisationID uint                    `json:"organisationId"`
	BillNo         int64                   `json:"billNo"`
	Phone          string                  `json:"phone"`
	Body           string                  `json:"body"`
}

func NewNotificationMessage(msg domain.OutboundMessage, correlationID string) NotificationMessage {
	return NotificationMessage{
		ID:             uuid.NewString(),
		CorrelationID:  strings.TrimSpace(correlationID),
		Kind:           msg.Kind,
		OrganisationID: msg.OrganisationID,
		BillNo:         msg.BillNo,
		Phone:          msg.Phone,
		Body:           msg.Body,
	}
}

func (m NotificationMessage) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if err := m.Outbound().Validate(); err != nil {
		return err
	}
	return nil
}

func (m NotificationMessage) Outbound() domain.OutboundMessage {
	return domain.OutboundMessage{
		Kind:           m.Kind,
		OrganisationID: m.OrganisationID,
		BillNo:         m.BillNo,
		Phone:          m.Phone,
		Body:           m.Body,
	}
}
