package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

const (
	sendMessagePath = "/api/v2/message/send"
	messageTypeText = "text"
)

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

var _ Sender = (*WhatsAppClient)(nil)

// WhatsAppClient posts text messages to the messaging provider under an
// organisation's bearer token.
type WhatsAppClient struct {
	client   *resty.Client
	endpoint string
	tokens   TokenProvider
	now      func() time.Time
}

func NewWhatsAppClient(baseURL string, tokens TokenProvider) (*WhatsAppClient, error) {
	return NewWhatsAppClientWithClient(baseURL, tokens, resty.New())
}

func NewWhatsAppClientWithClient(baseURL string, tokens TokenProvider, client *resty.Client) (*WhatsAppClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("provider base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid provider base url: %w", err)
	}
	if tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	// Retries belong to RetryingSender.
	client.SetRetryCount(0)

	return &WhatsAppClient{
		client:   client,
		endpoint: trimmed + sendMessagePath,
		tokens:   tokens,
		now:      time.Now,
	}, nil
}

// Send performs one provider call. Every failure, including a panic inside
// the call, is reported in the returned result.
func (c *WhatsAppClient) Send(ctx context.Context, msg domain.OutboundMessage) (result DeliveryResult) {
	if c == nil || c.client == nil || c.tokens == nil {
		return DeliveryResult{Error: "provider is not initialized", Timestamp: time.Now().UTC()}
	}

	defer func() {
		if r := recover(); r != nil {
			result = c.failure(0, nil, fmt.Errorf("provider call panicked: %v", r))
		}
	}()

	phone, err := NormalizePhone(msg.Phone)
	if err != nil {
		return c.failure(0, nil, err)
	}

	token, err := c.tokens.Token(ctx, msg.OrganisationID)
	if err != nil {
		return c.failure(0, nil, err)
	}
	if strings.TrimSpace(token) == "" {
		return c.failure(0, nil, ErrTokenUnavailable)
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(sendMessageRequest{
			Phone:   phone,
			Type:    messageTypeText,
			Message: msg.Body,
		}).
		Post(c.endpoint)
	if err != nil {
		return c.failure(0, nil, &ProviderError{
			Message: "provider request failed",
			Cause:   err,
		})
	}

	statusCode := response.StatusCode()
	body := response.Body()

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return DeliveryResult{
			Success:    true,
			StatusCode: statusCode,
			MessageID:  extractMessageID(body),
			Response:   rawResponse(body),
			Timestamp:  c.now().UTC(),
		}
	}

	return c.failure(statusCode, body, &ProviderError{
		StatusCode: statusCode,
		Message:    providerErrorMessage(body),
	})
}

func (c *WhatsAppClient) failure(statusCode int, body []byte, err error) DeliveryResult {
	return DeliveryResult{
		StatusCode: statusCode,
		Response:   rawResponse(body),
		Error:      err.Error(),
		Timestamp:  c.now().UTC(),
	}
}

func providerErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "provider rejected the message"
	}
	return trimmed
}

func rawResponse(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	quoted, err := json.Marshal(trimmed)
	if err != nil {
		return nil
	}
	return quoted
}

func extractMessageID(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if id := messageIDFrom(payload); id != "" {
		return id
	}
	if data, ok := payload["data"].(map[string]any); ok {
		if id := messageIDFrom(data); id != "" {
			return id
		}
	}
	if messages, ok := payload["messages"].([]any); ok && len(messages) > 0 {
		if first, ok := messages[0].(map[string]any); ok {
			return messageIDFrom(first)
		}
	}
	return ""
}

func messageIDFrom(fields map[string]any) string {
	for _, key := range []string{"messageId", "message_id", "id"} {
		switch v := fields[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
