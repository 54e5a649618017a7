package handler

import (
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/courier"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

type organisationResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type customerResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street,omitempty"`
	Line2      string `json:"line2,omitempty"`
	District   string `json:"district,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

type billItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

type shippingResponse struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Cost string `json:"cost"`
}

type billResponse struct {
	ID             uint                  `json:"id"`
	BillID         int64                 `json:"billId"`
	BillingMode    string                `json:"billingMode"`
	Status         string                `json:"status"`
	TrackingNumber *string               `json:"trackingNumber"`
	Courier        string                `json:"courier,omitempty"`
	TrackingURL    string                `json:"trackingUrl,omitempty"`
	Weight         *string               `json:"weight"`
	Total          string                `json:"total"`
	Shipping       *shippingResponse     `json:"shipping,omitempty"`
	Organisation   *organisationResponse `json:"organisation,omitempty"`
	Customer       *customerResponse     `json:"customer,omitempty"`
	Items          []billItemResponse    `json:"items"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type outcomeResponse struct {
	Status    string    `json:"status"`
	MessageID string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
	Attempts  int       `json:"attempts"`
	Timestamp time.Time `json:"timestamp"`
}

func toBillResponse(b *domain.Bill) billResponse {
	resp := billResponse{
		ID:             b.ID,
		BillID:         b.BillNo,
		BillingMode:    b.BillingMode.String(),
		Status:         b.Status.String(),
		TrackingNumber: b.TrackingNumber,
		Total:          b.Total.StringFixed(2),
		Items:          make([]billItemResponse, 0, len(b.Items)),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}

	if b.TrackingNumber != nil && *b.TrackingNumber != "" {
		resp.Courier, resp.TrackingURL = courier.Lookup(*b.TrackingNumber)
	}
	if b.Weight != nil {
		weight := b.Weight.String()
		resp.Weight = &weight
	}
	if b.Shipping != nil {
		resp.Shipping = &shippingResponse{
			Name: b.Shipping.Name,
			Type: b.Shipping.Type,
			Cost: b.Shipping.Cost.StringFixed(2),
		}
	}
	if b.Organisation != nil {
		resp.Organisation = &organisationResponse{ID: b.Organisation.ID, Name: b.Organisation.Name}
	}
	if c := b.Customer; c != nil {
		resp.Customer = &customerResponse{
			ID:         c.ID,
			Name:       c.Name,
			Phone:      c.Phone,
			Street:     c.Street,
			Line2:      c.Line2,
			District:   c.District,
			State:      c.State,
			PostalCode: c.PostalCode,
		}
	}

	for _, item := range b.Items {
		resp.Items = append(resp.Items, billItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}

	return resp
}

func toOutcomeResponse(o *domain.NotificationOutcome) *outcomeResponse {
	if o == nil {
		return nil
	}
	return &outcomeResponse{
		Status:    o.Status.String(),
		MessageID: o.MessageID,
		Error:     o.Error,
		Attempts:  o.Attempts,
		Timestamp: o.Timestamp,
	}
}
