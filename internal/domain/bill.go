package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the delivery state of a bill.
type BillStatus string

const (
	BillStatusCreated BillStatus = "created"
	BillStatusShipped BillStatus = "shipped"
)

func (s BillStatus) String() string { return string(s) }

// BillingMode tells whether a bill was raised for an online order or at a counter.
type BillingMode string

const (
	BillingModeOnline  BillingMode = "online"
	BillingModeOffline BillingMode = "offline"
)

func (m BillingMode) String() string { return string(m) }

// Organisation is the tenant owning bills, customers and provider credentials.
type Organisation struct {
	ID   uint
	Name string
}

// Customer is the buyer a bill is raised against.
type Customer struct {
	ID             uint
	OrganisationID uint
	Name           string
	Phone          string
	Street         string
	Line2          string
	District       string
	State          string
	PostalCode     string
}

func (c *Customer) HasPhone() bool {
	return c != nil && strings.TrimSpace(c.Phone) != ""
}

type Product struct {
	ID             uint
	OrganisationID uint
	Name           string
}

type BillItem struct {
	ID        uint
	BillID    uint
	ProductID uint
	Product   Product
	Quantity  int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// ShippingMethod is the optional delivery option chosen for a bill.
type ShippingMethod struct {
	Name string
	Type string
	Cost decimal.Decimal
}

// Bill is a billing record identified by an organisation-scoped sequential number.
type Bill struct {
	ID             uint
	OrganisationID uint
	Organisation   *Organisation
	BillNo         int64
	BillingMode    BillingMode
	Status         BillStatus
	TrackingNumber *string
	Weight         *decimal.Decimal
	Total          decimal.Decimal
	Shipping       *ShippingMethod
	CustomerID     *uint
	Customer       *Customer
	Items          []BillItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (b *Bill) IsOffline() bool {
	return b != nil && b.BillingMode == BillingModeOffline
}

func (b *Bill) OrganisationName() string {
	if b == nil || b.Organisation == nil {
		return ""
	}
	return b.Organisation.Name
}

// ShipmentUpdate carries the fields written when a tracking number is attached.
type ShipmentUpdate struct {
	TrackingNumber string
	Weight         *decimal.Decimal
}

func (u ShipmentUpdate) Validate() error {
	if strings.TrimSpace(u.TrackingNumber) == "" {
		return fmt.Errorf("%w: trackingNumber is required", ErrValidation)
	}
	return nil
}

// ParseWeight parses an optional decimal weight. Blank input means no weight.
func ParseWeight(raw string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	weight, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: weight must be a decimal number", ErrValidation)
	}
	return &weight, nil
}
