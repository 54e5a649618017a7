package repository

import (
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/shopspring/decimal"
)

// OrganisationModel is the persistence model for organisations.
type OrganisationModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrganisationModel) TableName() string {
	return "organisations"
}

// CustomerModel is the persistence model for customers.
type CustomerModel struct {
	ID             uint   `gorm:"primaryKey"`
	OrganisationID uint   `gorm:"not null;index"`
	Name           string `gorm:"type:varchar(255);not null"`
	Phone          string `gorm:"type:varchar(32)"`
	Street         string `gorm:"type:varchar(255)"`
	Line2          string `gorm:"type:varchar(255)"`
	District       string `gorm:"type:varchar(128)"`
	State          string `gorm:"type:varchar(128)"`
	PostalCode     string `gorm:"type:varchar(16)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	ID             uint   `gorm:"primaryKey"`
	OrganisationID uint   `gorm:"not null;index"`
	Name           string `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// BillModel is the persistence model for bills. Bill numbers are unique per
// organisation.
type BillModel struct {
	ID             uint                `gorm:"primaryKey"`
	OrganisationID uint                `gorm:"not null;uniqueIndex:idx_bills_organisation_bill_no,priority:1"`
	Organisation   *OrganisationModel  `gorm:"foreignKey:OrganisationID"`
	BillNo         int64               `gorm:"not null;uniqueIndex:idx_bills_organisation_bill_no,priority:2"`
	BillingMode    domain.BillingMode  `gorm:"type:varchar(10);not null;default:online"`
	Status         domain.BillStatus   `gorm:"type:varchar(20);not null;default:created"`
	TrackingNumber *string             `gorm:"type:varchar(64)"`
	Weight         decimal.NullDecimal `gorm:"type:numeric(10,3)"`
	Total          decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingName   *string             `gorm:"type:varchar(128)"`
	ShippingType   *string             `gorm:"type:varchar(64)"`
	ShippingCost   decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	CustomerID     *uint               `gorm:"index"`
	Customer       *CustomerModel      `gorm:"foreignKey:CustomerID"`
	Items          []BillItemModel     `gorm:"foreignKey:BillID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (BillModel) TableName() string {
	return "bills"
}

// BillItemModel is the persistence model for bill_items.
type BillItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	BillID    uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null"`
	Product   ProductModel    `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (BillItemModel) TableName() string {
	return "bill_items"
}

func billModelToDomain(m *BillModel) *domain.Bill {
	if m == nil {
		return nil
	}

	bill := &domain.Bill{
		ID:             m.ID,
		OrganisationID: m.OrganisationID,
		BillNo:         m.BillNo,
		BillingMode:    m.BillingMode,
		Status:         m.Status,
		TrackingNumber: m.TrackingNumber,
		Total:          m.Total,
		CustomerID:     m.CustomerID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if m.Weight.Valid {
		weight := m.Weight.Decimal
		bill.Weight = &weight
	}
	if m.Organisation != nil {
		bill.Organisation = &domain.Organisation{ID: m.Organisation.ID, Name: m.Organisation.Name}
	}
	if m.Customer != nil {
		bill.Customer = customerModelToDomain(m.Customer)
	}
	if m.ShippingName != nil {
		bill.Shipping = &domain.ShippingMethod{
			Name: *m.ShippingName,
			Cost: m.ShippingCost.Decimal,
		}
		if m.ShippingType != nil {
			bill.Shipping.Type = *m.ShippingType
		}
	}

	if len(m.Items) > 0 {
		bill.Items = make([]domain.BillItem, 0, len(m.Items))
		for i := range m.Items {
			item := m.Items[i]
			bill.Items = append(bill.Items, domain.BillItem{
				ID:        item.ID,
				BillID:    item.BillID,
				ProductID: item.ProductID,
				Product: domain.Product{
					ID:             item.Product.ID,
					OrganisationID: item.Product.OrganisationID,
					Name:           item.Product.Name,
				},
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Amount:    item.Amount,
			})
		}
	}

	return bill
}

func customerModelToDomain(m *CustomerModel) *domain.Customer {
	if m == nil {
		return nil
	}

	return &domain.Customer{
		ID:             m.ID,
		OrganisationID: m.OrganisationID,
		Name:           m.Name,
		Phone:          m.Phone,
		Street:         m.Street,
		Line2:          m.Line2,
		District:       m.District,
		State:          m.State,
		PostalCode:     m.PostalCode,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
