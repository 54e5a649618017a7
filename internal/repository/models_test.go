package repository

import (
	"testing"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/shopspring/decimal"
)

func TestBillModelToDomain(t *testing.T) {
	t.Parallel()

	tracking := "C1234567"
	shippingName := "Express"
	shippingType := "air"
	customerID := uint(5)

	model := &BillModel{
		ID:             10,
		OrganisationID: 2,
		Organisation:   &OrganisationModel{ID: 2, Name: "Acme Traders"},
		BillNo:         1001,
		BillingMode:    domain.BillingModeOnline,
		Status:         domain.BillStatusShipped,
		TrackingNumber: &tracking,
		Weight:         decimal.NewNullDecimal(decimal.RequireFromString("1.250")),
		Total:          decimal.RequireFromString("499.00"),
		ShippingName:   &shippingName,
		ShippingType:   &shippingType,
		ShippingCost:   decimal.NewNullDecimal(decimal.RequireFromString("40.00")),
		CustomerID:     &customerID,
		Customer:       &CustomerModel{ID: 5, OrganisationID: 2, Name: "Ravi", Phone: "9876543210"},
		Items: []BillItemModel{
			{
				ID:        1,
				BillID:    10,
				ProductID: 3,
				Product:   ProductModel{ID: 3, OrganisationID: 2, Name: "Tea"},
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("100.00"),
				Amount:    decimal.RequireFromString("200.00"),
			},
		},
	}

	bill := billModelToDomain(model)

	if bill.OrganisationName() != "Acme Traders" {
		t.Fatalf("OrganisationName() = %q", bill.OrganisationName())
	}
	if bill.Weight == nil || !bill.Weight.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("Weight = %v, want 1.25", bill.Weight)
	}
	if bill.Shipping == nil || bill.Shipping.Name != "Express" || bill.Shipping.Type != "air" {
		t.Fatalf("Shipping = %+v", bill.Shipping)
	}
	if !bill.Customer.HasPhone() {
		t.Fatal("customer phone should be mapped")
	}
	if len(bill.Items) != 1 || bill.Items[0].Product.Name != "Tea" {
		t.Fatalf("Items = %+v", bill.Items)
	}
}

func TestBillModelToDomainOptionalFields(t *testing.T) {
	t.Parallel()

	bill := billModelToDomain(&BillModel{ID: 1, OrganisationID: 1, BillNo: 7})

	if bill.Weight != nil {
		t.Fatalf("Weight = %v, want nil", bill.Weight)
	}
	if bill.Shipping != nil {
		t.Fatalf("Shipping = %+v, want nil", bill.Shipping)
	}
	if bill.Customer != nil || bill.Organisation != nil {
		t.Fatal("unloaded associations should stay nil")
	}
	if billModelToDomain(nil) != nil {
		t.Fatal("nil model should map to nil")
	}
}

func TestNullDecimal(t *testing.T) {
	t.Parallel()

	if got := nullDecimal(nil); got.Valid {
		t.Fatal("nil weight should be NULL")
	}

	w := decimal.RequireFromString("0.5")
	if got := nullDecimal(&w); !got.Valid || !got.Decimal.Equal(w) {
		t.Fatalf("nullDecimal() = %+v", got)
	}
}
