package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kursadbilgin/bill-notifier/internal/composer"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/shopspring/decimal"
)

func TestNotificationServiceSendInvoice(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		variant     composer.Variant
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "default",
			variant:     composer.VariantDefault,
			wantContain: []string{"1001", "450.00", "Green Tea x2 - 200.00", "12 MG Road"},
		},
		{
			name:        "compact omits items",
			variant:     composer.VariantCompact,
			wantContain: []string{"1001", "450.00"},
			wantAbsent:  []string{"Green Tea"},
		},
		{
			name:        "detailed",
			variant:     composer.VariantDetailed,
			wantContain: []string{"INVOICE", "Honey x1 - 250.00"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dispatcher := &stubDispatcher{}
			svc, err := NewNotificationService(newFakeBillRepo(onlineBill()), dispatcher, nil)
			if err != nil {
				t.Fatalf("NewNotificationService() error = %v", err)
			}

			outcome, err := svc.SendInvoice(context.Background(), 1, 1001, tc.variant)
			if err != nil {
				t.Fatalf("SendInvoice() error = %v", err)
			}
			if outcome.Status != domain.NotificationSent {
				t.Fatalf("Status = %q, want sent", outcome.Status)
			}

			sent := dispatcher.sent()
			if len(sent) != 1 {
				t.Fatalf("dispatched = %d, want 1", len(sent))
			}
			if sent[0].Kind != domain.KindInvoice {
				t.Fatalf("Kind = %q, want invoice", sent[0].Kind)
			}
			for _, want := range tc.wantContain {
				if !strings.Contains(sent[0].Body, want) {
					t.Fatalf("body missing %q:\n%s", want, sent[0].Body)
				}
			}
			for _, absent := range tc.wantAbsent {
				if strings.Contains(sent[0].Body, absent) {
					t.Fatalf("body should not contain %q:\n%s", absent, sent[0].Body)
				}
			}
		})
	}
}

func TestNotificationServiceSendInvoiceWithoutPhoneSkips(t *testing.T) {
	t.Parallel()

	bill := onlineBill()
	bill.Customer = nil

	dispatcher := &stubDispatcher{}
	svc, err := NewNotificationService(newFakeBillRepo(bill), dispatcher, nil)
	if err != nil {
		t.Fatalf("NewNotificationService() error = %v", err)
	}

	outcome, err := svc.SendInvoice(context.Background(), 1, 1001, composer.VariantDefault)
	if err != nil {
		t.Fatalf("SendInvoice() error = %v", err)
	}
	if outcome.Status != domain.NotificationSkipped {
		t.Fatalf("Status = %q, want skipped", outcome.Status)
	}
	if len(dispatcher.sent()) != 0 {
		t.Fatal("no message expected")
	}
}

func TestNotificationServiceSendInvoiceErrors(t *testing.T) {
	t.Parallel()

	svc, err := NewNotificationService(newFakeBillRepo(onlineBill()), &stubDispatcher{}, nil)
	if err != nil {
		t.Fatalf("NewNotificationService() error = %v", err)
	}

	if _, err := svc.SendInvoice(context.Background(), 1, 404, composer.VariantDefault); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SendInvoice() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.SendInvoice(context.Background(), 1, 0, composer.VariantDefault); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("SendInvoice() error = %v, want ErrValidation", err)
	}
	if _, err := svc.SendInvoice(context.Background(), 0, 1001, composer.VariantDefault); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("SendInvoice() error = %v, want ErrUnauthorized", err)
	}
}

func TestInvoiceFactsShipping(t *testing.T) {
	t.Parallel()

	bill := onlineBill()
	bill.Shipping = &domain.ShippingMethod{Name: "Express", Type: "air", Cost: decimal.RequireFromString("40")}

	facts := InvoiceFacts(bill)
	if facts.Shipping == nil || facts.Shipping.Line() != "Express (air) - 40.00" {
		t.Fatalf("Shipping = %+v", facts.Shipping)
	}
	if facts.Address != "12 MG Road, Karnataka" {
		t.Fatalf("Address = %q", facts.Address)
	}
	if facts.CompanyName != "Acme Traders" || facts.BillNumber != "1001" {
		t.Fatalf("facts = %+v", facts)
	}
}
