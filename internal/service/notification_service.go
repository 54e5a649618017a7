package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/composer"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/repository"
	"github.com/kursadbilgin/bill-notifier/internal/textfmt"
	"go.uber.org/zap"
)

// NotificationService sends invoice messages for existing bills.
type NotificationService struct {
	bills      repository.BillRepository
	dispatcher Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewNotificationService(
	bills repository.BillRepository,
	dispatcher Dispatcher,
	logger *zap.Logger,
) (*NotificationService, error) {
	if bills == nil {
		return nil, fmt.Errorf("bill repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		bills:      bills,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// SendInvoice composes the invoice for a bill in the given variant and
// dispatches it. Bills without a customer phone are skipped.
func (s *NotificationService) SendInvoice(
	ctx context.Context,
	organisationID uint,
	billNo int64,
	variant composer.Variant,
) (*domain.NotificationOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if organisationID == 0 {
		return nil, domain.ErrUnauthorized
	}
	if billNo <= 0 {
		return nil, fmt.Errorf("%w: billId is required", domain.ErrValidation)
	}

	bill, err := s.bills.FindByNumber(ctx, organisationID, billNo)
	if err != nil {
		return nil, err
	}

	if !bill.Customer.HasPhone() {
		return domain.SkippedOutcome("customer has no phone number", s.now().UTC()), nil
	}

	outcome := s.dispatcher.Dispatch(ctx, domain.OutboundMessage{
		Kind:           domain.KindInvoice,
		OrganisationID: organisationID,
		BillNo:         bill.BillNo,
		Phone:          bill.Customer.Phone,
		Body:           composer.Compose(InvoiceFacts(bill), variant),
	})
	return &outcome, nil
}

// InvoiceFacts maps a loaded bill onto the invoice composer inputs.
func InvoiceFacts(bill *domain.Bill) composer.BillingFacts {
	lines := make([]string, 0, len(bill.Items))
	for _, item := range bill.Items {
		lines = append(lines, fmt.Sprintf("%s x%d - %s", item.Product.Name, item.Quantity, item.Amount.StringFixed(2)))
	}

	facts := composer.BillingFacts{
		CompanyName: bill.OrganisationName(),
		BillNumber:  strconv.FormatInt(bill.BillNo, 10),
		Items:       strings.Join(lines, "\n"),
		Total:       bill.Total.StringFixed(2),
	}

	if c := bill.Customer; c != nil {
		facts.Address = textfmt.JoinAddress(c.Street, c.Line2, c.District, c.State, c.PostalCode)
	}
	if bill.Shipping != nil {
		facts.Shipping = &composer.ShippingMethod{
			Name: bill.Shipping.Name,
			Type: bill.Shipping.Type,
			Cost: bill.Shipping.Cost.StringFixed(2),
		}
	}

	return facts
}
