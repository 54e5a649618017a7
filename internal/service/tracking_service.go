package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/composer"
	"github.com/kursadbilgin/bill-notifier/internal/courier"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/kursadbilgin/bill-notifier/internal/repository"
	"github.com/kursadbilgin/bill-notifier/internal/textfmt"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const weightUnit = "kg"

// TrackingUpdate is a validated request to attach a tracking number to a bill.
type TrackingUpdate struct {
	BillNo         int64
	TrackingNumber string
	Weight         *decimal.Decimal
	// UserID is the session user recorded in the audit log line.
	UserID string
}

// TrackingResult is the updated bill and, when a message was attempted, its
// outcome. The outcome never affects whether the update succeeded.
type TrackingResult struct {
	Bill         *domain.Bill
	Notification *domain.NotificationOutcome
}

type TrackingService struct {
	bills      repository.BillRepository
	dispatcher Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewTrackingService(
	bills repository.BillRepository,
	dispatcher Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*TrackingService, error) {
	if bills == nil {
		return nil, fmt.Errorf("bill repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TrackingService{
		bills:      bills,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// SubmitTracking records the shipment and notifies the customer. Offline bills
// are rejected before anything is written.
func (s *TrackingService) SubmitTracking(ctx context.Context, organisationID uint, req TrackingUpdate) (*TrackingResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if organisationID == 0 {
		return nil, domain.ErrUnauthorized
	}
	if req.BillNo <= 0 {
		return nil, fmt.Errorf("%w: billId is required", domain.ErrValidation)
	}

	update := domain.ShipmentUpdate{
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
		Weight:         req.Weight,
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	bill, err := s.bills.FindByNumber(ctx, organisationID, req.BillNo)
	if err != nil {
		return nil, err
	}
	if bill.IsOffline() {
		return nil, domain.ErrOfflineBill
	}

	if err := s.bills.UpdateShipment(ctx, organisationID, bill.ID, update); err != nil {
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}

	updated, err := s.bills.FindByNumber(ctx, organisationID, req.BillNo)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bill: %w", err)
	}

	courierName := courier.Classify(update.TrackingNumber)
	s.metrics.IncTrackingUpdate(courierName)

	observability.WithContextLogger(s.logger, ctx).Info("tracking number recorded",
		zap.Uint("organisationId", organisationID),
		zap.Int64("billNo", req.BillNo),
		zap.String("courier", courierName),
		zap.String("userId", req.UserID),
	)

	return &TrackingResult{
		Bill:         updated,
		Notification: s.notifyShipment(ctx, updated),
	}, nil
}

func (s *TrackingService) GetTracking(ctx context.Context, organisationID uint, billNo int64) (*domain.Bill, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if organisationID == 0 {
		return nil, domain.ErrUnauthorized
	}
	if billNo <= 0 {
		return nil, fmt.Errorf("%w: billId is required", domain.ErrValidation)
	}

	return s.bills.FindByNumber(ctx, organisationID, billNo)
}

// notifyShipment contains every failure of the notification step, panics
// included, in the returned outcome.
func (s *TrackingService) notifyShipment(ctx context.Context, bill *domain.Bill) (outcome *domain.NotificationOutcome) {
	if !bill.Customer.HasPhone() {
		return domain.SkippedOutcome("customer has no phone number", s.now().UTC())
	}

	defer func() {
		if r := recover(); r != nil {
			observability.WithContextLogger(s.logger, ctx).Error("order status notification panicked",
				zap.Int64("billNo", bill.BillNo),
				zap.Any("panic", r),
			)
			outcome = &domain.NotificationOutcome{
				Status:    domain.NotificationFailed,
				Error:     fmt.Sprintf("notification panicked: %v", r),
				Timestamp: s.now().UTC(),
			}
		}
	}()

	result := s.dispatcher.Dispatch(ctx, domain.OutboundMessage{
		Kind:           domain.KindOrderStatus,
		OrganisationID: bill.OrganisationID,
		BillNo:         bill.BillNo,
		Phone:          bill.Customer.Phone,
		Body:           composer.OrderStatusMessage(ShipmentVars(bill)),
	})
	return &result
}

// ShipmentVars builds the order-status variables for a shipped bill.
func ShipmentVars(bill *domain.Bill) composer.OrderStatusVars {
	names := make([]string, 0, len(bill.Items))
	for _, item := range bill.Items {
		names = append(names, item.Product.Name)
	}
	products, moreProducts := textfmt.SplitProducts(textfmt.JoinProducts(names))

	trackingNumber := ""
	if bill.TrackingNumber != nil {
		trackingNumber = strings.TrimSpace(*bill.TrackingNumber)
	}
	courierName, trackingURL := courier.Lookup(trackingNumber)

	weight := ""
	if bill.Weight != nil {
		weight = fmt.Sprintf("%s %s", bill.Weight.String(), weightUnit)
	}

	company := bill.OrganisationName()
	return composer.OrderStatusVars{
		CompanyName:    company,
		SignOffName:    company,
		Products:       products,
		MoreProducts:   moreProducts,
		Courier:        courierName,
		TrackingNumber: trackingNumber,
		Weight:         weight,
		TrackingURL:    trackingURL,
	}
}
