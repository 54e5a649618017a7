package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bill-notifier/internal/composer"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/transport"
)

type NotificationService interface {
	SendInvoice(ctx context.Context, organisationID uint, billNo int64, variant composer.Variant) (*domain.NotificationOutcome, error)
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/bills/:billId/notifications/invoice", h.SendInvoice)

	return nil
}

type sendInvoiceRequest struct {
	Variant string `json:"variant"`
}

type notificationResponse struct {
	Success bool             `json:"success"`
	Data    *outcomeResponse `json:"data"`
}

func (h *NotificationHandler) SendInvoice(c *fiber.Ctx) error {
	organisationID, ok := transport.OrganisationID(c)
	if !ok {
		return toHTTPError(domain.ErrUnauthorized)
	}

	billNo, err := parseBillNo(c.Params("billId"))
	if err != nil {
		return toHTTPError(err)
	}

	var req sendInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	outcome, err := h.service.SendInvoice(c.UserContext(), organisationID, billNo, composer.ParseVariant(req.Variant))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationResponse{
		Success: true,
		Data:    toOutcomeResponse(outcome),
	})
}
