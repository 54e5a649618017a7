package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"github.com/kursadbilgin/bill-notifier/internal/service"
	"github.com/kursadbilgin/bill-notifier/internal/transport"
)

type TrackingService interface {
	SubmitTracking(ctx context.Context, organisationID uint, req service.TrackingUpdate) (*service.TrackingResult, error)
	GetTracking(ctx context.Context, organisationID uint, billNo int64) (*domain.Bill, error)
}

type TrackingHandler struct {
	service TrackingService
}

func NewTrackingHandler(service TrackingService) (*TrackingHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("tracking service is required")
	}
	return &TrackingHandler{service: service}, nil
}

// RegisterTrackingRoutes mounts the tracking endpoints under /v1. The router is
// expected to carry the session middleware already.
func RegisterTrackingRoutes(router fiber.Router, service TrackingService) error {
	h, err := NewTrackingHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/tracking", h.SubmitTracking)
	v1.Get("/tracking", h.GetTracking)

	return nil
}

type submitTrackingRequest struct {
	BillID         looseString `json:"billId"`
	TrackingNumber string      `json:"trackingNumber"`
	Weight         looseString `json:"weight"`
}

type trackingResponse struct {
	Success      bool             `json:"success"`
	Data         billResponse     `json:"data"`
	Notification *outcomeResponse `json:"notification,omitempty"`
}

func (h *TrackingHandler) SubmitTracking(c *fiber.Ctx) error {
	organisationID, ok := transport.OrganisationID(c)
	if !ok {
		return toHTTPError(domain.ErrUnauthorized)
	}

	var req submitTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	billNo, err := parseBillNo(req.BillID.String())
	if err != nil {
		return toHTTPError(err)
	}
	weight, err := domain.ParseWeight(req.Weight.String())
	if err != nil {
		return toHTTPError(err)
	}

	result, err := h.service.SubmitTracking(c.UserContext(), organisationID, service.TrackingUpdate{
		BillNo:         billNo,
		TrackingNumber: req.TrackingNumber,
		Weight:         weight,
		UserID:         transport.UserID(c),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(trackingResponse{
		Success:      true,
		Data:         toBillResponse(result.Bill),
		Notification: toOutcomeResponse(result.Notification),
	})
}

func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	organisationID, ok := transport.OrganisationID(c)
	if !ok {
		return toHTTPError(domain.ErrUnauthorized)
	}

	billNo, err := parseBillNo(c.Query("billId"))
	if err != nil {
		return toHTTPError(err)
	}

	bill, err := h.service.GetTracking(c.UserContext(), organisationID, billNo)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(trackingResponse{
		Success: true,
		Data:    toBillResponse(bill),
	})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
