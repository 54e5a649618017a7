package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrOfflineBill is returned when shipment data is attached to an offline bill.
	ErrOfflineBill = fmt.Errorf("%w: tracking is not applicable to offline bills", ErrValidation)
)
