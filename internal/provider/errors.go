package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPhone     = errors.New("phone number must contain at least 10 digits")
	ErrTokenUnavailable = errors.New("provider access token unavailable")
)

// ProviderError describes a failed provider call.
type ProviderError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 4)
	parts = append(parts, "provider error")

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// RetryExhaustedError is returned once every delivery attempt has failed.
type RetryExhaustedError struct {
	Attempts  int
	LastError string
}

func (e *RetryExhaustedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("delivery failed after %d attempts: %s", e.Attempts, e.LastError)
}
