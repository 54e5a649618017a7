package provider

import (
	"fmt"
	"strings"
)

const minPhoneDigits = 10

// NormalizePhone strips every non-digit character from a phone number.
func NormalizePhone(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(digits) < minPhoneDigits {
		return "", fmt.Errorf("%w: got %d", ErrInvalidPhone, len(digits))
	}
	return digits, nil
}
