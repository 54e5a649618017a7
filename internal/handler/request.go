package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
)

// looseString accepts a JSON string or number. Browser forms post numeric
// fields either way.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*s = looseString(num.String())
	return nil
}

func (s looseString) String() string { return strings.TrimSpace(string(s)) }

func parseBillNo(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: billId is required", domain.ErrValidation)
	}

	billNo, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || billNo <= 0 {
		return 0, fmt.Errorf("%w: billId must be a positive integer", domain.ErrValidation)
	}
	return billNo, nil
}
