package provider

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "formatted international", input: "+91 98765-43210", want: "919876543210"},
		{name: "bare ten digits", input: "9876543210", want: "9876543210"},
		{name: "parentheses and dots", input: "(987) 654.3210", want: "9876543210"},
		{name: "too short", input: "12345", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters only", input: "call me", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizePhone(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("NormalizePhone() error = %v, want ErrInvalidPhone", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("NormalizePhone() = %q, want %q", got, tc.want)
			}
		})
	}
}
