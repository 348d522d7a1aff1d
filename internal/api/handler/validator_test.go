package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/leadbook/user-directory/internal/core/domain"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Secret1!":              true,
		"aB3@aB3@aB3@":          true,
		"Secret1":               false, // too short
		"secret1!":              false, // no upper
		"SECRET1!":              false, // no lower
		"Secret!!":              false, // no digit
		"Secret11":              false, // no special
		"Secret1#":              false, // '#' is not an accepted special
		"Secret 1!":             false,
		strings.Repeat("aA1!", 19): false, // 76 bytes
	}
	for in, want := range cases {
		if got := isStrongPassword(in); got != want {
			t.Errorf("isStrongPassword(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestValidator_PhoneAndMessages(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Phone string `json:"phone" validate:"required,phone"`
	}
	for _, ok := range []string{"5551234567", "55512345678"} {
		if err := v.Validate(&payload{Phone: ok}); err != nil {
			t.Errorf("%s: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"555123456", "555123456789", "55512345a7", "+525512345678"} {
		err := v.Validate(&payload{Phone: bad})
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", bad, err)
		}
		if ve.Problems[0] != "phone must be 10 or 11 digits" {
			t.Errorf("unexpected message %q", ve.Problems[0])
		}
	}
}
