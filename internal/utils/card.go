package utils

import (
	"errors"
	"strings"
)

const CardNumberDigits = 16

var (
	ErrCardNotNumeric = errors.New("card number must contain only digits")
	ErrCardLength     = errors.New("card number must be 16 digits")
)

// StripCardNumber removes the spaces and dashes users type between groups.
func StripCardNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-':
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", ErrCardNotNumeric
		}
	}
	return b.String(), nil
}

// ValidateCardNumber returns the stripped number when it is exactly 16 digits.
func ValidateCardNumber(raw string) (string, error) {
	digits, err := StripCardNumber(raw)
	if err != nil {
		return "", err
	}
	if len(digits) != CardNumberDigits {
		return "", ErrCardLength
	}
	return digits, nil
}

func CardLast4(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
