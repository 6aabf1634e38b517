package login

import (
	"errors"
	"unicode"
)

// Clinic accounts hold purchasing and patient-adjacent data, so the signup
// policy is stricter than a length check alone.
const minPasswordLength = 12

var (
	errPasswordTooShort = errors.New("password must be at least 12 characters")
	errPasswordTooWeak  = errors.New("password must include upper, lower, digit and symbol")
)

func ValidatePasswordPolicy(password string) error {
	if len(password) < minPasswordLength {
		return errPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return errPasswordTooWeak
	}

	return nil
}
