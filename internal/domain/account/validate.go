package account

import (
	"fmt"
	"regexp"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var aadhaarPattern = regexp.MustCompile(`^\d{12}$`)

func validateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
	}
	return nil
}

// validatePassword enforces the registration policy: at least 8 characters
// with an uppercase letter, a lowercase letter and a digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("%w: password must contain an uppercase letter, a lowercase letter and a digit", ErrInvalidInput)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	return nil
}

func validatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return fmt.Errorf("%w: phone must contain at least 10 digits", ErrInvalidInput)
	}
	return nil
}

func validateAadhaar(aadhaar string) error {
	if !aadhaarPattern.MatchString(aadhaar) {
		return fmt.Errorf("%w: national ID must be exactly 12 digits", ErrInvalidInput)
	}
	return nil
}
