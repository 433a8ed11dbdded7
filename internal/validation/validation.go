// Package validation provides phone number validation and formatting
// for the credential login flow.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Korean mobile numbers: 010/011/016/017/018/019 prefix, 10 or 11 digits.
const (
	MinDigits = 10
	MaxDigits = 11
)

var (
	digitsOnly  = regexp.MustCompile(`[^0-9]`)
	mobileRegex = regexp.MustCompile(`^01[016789][0-9]{7,8}$`)
)

// ValidationError describes a rejected phone number.
type ValidationError struct {
	Phone   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid phone number %q: %s", e.Phone, e.Message)
}

// NormalizePhone strips dashes, spaces and any other separators down to
// the bare digit string submitted to the API.
func NormalizePhone(phone string) string {
	return digitsOnly.ReplaceAllString(strings.TrimSpace(phone), "")
}

// ValidatePhone checks a phone number in either display or normalized
// form.
func ValidatePhone(phone string) error {
	digits := NormalizePhone(phone)

	if len(digits) < MinDigits || len(digits) > MaxDigits {
		return &ValidationError{
			Phone:   phone,
			Message: fmt.Sprintf("must be %d to %d digits", MinDigits, MaxDigits),
		}
	}
	if !mobileRegex.MatchString(digits) {
		return &ValidationError{
			Phone:   phone,
			Message: "must be a mobile number starting with 01x",
		}
	}
	return nil
}

// FormatPhone converts a normalized digit string back to display format:
// 01012345678 becomes 010-1234-5678. Strings that are not phone-shaped
// come back unchanged.
func FormatPhone(digits string) string {
	switch len(digits) {
	case 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	case 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	default:
		return digits
	}
}
