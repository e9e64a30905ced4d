package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// Input limits.
const (
	MaxEmailLength = 320     // RFC 5321: 64 (local) + 1 (@) + 255 (domain)
	MaxPayloadSize = 1048576 // request bodies read from --input or --body
)

// ValidatePayloadSize rejects request bodies larger than MaxPayloadSize.
func ValidatePayloadSize(payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("request body exceeds maximum size of %d bytes (got %d)", MaxPayloadSize, len(payload))
	}
	return nil
}

// ValidateEmail checks an address for alerts. Empty is allowed; the API
// decides whether the field is required.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if addr.Address != email {
		return fmt.Errorf("invalid email format: %q must be a bare address", email)
	}
	return nil
}
