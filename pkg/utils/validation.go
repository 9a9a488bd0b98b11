package utils

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MinPseudoLength   = 3
	MaxPseudoLength   = 50
	MinPasswordLength = 8
)

// ValidationError carries the offending field next to a user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateEmail accepts a bare address only ("Name <a@b>" forms are rejected).
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address, "@") {
		return &ValidationError{Field: "email", Message: "Invalid email address."}
	}
	return nil
}

// ValidatePseudo checks the display name length in characters, not bytes.
func ValidatePseudo(pseudo string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(pseudo))
	if n < MinPseudoLength || n > MaxPseudoLength {
		return &ValidationError{Field: "pseudo", Message: "The pseudo must be between 3 and 50 characters."}
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "The password must be at least 8 characters long."}
	}
	return nil
}
