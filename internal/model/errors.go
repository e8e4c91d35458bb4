package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports input that must never reach the gateway.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// emailPattern mirrors the registration form check: one @, no spaces,
// a dot somewhere after the @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// ValidateTitle rejects empty or whitespace-only task titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// ValidateEmail rejects addresses that do not look like an email.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}

// ValidateUsername enforces the minimum username length.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return &ValidationError{Field: "username", Reason: fmt.Sprintf("must be at least %d characters", minUsernameLen)}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}
	return nil
}
