package career

import (
	"errors"
	"regexp"
	"strings"
)

// SessionCodeLength is the length of a shared-session join code.
const SessionCodeLength = 6

var (
	// ErrInvalidCode is returned before any request for a malformed code.
	ErrInvalidCode = errors.New("Please enter a valid 6-digit code.")
	// ErrSessionExpired is shown when the server rejects a join code.
	ErrSessionExpired = errors.New("Invalid Code or Session Expired.")
	// ErrInvalidEmail is returned for a malformed profile email.
	ErrInvalidEmail = errors.New("Please enter a valid email address.")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeSessionCode trims a join code and checks its length.
func NormalizeSessionCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != SessionCodeLength {
		return "", ErrInvalidCode
	}
	return code, nil
}

// ValidateEmail checks the profile email format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
