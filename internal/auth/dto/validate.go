package dto

import (
	"regexp"

	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

// Password length bounds enforced at the request boundary; the hasher
// itself accepts any content.
const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

// Loose RFC-shaped check: one @, non-empty local part, dotted domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.Validation("email must be a valid email address")
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return apperrors.Validation("password must be between 8 and 128 characters")
	}
	return nil
}
