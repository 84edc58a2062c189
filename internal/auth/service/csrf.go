package service

import (
	"crypto/subtle"

	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

// CSRFService implements the double-submit pattern: a random token is
// delivered in a script-readable cookie and must be echoed back in a
// request header. Matching proves the caller can read same-origin
// cookies, which a cross-origin forger cannot.
type CSRFService struct{}

func NewCSRFService() *CSRFService {
	return &CSRFService{}
}

// Generate returns a fresh high-entropy CSRF token.
func (s *CSRFService) Generate() (string, error) {
	return generateOpaqueToken()
}

// Verify fails Forbidden unless both values are present and equal.
func (s *CSRFService) Verify(headerValue, cookieValue string) error {
	if headerValue == "" || cookieValue == "" {
		return apperrors.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(headerValue), []byte(cookieValue)) != 1 {
		return apperrors.ErrForbidden
	}
	return nil
}
