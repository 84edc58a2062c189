package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

// Raw refresh and CSRF tokens carry 256 bits of entropy.
const opaqueTokenBytes = 32

// generateOpaqueToken returns a base64url-encoded random value used for
// refresh and CSRF tokens.
func generateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Internal("failed to generate random token", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
