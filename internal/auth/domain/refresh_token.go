package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the stored form of a session credential. Only the
// SHA-256 digest of the raw token is ever persisted; the raw value is
// handed to the client once and never seen again.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewRefreshTokenFromRaw builds a storable record from a raw token.
func NewRefreshTokenFromRaw(userID, raw string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: HashRefreshToken(raw),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// HashRefreshToken computes the hex-encoded SHA-256 digest used as the
// storage fingerprint of a raw refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IsExpiredAt reports whether the token is expired relative to now.
func (t *RefreshToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
