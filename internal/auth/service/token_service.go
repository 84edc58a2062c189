package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/fortress-labs/auth-service/internal/auth/service TokenGenerator

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fortress-labs/auth-service/internal/auth/domain"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

// TokenGenerator signs and verifies short-lived access tokens.
type TokenGenerator interface {
	Sign(userID string, role domain.Role) (string, error)
	Verify(tokenString string) (*AccessClaims, error)
	AccessTokenTTL() time.Duration
}

// AccessClaims are the claims carried by an access token: {sub, role,
// iat, exp}. Nothing in here is trusted until the signature verifies.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// TokenService issues HS256-signed access tokens from a shared secret.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (ts *TokenService) Sign(userID string, role domain.Role) (string, error) {
	now := ts.now()

	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign access token", err)
	}

	return signed, nil
}

// Verify checks signature and expiry. Every failure mode (bad signature,
// wrong algorithm, expired, malformed) collapses to the same unauthorized
// error so callers cannot distinguish why a token was rejected.
func (ts *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthorized
		}
		return ts.secret, nil
	}, jwt.WithTimeFunc(ts.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	return claims, nil
}

func (ts *TokenService) AccessTokenTTL() time.Duration {
	return ts.accessTTL
}
