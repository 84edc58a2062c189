package domain

//go:generate mockgen -destination=../../mocks/mock_auth_repository.go -package=mocks github.com/fortress-labs/auth-service/internal/auth/domain AuthRepository

import "context"

// UserRepository is the user directory capability. GetByEmail and GetByID
// return (nil, nil) when no row matches; Create surfaces a Conflict error
// on a duplicate email, which is the authoritative uniqueness check.
type UserRepository interface {
	Create(ctx context.Context, user NewUser) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, page, perPage int) ([]User, int64, error)
}

// RefreshTokenRepository is the refresh ledger capability. Store is
// idempotent on token_hash conflict: a retried write refreshes the
// existing record's expiry instead of failing.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// AuditRecorder appends authentication events. Callers treat failures as
// best-effort; a failed write must never fail the primary operation.
type AuditRecorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuthRepository is the composed storage capability the orchestrator
// depends on. A single postgres implementation satisfies all three.
type AuthRepository interface {
	UserRepository
	RefreshTokenRepository
	AuditRecorder
}
