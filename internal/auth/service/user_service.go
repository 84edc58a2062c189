package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/internal/auth/domain"
	"github.com/fortress-labs/auth-service/internal/auth/dto"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
	"github.com/fortress-labs/auth-service/internal/obs"
)

// dummyPasswordHash is verified against when the email is unknown so that
// unknown-user and wrong-password logins take the same time. It never
// matches any password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" //nolint:gosec

// SessionTokens is the bundle handed to the HTTP layer after a session is
// issued or rotated. RefreshToken holds the raw opaque value; only its
// digest ever reaches storage.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
}

// UserService orchestrates registration, login and the session lifecycle
// on top of the storage capability and the token primitives.
type UserService struct {
	repo       domain.AuthRepository
	tokens     TokenGenerator
	passwords  *PasswordService
	csrf       *CSRFService
	refreshTTL time.Duration
	logger     *slog.Logger
}

func NewUserService(repo domain.AuthRepository, tokens TokenGenerator, cfg *config.Config) *UserService {
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		passwords:  NewPasswordService(),
		csrf:       NewCSRFService(),
		refreshTTL: cfg.RefreshTokenTTL(),
		logger:     obs.Logger().With("component", "user_service"),
	}
}

// Register creates a new user. role is nil for end-user registration and
// only set by trusted internal callers (the CLI). The pre-check on email
// is an optimization; the insert's uniqueness constraint is what actually
// guarantees Conflict under concurrency.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput, role *domain.Role) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.From(err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already in use")
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	newUser := domain.NewUser{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if role != nil {
		newUser.Role = *role
	}

	user, err := s.repo.Create(ctx, newUser)
	if err != nil {
		return nil, apperrors.From(err)
	}

	s.recordEvent(ctx, domain.NewAuditEvent(domain.EventRegister, &user.ID, "", ""))

	return user, nil
}

// Login verifies credentials. Unknown email and wrong password produce
// the identical unauthorized error, and both paths run a full password
// verification to keep response time uniform.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.From(err)
	}

	targetHash := dummyPasswordHash
	if user != nil {
		targetHash = user.PasswordHash
	}

	if !s.passwords.Verify(targetHash, input.Password) || user == nil {
		return nil, apperrors.ErrUnauthorized
	}

	s.recordEvent(ctx, domain.NewAuditEvent(domain.EventLogin, &user.ID, input.IPAddress, input.UserAgent))

	return user, nil
}

// IssueSession materializes a session for an authenticated user: a signed
// access token, a stored refresh token and a fresh CSRF token. Called
// after register, login and refresh.
func (s *UserService) IssueSession(ctx context.Context, user *domain.User) (*SessionTokens, error) {
	accessToken, err := s.tokens.Sign(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.From(err)
	}

	rawRefresh, err := generateOpaqueToken()
	if err != nil {
		return nil, err
	}

	record := domain.NewRefreshTokenFromRaw(user.ID, rawRefresh, time.Now().Add(s.refreshTTL))
	if err := s.repo.Store(ctx, record); err != nil {
		return nil, apperrors.From(err)
	}

	csrfToken, err := s.csrf.Generate()
	if err != nil {
		return nil, err
	}

	return &SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		CSRFToken:    csrfToken,
	}, nil
}

// Refresh rotates a session: the presented token's record is deleted and
// a brand-new session issued. Once rotation succeeds the old raw token is
// permanently unusable. Two concurrent refreshes of the same token can
// both pass the lookup before either deletes; first rotation wins and the
// loser's delete is a no-op, so no token outlives rotation.
func (s *UserService) Refresh(ctx context.Context, rawToken, ip, userAgent string) (*domain.User, *SessionTokens, error) {
	record, err := s.repo.FindByHash(ctx, domain.HashRefreshToken(rawToken))
	if err != nil {
		return nil, nil, apperrors.From(err)
	}
	if record == nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	if record.IsExpiredAt(time.Now()) {
		// Passive cleanup: the stale record is gone either way.
		if delErr := s.repo.DeleteByID(ctx, record.ID); delErr != nil {
			s.logger.Warn("failed to delete expired refresh token", "token_id", record.ID, "error", delErr)
		}
		return nil, nil, apperrors.ErrUnauthorized
	}

	if err := s.repo.DeleteByID(ctx, record.ID); err != nil {
		return nil, nil, apperrors.From(err)
	}

	user, err := s.repo.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, nil, apperrors.From(err)
	}
	if user == nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	tokens, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.recordEvent(ctx, domain.NewAuditEvent(domain.EventRefresh, &user.ID, ip, userAgent))

	return user, tokens, nil
}

// Logout deletes the record matching the presented token. A token with no
// matching record is already logged out, not an error.
func (s *UserService) Logout(ctx context.Context, rawToken, ip, userAgent string) error {
	record, err := s.repo.FindByHash(ctx, domain.HashRefreshToken(rawToken))
	if err != nil {
		return apperrors.From(err)
	}
	if record == nil {
		return nil
	}

	if err := s.repo.DeleteByID(ctx, record.ID); err != nil {
		return apperrors.From(err)
	}

	s.recordEvent(ctx, domain.NewAuditEvent(domain.EventLogout, &record.UserID, ip, userAgent))

	return nil
}

// RevokeAll deletes every refresh token for the user ("log out
// everywhere"). Outstanding access tokens stay valid until they expire.
func (s *UserService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return apperrors.From(err)
	}
	return nil
}

// VerifyCSRF gates state-changing session operations with the
// double-submit check.
func (s *UserService) VerifyCSRF(headerValue, cookieValue string) error {
	return s.csrf.Verify(headerValue, cookieValue)
}

// GetByID fetches a user for profile lookups; (nil, nil) when absent.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.From(err)
	}
	return user, nil
}

// ListUsers returns one page of the user directory.
func (s *UserService) ListUsers(ctx context.Context, page, perPage int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	users, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, apperrors.From(err)
	}
	return users, total, nil
}

// recordEvent appends an audit event best-effort: failures are logged and
// never alter the primary result.
func (s *UserService) recordEvent(ctx context.Context, event *domain.AuditEvent) {
	if err := s.repo.Record(ctx, event); err != nil {
		s.logger.Warn("failed to record audit event", "event_type", event.EventType, "error", err)
	}
}
