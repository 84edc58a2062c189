package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/internal/auth/domain"
	"github.com/fortress-labs/auth-service/internal/auth/dto"
	"github.com/fortress-labs/auth-service/internal/auth/handler"
	"github.com/fortress-labs/auth-service/internal/auth/service"
	"github.com/fortress-labs/auth-service/internal/mocks"
)

const testSecret = "test-secret-test-secret-test-sec"

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	app     *fiber.App
	repo    *mocks.MockAuthRepository
	tokens  *service.TokenService
	cfg     *config.Config
	passSvc *service.PasswordService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{
		Env:               "development",
		AccessExpiryMin:   15,
		RefreshExpiryDays: 14,
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		CSRFCookieName:    "csrf_token",
	}

	mockRepo := mocks.NewMockAuthRepository(ctrl)
	tokenService := service.NewTokenService(testSecret, cfg.AccessTokenTTL())
	userService := service.NewUserService(mockRepo, tokenService, cfg)

	app := fiber.New()
	app.Use(requestid.New())
	handler.RegisterRoutes(app, handler.NewAuthHandler(userService, tokenService, cfg), handler.NewHealthHandler(stubPinger{}))

	return &testEnv{
		app:     app,
		repo:    mockRepo,
		tokens:  tokenService,
		cfg:     cfg,
		passSvc: service.NewPasswordService(),
	}
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success sets cookies and returns tokens", func(t *testing.T) {
		env := newTestEnv(t)

		env.repo.EXPECT().GetByEmail(gomock.Any(), "new@example.com").Return(nil, nil)
		env.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, newUser domain.NewUser) (*domain.User, error) {
				return &domain.User{ID: "user-1", Email: newUser.Email, Role: newUser.Role}, nil
			})
		env.repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		env.repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/register",
			dto.RegisterInput{Email: "new@example.com", Password: "password123"}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var body dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.AccessToken)
		assert.NotEmpty(t, body.CSRFToken)
		assert.Equal(t, "new@example.com", body.User.Email)
		assert.Equal(t, "user", body.User.Role)

		access := findCookie(t, resp, "access_token")
		assert.True(t, access.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

		refresh := findCookie(t, resp, "refresh_token")
		assert.True(t, refresh.HttpOnly)
		assert.NotEmpty(t, refresh.Value)

		csrf := findCookie(t, resp, "csrf_token")
		assert.False(t, csrf.HttpOnly)
		assert.Equal(t, body.CSRFToken, csrf.Value)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)

		env.repo.EXPECT().GetByEmail(gomock.Any(), "taken@example.com").
			Return(&domain.User{ID: "existing"}, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/register",
			dto.RegisterInput{Email: "taken@example.com", Password: "password123"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "conflict", body.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("invalid input", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/register",
			dto.RegisterInput{Email: "not-an-email", Password: "password123"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "validation_error", decodeError(t, resp).Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("wrong password yields generic unauthorized", func(t *testing.T) {
		env := newTestEnv(t)

		hash, err := env.passSvc.Hash("the-right-password")
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").
			Return(&domain.User{ID: "user-1", Email: "user@example.com", PasswordHash: hash}, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/login",
			dto.LoginInput{Email: "user@example.com", Password: "wrong-password"}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "unauthorized", body.Code)
		assert.NotContains(t, body.Message, "password")
	})

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)

		hash, err := env.passSvc.Hash("password123")
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "user@example.com").
			Return(&domain.User{ID: "user-1", Email: "user@example.com", PasswordHash: hash, Role: domain.RoleUser}, nil)
		env.repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		env.repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/login",
			dto.LoginInput{Email: "user@example.com", Password: "password123"}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		claims, err := env.tokens.Verify(body.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("missing refresh cookie", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/refresh", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("csrf mismatch is rejected before the ledger is touched", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "raw-refresh"})
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "cookie-value"})
		req.Header.Set("X-CSRF-Token", "different-value")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "forbidden", decodeError(t, resp).Code)
	})

	t.Run("rotation success", func(t *testing.T) {
		env := newTestEnv(t)

		oldRaw := "old-refresh-token"
		record := &domain.RefreshToken{
			ID:        "rt-1",
			UserID:    "user-1",
			TokenHash: domain.HashRefreshToken(oldRaw),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		user := &domain.User{ID: "user-1", Email: "user@example.com", Role: domain.RoleUser}

		env.repo.EXPECT().FindByHash(gomock.Any(), record.TokenHash).Return(record, nil)
		env.repo.EXPECT().DeleteByID(gomock.Any(), "rt-1").Return(nil)
		env.repo.EXPECT().GetByID(gomock.Any(), "user-1").Return(user, nil)
		env.repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		env.repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: oldRaw})
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "csrf-value"})
		req.Header.Set("X-CSRF-Token", "csrf-value")

		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		rotated := findCookie(t, resp, "refresh_token")
		assert.NotEmpty(t, rotated.Value)
		assert.NotEqual(t, oldRaw, rotated.Value)
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newTestEnv(t)

		env.repo.EXPECT().FindByHash(gomock.Any(), gomock.Any()).Return(nil, nil)

		req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "already-rotated"})
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "csrf-value"})
		req.Header.Set("X-CSRF-Token", "csrf-value")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("no cookie is already logged out", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/logout", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("deletes the session and clears cookies", func(t *testing.T) {
		env := newTestEnv(t)

		raw := "active-refresh-token"
		record := &domain.RefreshToken{
			ID:        "rt-1",
			UserID:    "user-1",
			TokenHash: domain.HashRefreshToken(raw),
			ExpiresAt: time.Now().Add(time.Hour),
		}

		env.repo.EXPECT().FindByHash(gomock.Any(), record.TokenHash).Return(record, nil)
		env.repo.EXPECT().DeleteByID(gomock.Any(), "rt-1").Return(nil)
		env.repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: raw})
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "csrf-value"})
		req.Header.Set("X-CSRF-Token", "csrf-value")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		cleared := findCookie(t, resp, "refresh_token")
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	})

	t.Run("csrf required when a session is present", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest("POST", "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "active"})

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("user-1", domain.RoleUser)
		require.NoError(t, err)
		env.repo.EXPECT().GetByID(gomock.Any(), "user-1").
			Return(&domain.User{ID: "user-1", Email: "user@example.com", Role: domain.RoleUser}, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body.Email)
	})

	t.Run("access cookie fallback", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("user-1", domain.RoleUser)
		require.NoError(t, err)
		env.repo.EXPECT().GetByID(gomock.Any(), "user-1").
			Return(&domain.User{ID: "user-1", Email: "user@example.com", Role: domain.RoleUser}, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("GET", "/api/v1/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token subject no longer exists", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("deleted-user", domain.RoleUser)
		require.NoError(t, err)
		env.repo.EXPECT().GetByID(gomock.Any(), "deleted-user").Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("GET", "/api/v1/admin/users", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-admin role is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("user-1", domain.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin lists users", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("admin-1", domain.RoleAdmin)
		require.NoError(t, err)
		env.repo.EXPECT().List(gomock.Any(), 2, 10).
			Return([]domain.User{{ID: "user-1", Email: "user@example.com", Role: domain.RoleUser}}, int64(11), nil)

		req := httptest.NewRequest("GET", "/api/v1/admin/users?page=2&per_page=10", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.PaginatedUsersOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Items, 1)
		assert.Equal(t, int64(11), body.Total)
		assert.Equal(t, 2, body.Page)
	})

	t.Run("admin revokes all sessions for a user", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.tokens.Sign("admin-1", domain.RoleAdmin)
		require.NoError(t, err)
		env.repo.EXPECT().DeleteAllForUser(gomock.Any(), "user-1").Return(nil)

		req := httptest.NewRequest("DELETE", "/api/v1/admin/users/user-1/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.HealthOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.DB)
}
