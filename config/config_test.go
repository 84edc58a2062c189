package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortress-labs/auth-service/config"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/auth")
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.AccessExpiryMin)
	assert.Equal(t, 14, cfg.RefreshExpiryDays)
	assert.Equal(t, "access_token", cfg.AccessCookieName)
	assert.Equal(t, "refresh_token", cfg.RefreshCookieName)
	assert.Equal(t, "csrf_token", cfg.CSRFCookieName)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenTTL())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("missing DB_URL", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("JWT_SECRET", testSecret)

		_, err := config.Load()
		require.Error(t, err)
		assert.ErrorContains(t, err, "DB_URL")
	})

	t.Run("missing JWT_SECRET", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost:5432/auth")
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load()
		require.Error(t, err)
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("short JWT_SECRET", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost:5432/auth")
		t.Setenv("JWT_SECRET", "tooshort")

		_, err := config.Load()
		require.Error(t, err)

		var app *apperrors.AppError
		require.ErrorAs(t, err, &app)
		assert.Equal(t, apperrors.KindConfig, app.Kind)
	})
}

func TestLoad_ProductionForcesSecureCookies(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRY_MINUTES", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.AccessExpiryMin)
}
