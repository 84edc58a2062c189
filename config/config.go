package config

import (
	"os"
	"strconv"
	"time"

	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

type Config struct {
	Env               string
	Port              string
	DBURL             string
	JWTSecret         string
	AccessExpiryMin   int
	RefreshExpiryDays int
	AccessCookieName  string
	RefreshCookieName string
	CSRFCookieName    string
	CookieDomain      string
	CookieSecure      bool
	LogLevel          string
}

const minSecretLen = 32

// Load reads configuration from the environment. Missing or malformed
// required variables fail startup; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DBURL:             os.Getenv("DB_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessExpiryMin:   getEnvAsInt("ACCESS_TOKEN_EXPIRY_MINUTES", 15),
		RefreshExpiryDays: getEnvAsInt("REFRESH_TOKEN_EXPIRY_DAYS", 14),
		AccessCookieName:  getEnv("ACCESS_COOKIE_NAME", "access_token"),
		RefreshCookieName: getEnv("REFRESH_COOKIE_NAME", "refresh_token"),
		CSRFCookieName:    getEnv("CSRF_COOKIE_NAME", "csrf_token"),
		CookieDomain:      getEnv("COOKIE_DOMAIN", "localhost"),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DBURL == "" {
		return nil, apperrors.Config("missing required environment variable DB_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, apperrors.Config("missing required environment variable JWT_SECRET")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, apperrors.Config("JWT_SECRET must be at least 32 characters")
	}
	if cfg.AccessExpiryMin <= 0 || cfg.RefreshExpiryDays <= 0 {
		return nil, apperrors.Config("token expiries must be positive")
	}

	// Cookies must be secure outside development regardless of the flag.
	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshExpiryDays) * 24 * time.Hour
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
