package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/internal/auth/service"
)

// Cookie contract: access and refresh cookies are http-only and never
// readable by script; the CSRF cookie must be script-readable so the
// client can echo it into the X-CSRF-Token header. All three are
// same-site lax and secure outside development.

func cookieDomain(cfg *config.Config) string {
	if !cfg.IsProduction() {
		return ""
	}
	switch cfg.CookieDomain {
	case "", "localhost", "127.0.0.1", "0.0.0.0":
		return ""
	}
	return cfg.CookieDomain
}

func setSessionCookies(c *fiber.Ctx, cfg *config.Config, tokens *service.SessionTokens) {
	domain := cookieDomain(cfg)

	c.Cookie(&fiber.Cookie{
		Name:     cfg.AccessCookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(cfg.AccessTokenTTL().Seconds()),
		Secure:   cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.Cookie(&fiber.Cookie{
		Name:     cfg.RefreshCookieName,
		Value:    tokens.RefreshToken,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(cfg.RefreshTokenTTL().Seconds()),
		Secure:   cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.Cookie(&fiber.Cookie{
		Name:     cfg.CSRFCookieName,
		Value:    tokens.CSRFToken,
		Path:     "/",
		Domain:   domain,
		Secure:   cfg.CookieSecure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookies(c *fiber.Ctx, cfg *config.Config) {
	domain := cookieDomain(cfg)
	expired := time.Now().Add(-time.Hour)

	for _, name := range []string{cfg.AccessCookieName, cfg.RefreshCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   domain,
			Expires:  expired,
			MaxAge:   -1,
			Secure:   cfg.CookieSecure,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     cfg.CSRFCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		Expires:  expired,
		MaxAge:   -1,
		Secure:   cfg.CookieSecure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
