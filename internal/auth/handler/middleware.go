package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fortress-labs/auth-service/internal/auth/domain"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

const claimsLocalKey = "access_claims"

// RequireRole verifies the access token and checks the role claim before
// the handler runs. Verified claims are stored in locals for downstream
// handlers.
func (h *AuthHandler) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(h.cfg.AccessCookieName)
		}
		if token == "" {
			return respondError(c, apperrors.ErrUnauthorized)
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			return respondError(c, err)
		}

		if claims.Role != role {
			return respondError(c, apperrors.ErrForbidden)
		}

		c.Locals(claimsLocalKey, claims)

		return c.Next()
	}
}
