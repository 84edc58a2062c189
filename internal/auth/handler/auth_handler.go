package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/internal/auth/dto"
	"github.com/fortress-labs/auth-service/internal/auth/service"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
	"github.com/fortress-labs/auth-service/internal/obs"
)

const csrfHeaderName = "X-CSRF-Token"

type AuthHandler struct {
	userService *service.UserService
	tokens      service.TokenGenerator
	cfg         *config.Config
}

func NewAuthHandler(userService *service.UserService, tokens service.TokenGenerator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}

	user, err := h.userService.Register(c.UserContext(), input, nil)
	if err != nil {
		obs.ObserveAuth("register", false)
		return respondError(c, err)
	}

	tokens, err := h.userService.IssueSession(c.UserContext(), user)
	if err != nil {
		obs.ObserveAuth("register", false)
		return respondError(c, err)
	}
	obs.ObserveAuth("register", true)

	setSessionCookies(c, h.cfg, tokens)

	return c.Status(fiber.StatusCreated).JSON(dto.TokenResponse{
		AccessToken: tokens.AccessToken,
		User:        dto.NewUserOutput(user),
		CSRFToken:   tokens.CSRFToken,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	user, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		obs.ObserveAuth("login", false)
		return respondError(c, err)
	}

	tokens, err := h.userService.IssueSession(c.UserContext(), user)
	if err != nil {
		obs.ObserveAuth("login", false)
		return respondError(c, err)
	}
	obs.ObserveAuth("login", true)

	setSessionCookies(c, h.cfg, tokens)

	return c.Status(fiber.StatusOK).JSON(dto.TokenResponse{
		AccessToken: tokens.AccessToken,
		User:        dto.NewUserOutput(user),
		CSRFToken:   tokens.CSRFToken,
	})
}

// Refresh rotates the session. The CSRF double-submit check runs before
// the ledger is touched; a missing refresh cookie is unauthorized.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	rawRefresh := c.Cookies(h.cfg.RefreshCookieName)
	if rawRefresh == "" {
		obs.ObserveAuth("refresh", false)
		return respondError(c, apperrors.ErrUnauthorized)
	}

	if err := h.verifyCSRF(c); err != nil {
		obs.ObserveAuth("refresh", false)
		return respondError(c, err)
	}

	user, tokens, err := h.userService.Refresh(
		c.UserContext(),
		rawRefresh,
		c.IP(),
		string(c.Request().Header.UserAgent()),
	)
	if err != nil {
		obs.ObserveAuth("refresh", false)
		return respondError(c, err)
	}
	obs.ObserveAuth("refresh", true)

	setSessionCookies(c, h.cfg, tokens)

	return c.Status(fiber.StatusOK).JSON(dto.TokenResponse{
		AccessToken: tokens.AccessToken,
		User:        dto.NewUserOutput(user),
		CSRFToken:   tokens.CSRFToken,
	})
}

// Logout is idempotent: no refresh cookie means there is nothing to do
// and the caller is already logged out.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	rawRefresh := c.Cookies(h.cfg.RefreshCookieName)
	if rawRefresh == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := h.verifyCSRF(c); err != nil {
		obs.ObserveAuth("logout", false)
		return respondError(c, err)
	}

	if err := h.userService.Logout(
		c.UserContext(),
		rawRefresh,
		c.IP(),
		string(c.Request().Header.UserAgent()),
	); err != nil {
		obs.ObserveAuth("logout", false)
		return respondError(c, err)
	}
	obs.ObserveAuth("logout", true)

	clearSessionCookies(c, h.cfg)

	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the authenticated user's profile. The access token comes
// from the Authorization header or, failing that, the access cookie.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
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

	user, err := h.userService.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondError(c, apperrors.ErrUnauthorized)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

// GetAllUsers lists the user directory one page at a time. Admin only;
// the role gate runs in RequireRole.
func (h *AuthHandler) GetAllUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 20)

	users, total, err := h.userService.ListUsers(c.UserContext(), page, perPage)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.UserOutput, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserOutput(&users[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dto.PaginatedUsersOutput{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// ForceLogout revokes every refresh token for the given user. Access
// tokens already issued stay valid until they expire.
func (h *AuthHandler) ForceLogout(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return respondError(c, apperrors.Validation("missing user id"))
	}

	if err := h.userService.RevokeAll(c.UserContext(), userID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) verifyCSRF(c *fiber.Ctx) error {
	return h.userService.VerifyCSRF(c.Get(csrfHeaderName), c.Cookies(h.cfg.CSRFCookieName))
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
