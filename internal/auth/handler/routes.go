package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/fortress-labs/auth-service/internal/auth/domain"
	"github.com/fortress-labs/auth-service/internal/obs"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, health *HealthHandler) {
	app.Get("/healthz", health.Check)

	metrics := fasthttpadaptor.NewFastHTTPHandler(obs.MetricsHandler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metrics(c.Context())
		return nil
	})

	api := app.Group("/api/v1")
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
	api.Post("/refresh", h.Refresh)
	api.Post("/logout", h.Logout)
	api.Get("/me", h.Me)

	// Admin-only endpoints
	admin := api.Group("/admin", h.RequireRole(domain.RoleAdmin))
	admin.Get("/users", h.GetAllUsers)
	admin.Delete("/users/:id/sessions", h.ForceLogout)
}
