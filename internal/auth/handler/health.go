package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fortress-labs/auth-service/internal/auth/dto"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Pinger reports storage reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness plus database reachability. A down database
// still answers 200 so orchestrators can tell "degraded" from "dead".
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbUp := h.db.Ping(c.UserContext()) == nil

	status := "ok"
	if !dbUp {
		status = "degraded"
	}

	return c.Status(fiber.StatusOK).JSON(dto.HealthOutput{
		Status:  status,
		DB:      dbUp,
		Version: Version,
	})
}
