package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports database reachability; *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WithDB attaches a database handle used by the health check.
func (h *AuthHandler) WithDB(db Pinger) *AuthHandler {
	h.db = db
	return h
}

func (h *AuthHandler) Health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if h.db != nil {
		if err := h.db.Ping(c.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["database"] = "ok"
	}

	return c.Status(fiber.StatusOK).JSON(status)
}
