package handler

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beststarli/double-token-demo/internal/auth/middleware"
	"github.com/beststarli/double-token-demo/internal/auth/service"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, tokenService service.TokenGenerator) {
	app.Get("/api/v1/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Post("/api/v1/logout", h.Logout)

	app.Get("/api/v1/verify", middleware.RequireAuth(tokenService), h.Verify)
}
