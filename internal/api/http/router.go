package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/afriart/gallery-service/internal/api/http/handlers"
	"github.com/afriart/gallery-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. The gate runs before dispatch on every
// protected route; admin routes use the stricter admin check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/:role/register", cfg.Auth.Register)
	authGroup.Post("/:role/login", cfg.Auth.Login)
	authGroup.Post("/:role/2fa/request", cfg.Auth.RequestCode)
	authGroup.Post("/:role/2fa/verify", cfg.Auth.VerifyCode)
	authGroup.Get("/me", cfg.Gate.Handle, cfg.Auth.Me)

	adminGroup := app.Group("/admin", cfg.Gate.RequireAdmin)
	adminGroup.Get("/session", cfg.Auth.Me)
}
