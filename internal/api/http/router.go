package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sandunudayakantha/TransitEquity/internal/api/http/handlers"
	"github.com/sandunudayakantha/TransitEquity/internal/auth"
	"github.com/sandunudayakantha/TransitEquity/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Protect, cfg.Auth.Me)

	admin := api.Group("/users", cfg.AuthMiddleware.Protect, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/", cfg.Users.List)
	admin.Get("/pending", cfg.Users.ListPending)
	admin.Put("/:id/approve", cfg.Users.Approve)
}
