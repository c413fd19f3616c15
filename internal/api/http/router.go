package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Triage  *handlers.TriageHandler
	Orders  *handlers.OrdersHandler
	Rules   *handlers.RulesHandler
	Metrics *handlers.MetricsHandler
	// Auth and AuthMiddleware are nil when API authentication is disabled.
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	guard := func(h fiber.Handler) []fiber.Handler { return []fiber.Handler{h} }
	if cfg.AuthMiddleware != nil && cfg.Auth != nil {
		app.Post("/auth/token", cfg.Auth.Token)
		guard = func(h fiber.Handler) []fiber.Handler {
			return []fiber.Handler{cfg.AuthMiddleware.Handle, h}
		}
	}

	app.Post("/triage/invoke", guard(cfg.Triage.Invoke)...)
	app.Get("/orders/get", guard(cfg.Orders.Get)...)
	app.Get("/orders/search", guard(cfg.Orders.Search)...)
	app.Post("/classify/issue", guard(cfg.Rules.Classify)...)
	app.Post("/reply/draft", guard(cfg.Rules.DraftReply)...)
}
