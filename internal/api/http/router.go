package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intake/internal/api/http/handlers"
	"github.com/spec-kit/ticket-intake/internal/auth"
	"github.com/spec-kit/ticket-intake/web"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
	RateLimit      fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", serveForm)

	api := app.Group("/api")
	api.Get("/tickets/schema", cfg.Tickets.GetSchema)
	if cfg.RateLimit != nil {
		api.Post("/tickets", cfg.RateLimit, cfg.Tickets.CreateTicket)
	} else {
		api.Post("/tickets", cfg.Tickets.CreateTicket)
	}

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
}

func serveForm(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(web.Form())
}
