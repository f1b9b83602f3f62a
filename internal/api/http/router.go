package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protekweb/support-chatbot/internal/api/http/handlers"
	"github.com/protekweb/support-chatbot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Conversations  *handlers.ConversationHandler
	Tickets        *handlers.TicketsHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The chat and SMS endpoints are public;
// session and ticket endpoints require an authenticated agent.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/chat", cfg.Conversations.Chat)
	app.Post("/webhook/sms", cfg.Conversations.SMSWebhook)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireAgentRole())
	staff.Get("/sessions/:callerID", cfg.Conversations.GetSession)
	staff.Delete("/sessions/:callerID", cfg.Conversations.EndSession)
	staff.Get("/tickets/open", cfg.Tickets.ListOpen)
	staff.Get("/tickets/:id", cfg.Tickets.GetByID)
	staff.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	staff.Get("/customers/:customerID/tickets", cfg.Tickets.ListByCustomer)
}
