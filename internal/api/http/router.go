package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/homeservices/internal/api/http/handlers"
	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Jobs           *handlers.JobsHandler
	Chat           *handlers.ChatHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Registry backs GET /metrics; nil serves the default registry.
	Registry *prom.Registry
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(observability.HTTPHandler(cfg.Registry)))

	sessionGroup := app.Group("/session")
	sessionGroup.Post("/signin", cfg.Session.SignIn)
	sessionGroup.Post("/signup", cfg.Session.SignUp)
	sessionGroup.Get("/route", cfg.Session.Route)

	sessionGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAny(), cfg.Session.Me)
	sessionGroup.Post("/signout", cfg.AuthMiddleware.Handle, auth.RequireAny(), cfg.Session.SignOut)

	app.Get("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAny(), cfg.Payments.Notifications)

	jobs := app.Group("/jobs", cfg.AuthMiddleware.Handle, auth.RequireAny())
	jobs.Get("", cfg.Jobs.ListJobs)
	jobs.Post("", auth.RequireCustomer(), cfg.Jobs.CreateJob)
	jobs.Post("/refresh", cfg.Jobs.Refresh)
	jobs.Get("/:id", cfg.Jobs.GetJob)
	jobs.Post("/:id/select", cfg.Jobs.SelectJob)
	jobs.Post("/:id/accept", auth.RequireProfessional(), cfg.Jobs.AcceptJob)
	jobs.Post("/:id/start", auth.RequireProfessional(), cfg.Jobs.StartJob)
	jobs.Post("/:id/complete", auth.RequireProfessional(), cfg.Jobs.CompleteJob)
	jobs.Post("/:id/cancel", cfg.Jobs.CancelJob)
	jobs.Post("/:id/rate", auth.RequireCustomer(), cfg.Jobs.RateJob)

	jobs.Get("/:id/messages", cfg.Chat.ListMessages)
	jobs.Post("/:id/messages", cfg.Chat.AddMessage)

	jobs.Get("/:id/payments", cfg.Payments.ListPayments)
	jobs.Post("/:id/payments", auth.RequireCustomer(), cfg.Payments.Charge)
}
