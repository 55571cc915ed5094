package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/http/handlers"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Statuses       *handlers.StatusesHandler
	WorkAnalysis   *handlers.WorkAnalysisHandler
	Approvals      *handlers.ApprovalsHandler
	WorkLogs       *handlers.WorkLogsHandler
	MasterData     *handlers.MasterDataHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything outside /health and the
// register/login pair requires a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authed := cfg.AuthMiddleware.Handle
	managers := auth.RequireRole(domain.UserRoleManager)
	admins := auth.RequireRole()

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", authed, cfg.Users.Me)

	users := app.Group("/users", authed, admins)
	users.Get("", cfg.Users.List)
	users.Put("/:id/role", cfg.Users.SetRole)

	tickets := app.Group("/tickets", authed)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/export", cfg.Tickets.ExportTickets)
	tickets.Put("/status", cfg.Tickets.BulkUpdateStatus)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/work-analysis", cfg.WorkAnalysis.GetByTicket)
	tickets.Get("/:id/approvals", cfg.Approvals.ListByTicket)

	app.Get("/dashboard/summary", authed, cfg.Tickets.Dashboard)

	statuses := app.Group("/ticket-statuses", authed)
	statuses.Get("", cfg.Statuses.List)
	statuses.Post("", admins, cfg.Statuses.Create)
	statuses.Put("/:id", admins, cfg.Statuses.Update)

	analyses := app.Group("/work-analysis", authed)
	analyses.Get("", cfg.WorkAnalysis.List)
	analyses.Post("", cfg.WorkAnalysis.Submit)
	analyses.Get("/:id", cfg.WorkAnalysis.Get)
	analyses.Put("/:id/approve", managers, cfg.WorkAnalysis.Approve)
	analyses.Put("/:id/reject", managers, cfg.WorkAnalysis.Reject)

	app.Post("/approvals", authed, managers, cfg.Approvals.Record)

	workLogs := app.Group("/work-logs", authed)
	workLogs.Get("", cfg.WorkLogs.List)
	workLogs.Post("", cfg.WorkLogs.Record)
	workLogs.Delete("/:id", cfg.WorkLogs.Delete)

	app.Get("/departments", authed, cfg.MasterData.Departments)
	app.Get("/companies", authed, cfg.MasterData.Companies)
	app.Get("/priorities", authed, cfg.MasterData.Priorities)
	app.Get("/designations", authed, cfg.MasterData.Designations)
}
