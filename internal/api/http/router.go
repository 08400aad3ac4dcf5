package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/http/handlers"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Drivers        *handlers.DriversHandler
	Staff          *handlers.StaffHandler
	Issues         *handlers.IssuesHandler
	StaffIssues    *handlers.StaffIssuesHandler
	WorkOrders     *handlers.WorkOrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/drivers/register", cfg.Drivers.Register)
	authGroup.Post("/drivers/login", cfg.Drivers.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protectedAuth.Post("/password/change", cfg.Staff.ChangePassword)

	drivers := app.Group("/drivers", cfg.AuthMiddleware.Handle, auth.RequireDriver())
	drivers.Get("/me", cfg.Drivers.Me)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle, auth.RequireDriver())
	issues.Post("", cfg.Issues.CreateIssue)
	issues.Get("", cfg.Issues.ListIssues)
	issues.Get("/:id", cfg.Issues.GetIssue)
	issues.Post("/:id/cancel", cfg.Issues.CancelIssue)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/me", cfg.Staff.Me)

	members := staff.Group("/members", auth.RequireStaffRole(domain.StaffRoleAdmin))
	members.Post("", cfg.Staff.CreateMember)
	members.Get("", cfg.Staff.ListMembers)

	staffIssues := staff.Group("/issues")
	staffIssues.Get("/triage-queue", cfg.StaffIssues.TriageQueue)
	staffIssues.Get("", cfg.StaffIssues.ListIssues)
	staffIssues.Get("/:id", cfg.StaffIssues.GetIssue)
	staffIssues.Patch("/:id/status", cfg.StaffIssues.UpdateStatus)
	staffIssues.Patch("/:id/severity", cfg.StaffIssues.UpdateSeverity)

	staffIssues.Post("/:id/work-orders",
		auth.RequireStaffRole(domain.StaffRoleOperations, domain.StaffRoleAdmin), cfg.WorkOrders.Create)
	staffIssues.Get("/:id/work-orders", cfg.WorkOrders.ListByIssue)
	staffIssues.Post("/:id/parts-needed", cfg.WorkOrders.FlagParts)

	workOrders := staff.Group("/work-orders")
	workOrders.Post("/:id/start", cfg.WorkOrders.Start)
	workOrders.Post("/:id/complete", cfg.WorkOrders.Complete)
}
