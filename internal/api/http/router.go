package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Directory      *handlers.DirectoryHandler
	Notifications  *handlers.NotificationsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	complaints := protected.Group("/complaints")
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/attachments", cfg.Complaints.UploadAttachment)
	complaints.Get("/attachments/url", cfg.Complaints.AttachmentURL)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Post("/:id/assign", auth.RequireRole(domain.RoleHod, domain.RoleAdmin), cfg.Complaints.Assign)
	complaints.Post("/:id/status", auth.RequireRole(domain.RoleStaff, domain.RoleHod, domain.RoleAdmin), cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/resolve", auth.RequireRole(domain.RoleStaff, domain.RoleHod, domain.RoleAdmin), cfg.Complaints.Resolve)
	complaints.Post("/:id/feedback", cfg.Complaints.Feedback)

	protected.Get("/departments", cfg.Directory.ListDepartments)
	protected.Post("/departments", auth.RequireRole(domain.RoleAdmin), cfg.Directory.CreateDepartment)
	protected.Put("/departments/:id", auth.RequireRole(domain.RoleAdmin), cfg.Directory.UpdateDepartment)

	protected.Get("/categories", cfg.Directory.ListCategories)
	protected.Post("/categories", auth.RequireRole(domain.RoleAdmin), cfg.Directory.CreateCategory)

	users := protected.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Directory.ListUsers)
	users.Post("/", cfg.Directory.CreateUser)
	users.Put("/:id", cfg.Directory.UpdateUser)

	protected.Get("/notifications", cfg.Notifications.List)
	protected.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	protected.Get("/analytics/dashboard", cfg.Analytics.Dashboard)
}
