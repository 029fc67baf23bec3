package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/access"
	"github.com/spec-kit/dashboard-gateway/internal/api/http/handlers"
	"github.com/spec-kit/dashboard-gateway/internal/auth"
	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/observability"
)

// View is a protected dashboard page and the least role allowed to see it.
type View struct {
	Path    string
	Name    string
	MinRole domain.Role
}

// DashboardViews lists every protected page.
var DashboardViews = []View{
	{Path: "/", Name: "dashboard", MinRole: domain.RoleStaff},
	{Path: "/dashboard", Name: "dashboard", MinRole: domain.RoleStaff},
	{Path: "/inventory", Name: "inventory", MinRole: domain.RoleStaff},
	{Path: "/purchase-orders", Name: "purchase-orders", MinRole: domain.RoleStaff},
	{Path: "/billing", Name: "billing", MinRole: domain.RoleManager},
	{Path: "/expenses", Name: "expenses", MinRole: domain.RoleManager},
	{Path: "/reports", Name: "reports", MinRole: domain.RoleManager},
	{Path: "/investors", Name: "investors", MinRole: domain.RoleAdmin},
	{Path: "/payroll", Name: "payroll", MinRole: domain.RoleAdmin},
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionHandler
	Accounts       *handlers.AccountsHandler
	Views          *handlers.ViewsHandler
	Controller     *access.Controller
	SessionContext fiber.Handler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	HydrateTimeout time.Duration
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	guard := PageGuard(cfg.Controller, cfg.HydrateTimeout, cfg.Logger)

	app.Get(cfg.Controller.LoginPath(), cfg.SessionContext, guard, cfg.Sessions.LoginPage)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.SessionContext, cfg.Sessions.Login)
	authGroup.Post("/refresh", cfg.SessionContext, cfg.Sessions.Refresh)
	authGroup.Post("/logout", cfg.SessionContext, cfg.Sessions.Logout)
	authGroup.Get("/check", cfg.AuthMiddleware.Handle, cfg.Sessions.Check)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/accounts", auth.RequireRole(domain.RoleManager), cfg.Accounts.List)
	api.Post("/accounts", auth.RequireRole(domain.RoleAdmin), cfg.Accounts.Create)

	for _, v := range DashboardViews {
		app.Get(v.Path, cfg.SessionContext, guard, RoleGate(cfg.Controller, v.MinRole), cfg.Views.Render(v.Name))
	}
}
