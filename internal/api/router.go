package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/leadbook/user-directory/docs"
	"github.com/leadbook/user-directory/internal/api/handler"
	"github.com/leadbook/user-directory/internal/api/middleware"
	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

const purgeConfirmHeader = "X-Confirm-Purge"

// RouterConfig carries everything NewRouter wires into the Echo instance.
type RouterConfig struct {
	Users     ports.UserService
	JWTSecret string
	// AllowPurge registers DELETE /admin/users.
	AllowPurge bool
	// Readiness lists the dependency checks behind /health/ready.
	Readiness map[string]handler.DependencyCheck
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(cfg.JWTSecret)

	// --- Users ---
	users := handler.NewUserHandler(cfg.Users)
	g := e.Group("/users", auth)
	g.GET("", users.List)
	g.GET("/filter", users.Filter)
	g.GET("/clients", users.ListClients)
	g.GET("/employee-clients", users.ListEmployeeClients)
	g.GET("/employees", users.ListEmployees)
	g.GET("/:userId", users.Get)
	g.POST("/clients", users.CreateClient)
	g.POST("/employees", users.CreateEmployee)
	g.PUT("/:userId/role", users.UpdateRole)
	g.PUT("/:userId", users.Update)
	g.DELETE("/:userId", users.Delete)

	// --- Admin ---
	if cfg.AllowPurge {
		admin := handler.NewAdminHandler(cfg.Users)
		e.DELETE("/admin/users", admin.PurgeUsers,
			auth,
			middleware.RBAC(domain.RoleAdmin),
			middleware.RequireHeader(purgeConfirmHeader, "users"),
		)
	}

	return e
}
