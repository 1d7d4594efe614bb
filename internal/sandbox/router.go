package sandbox

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/infrastructure/config"
)

// NewRouter builds the Echo instance serving the backend contract, seeded
// with one admin account from the sandbox configuration. The store is
// returned alongside so callers can reach behind the API.
func NewRouter(cfg config.SandboxConfig, logger zerolog.Logger) (*echo.Echo, *Store, error) {
	store := NewStore()
	admin, err := store.Seed(cfg.AdminEmail, "Admin", cfg.AdminPass, domain.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("email", admin.Email).Msg("seeded sandbox admin")

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// Request metrics live in a per-router registry so repeated router
	// construction (tests) never collides; /metrics also exposes the
	// process-wide counters.
	registry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsNamespace,
		Registerer: registry,
	}))

	h := NewHandlers(store, cfg.JWTSecret, cfg.TokenTTL, cfg.Environment, logger)

	e.GET("/health", h.Health)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))

	auth := e.Group("/api/v1/auth")
	auth.POST("/login", h.Login)
	auth.POST("/google", h.GoogleLogin)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)

	users := e.Group("/api/v1/users", requireAuth(cfg.JWTSecret))
	users.GET("", h.ListUsers)
	users.GET("/me", h.Me)
	users.POST("", h.CreateUser, requireRole(domain.RoleAdmin))
	users.PUT("/:id", h.UpdateUser, requireRole(domain.RoleAdmin, domain.RoleModerator))
	users.DELETE("/:id", h.DeleteUser, requireRole(domain.RoleAdmin))

	return e, store, nil
}
