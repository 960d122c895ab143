package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskmaster/dashboard/docs"
	httpHandlers "github.com/taskmaster/dashboard/internal/adapters/http"
	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/infrastructure/config"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/infrastructure/metrics"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	dash    *services.Dashboard
	metrics *metrics.Metrics
	started time.Time
}

// New creates a new server instance. m may be nil when metrics are disabled.
func New(cfg *config.Config, dash *services.Dashboard, m *metrics.Metrics, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = httpHandlers.NewRequestValidator(validation.New())

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.IsDevelopment()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger)

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger.WithComponent("server"),
		dash:    dash,
		metrics: m,
		started: time.Now(),
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if cfg.Metrics.Enabled && m != nil {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(httpHandlers.NewHandlers(dash, appLogger))

	return server, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(handlers *httpHandlers.Handlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	handlers.Register(s.echo.Group("/api/v1"))
}

// setupMetrics instruments every request and serves the registry
func (s *Server) setupMetrics() {
	s.echo.Use(s.metrics.Middleware())
	s.echo.GET(s.config.Metrics.Path, echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.dash.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	checks := make(map[string]interface{})
	status := "ok"

	tasks, err := s.dash.Tasks.List(ctx)
	if err != nil {
		status = "error"
		checks["tasks"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		checks["tasks"] = map[string]interface{}{"status": "ok", "count": len(tasks)}
	}

	meetings, err := s.dash.Meetings.List(ctx)
	if err != nil {
		status = "error"
		checks["meetings"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		checks["meetings"] = map[string]interface{}{"status": "ok", "count": len(meetings)}
	}

	_, reminderActive := s.dash.Reminders.Current()
	checks["reminders"] = map[string]interface{}{"status": "ok", "active": reminderActive}

	response := map[string]interface{}{
		"status":  status,
		"time":    s.dash.Now().UTC().Format(time.RFC3339),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"checks":  checks,
		"version": map[string]string{"app": s.config.App.Version},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
