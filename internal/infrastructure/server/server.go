package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/focusqueue/core/docs"
	httpHandlers "github.com/focusqueue/core/internal/adapters/http"
	"github.com/focusqueue/core/internal/application/services"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/infrastructure/metrics"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	db      *database.DB
	metrics *metrics.Recorder
	checks  map[string]HealthCheck
}

// New creates a new server instance. authService may be nil when bearer
// auth is disabled; recorder may be nil when metrics are disabled.
func New(cfg *config.Config, db *database.DB, handlers *httpHandlers.Handlers, authService *services.AuthService, recorder *metrics.Recorder, appLogger *logger.Logger) *Server {
	e := echo.New()

	e.Validator = httpHandlers.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger.WithComponent("http"),
		db:      db,
		metrics: recorder,
		checks:  make(map[string]HealthCheck),
	}

	server.setupMiddleware()
	if recorder != nil {
		server.setupMetrics()
	}
	server.setupRoutes(handlers, authService)

	return server
}

// AddHealthCheck registers an extra dependency for /health/detailed
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(handlers *httpHandlers.Handlers, authService *services.AuthService) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := s.echo.Group("/api/v1")
	if authService != nil {
		v1.Use(s.authMiddleware(authService))
	}
	handlers.Register(v1)
}

// setupMetrics mounts the request metrics middleware and endpoint
func (s *Server) setupMetrics() {
	path := s.config.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	s.echo.Use(s.metrics.Middleware())
	s.echo.GET(path, echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(ctx); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = "error"
			checks[name] = map[string]interface{}{"status": "error", "error": err.Error()}
			continue
		}
		checks[name] = map[string]interface{}{"status": "ok"}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	address := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				msg = httpHandlers.ErrorResponse{Error: http.StatusText(code), Details: m}
			default:
				msg = m
			}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else {
			code = httpHandlers.StatusOf(err)
			msg = httpHandlers.ErrorResponse{Error: http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
