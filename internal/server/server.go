// Package server assembles the fiber application: middleware, the health
// and metrics endpoints and the resource routes. It also owns the listen and
// graceful shutdown lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"crud-gateway/internal/auth"
	"crud-gateway/internal/config"
	"crud-gateway/internal/engine"
	"crud-gateway/internal/logging"
	"crud-gateway/internal/metrics"
	"crud-gateway/internal/middleware"
	"crud-gateway/internal/schema"
	"crud-gateway/internal/store"
)

const (
	AppName       = "crud-gateway"
	healthTimeout = 2 * time.Second
)

type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	store   *store.Store
	metrics *metrics.Metrics
	app     *fiber.App
}

// New builds the application. m may be nil when metrics are disabled.
func New(cfg *config.Config, logger *logging.Logger, st *store.Store, reg *schema.Registry, m *metrics.Metrics) *Server {
	s := &Server{cfg: cfg, logger: logger, store: st, metrics: m}

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          engine.ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.Metrics(m))
	app.Use(middleware.CORS(cfg.CORS))

	app.Get("/health", s.health)
	if cfg.Metrics.Enabled && m != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(m.Handler()))
	}

	h := engine.NewHandler(st, reg, engine.NewClassifier(logger, m), m)
	engine.RegisterResourceRoutes(app, cfg.Server.BasePath, h, auth.Middleware(cfg.Auth.JWTSecret))

	s.app = app
	return s
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logging.FromContext(c.UserContext()).Error("health check failed",
			slog.String("error", err.Error()),
			slog.String("check", "database"),
		)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Run listens until ctx is cancelled or the listener fails, then shuts the
// server down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.app.Listen(addr)
	}()

	s.logger.Info("server listening",
		slog.String("addr", addr),
		slog.String("base_path", s.cfg.Server.BasePath),
		slog.String("driver", s.store.Dialect.Name()),
	)

	select {
	case err := <-serverErrors:
		if err == nil {
			return fmt.Errorf("server stopped unexpectedly")
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", slog.Duration("timeout", s.cfg.Server.ShutdownTimeout))
	if err := s.app.ShutdownWithTimeout(s.cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
