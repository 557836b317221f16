// Package middleware holds the fiber middleware shared by every route:
// request logging, CORS and request metrics.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"crud-gateway/internal/logging"
)

// RequestIDHeader is the HTTP header name for request IDs
const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped logger and request ID to the
// request context and logs the start and completion of every request.
func RequestLogger(logger *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDHeader, requestID)

		reqLogger := logger.WithRequestID(requestID).WithFields(slog.String("component", "http"))

		ctx := logging.WithLogger(c.UserContext(), reqLogger)
		ctx = logging.WithRequestIDContext(ctx, requestID)
		c.SetUserContext(ctx)

		method, path := c.Method(), c.Path()
		reqLogger.Log(ctx, slog.LevelDebug, "request started",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("remote_addr", c.IP()),
		)

		err := c.Next()
		if err != nil {
			// Run the app's error handler now so the logged status is the
			// one the client sees.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		duration := time.Since(start)
		reqLogger.Log(ctx, level, "request completed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.Int64("duration_ms", duration.Milliseconds()),
		)
		return nil
	}
}
