package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"crud-gateway/internal/engine"
	"crud-gateway/internal/metrics"
)

// Metrics records request counts and latency by route pattern. Requests no
// route matched are grouped under "unmatched".
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()

		err := c.Next()
		status := c.Response().StatusCode()
		route := c.Route().Path

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			if fe.Code == fiber.StatusNotFound {
				route = "unmatched"
			}
		case err != nil:
			status = fiber.StatusInternalServerError
			var appErr *engine.AppError
			if errors.As(err, &appErr) {
				status = appErr.Status
			}
		}

		m.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
