package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"crud-gateway/internal/engine"
	"crud-gateway/internal/logging"
)

const subjectKey = "auth.subject"

// Middleware returns a Fiber middleware that requires a valid bearer token.
// With an empty secret it lets every request through.
func Middleware(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return engine.UnauthorizedError("Missing auth token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return engine.UnauthorizedError("Invalid auth header format")
		}

		claims, err := ParseAccessToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			logging.FromContext(c.UserContext()).Debug("rejected bearer token", "error", err)
			return engine.UnauthorizedError("Invalid or expired token")
		}

		c.Locals(subjectKey, claims.Subject)
		ctx := c.UserContext()
		c.SetUserContext(logging.WithLogger(ctx, logging.FromContext(ctx).WithFields("subject", claims.Subject)))
		return c.Next()
	}
}

// Subject returns the token subject of an authenticated request.
func Subject(c *fiber.Ctx) string {
	s, _ := c.Locals(subjectKey).(string)
	return s
}
