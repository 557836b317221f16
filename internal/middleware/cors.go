package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"crud-gateway/internal/config"
)

// CORS builds fiber's cors middleware from config. With no origins
// configured no CORS headers are sent at all. Credentials are only allowed
// for an explicit origin list; a wildcard never carries them.
func CORS(cfg config.CORSConfig) fiber.Handler {
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimSuffix(o, "/"))
		}
	}
	if len(origins) == 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	wildcard := slices.Contains(origins, "*")
	if wildcard {
		origins = []string{"*"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     strings.Join(cfg.AllowedMethods, ","),
		AllowHeaders:     strings.Join(cfg.AllowedHeaders, ","),
		AllowCredentials: cfg.AllowCredentials && !wildcard,
		ExposeHeaders:    RequestIDHeader,
	})
}
