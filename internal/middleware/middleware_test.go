package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crud-gateway/internal/config"
	"crud-gateway/internal/engine"
	"crud-gateway/internal/logging"
	"crud-gateway/internal/metrics"
)

func send(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "info", Output: &buf})

	var seen string
	app := fiber.New()
	app.Use(RequestLogger(logger))
	app.Get("/ping", func(c *fiber.Ctx) error {
		seen = logging.GetRequestID(c.UserContext())
		logging.FromContext(c.UserContext()).Info("inside handler")
		return c.SendString("pong")
	})

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	id := resp.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, seen)

	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "request_id="+id)
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=200")
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(logging.Discard()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := send(t, app, req)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestLogger_LogsHandledErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "info", Output: &buf})

	app := fiber.New(fiber.Config{ErrorHandler: engine.ErrorHandler})
	app.Use(RequestLogger(logger))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("kaboom") })

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"Internal server error"}`, string(body))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "kaboom")
	assert.Contains(t, out, "status=500")
}

func TestCORS_ExplicitOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	resp := send(t, app, req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	resp = send(t, app, req)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardDropsCredentials(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(config.CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET"},
		AllowCredentials: true,
	}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	resp := send(t, app, req)

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORS_NoOrigins(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(config.CORSConfig{}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := send(t, app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	app := fiber.New(fiber.Config{ErrorHandler: engine.ErrorHandler})
	app.Use(Metrics(m))
	app.Get("/api/v1/employees/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/employees/1", nil))
	send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/employees/2", nil))
	send(t, app, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()

	assert.Contains(t, out, `gateway_http_requests_total{method="GET",route="/api/v1/employees/:id",status="200"} 2`)
	assert.Contains(t, out, `gateway_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.True(t, strings.Contains(out, "gateway_http_request_duration_seconds_bucket"))
}
