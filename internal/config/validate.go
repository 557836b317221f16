package config

import (
	"fmt"
	"slices"
	"strings"
)

var supportedDrivers = []string{"postgres", "sqlite", "mysql"}

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns validation results.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port %d is out of valid range (1-65535)", c.Server.Port),
		})
	}
	if c.Server.ShutdownTimeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.shutdown_timeout",
			Message: "must not be negative",
		})
	}

	c.Database.validate(result)

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Logging.Format),
			Hint:    "use text or json",
		})
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "metrics.path",
			Message: fmt.Sprintf("path %q must start with /", c.Metrics.Path),
		})
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "cors.allow_credentials",
			Message: "credentials are not sent for wildcard origins; ignoring allow_credentials",
		})
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "cors.allowed_origins",
			Message: "no origins configured; cross-origin requests will be rejected",
		})
	}

	return result
}

func (d *DatabaseConfig) validate(result *ValidationResult) {
	if !slices.Contains(supportedDrivers, d.Driver) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unsupported driver %q", d.Driver),
			Hint:    "use one of " + strings.Join(supportedDrivers, ", "),
		})
		return
	}
	if d.Driver != "sqlite" && d.URL == "" && (d.Port < 1 || d.Port > 65535) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.port",
			Message: fmt.Sprintf("port %d is out of valid range (1-65535)", d.Port),
		})
	}
	if d.PoolSize < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.pool_size",
			Message: "must not be negative",
		})
	}
}
