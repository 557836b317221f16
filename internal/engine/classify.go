package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"crud-gateway/internal/logging"
	"crud-gateway/internal/metrics"
	"crud-gateway/internal/naming"
	"crud-gateway/internal/schema"
	"crud-gateway/internal/store"
)

const (
	MsgDatabaseError   = "Database error"
	MsgUnexpectedError = "Unexpected error"

	// defaultColumn is shown when no known column appears in the message.
	defaultColumn = "Value"
)

// ErrorBody is the JSON body of a classified storage error.
type ErrorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Classification is the HTTP status and body for a storage error.
type Classification struct {
	Status int
	Body   ErrorBody
}

// AppError converts the classification for rendering.
func (c Classification) AppError() *AppError {
	return &AppError{Status: c.Status, Message: c.Body.Message, Errors: c.Body.Errors}
}

type classification struct {
	status  int
	message func(column string) string
}

func suffixed(s string) func(string) string {
	return func(col string) string { return col + " " + s }
}

// storageErrors is keyed by SQLSTATE.
var storageErrors = map[string]classification{
	store.CodeNotNullViolation:    {http.StatusBadRequest, suffixed("required")},
	store.CodeStringTooLong:       {http.StatusUnprocessableEntity, suffixed("too long")},
	store.CodeOutOfRange:          {http.StatusUnprocessableEntity, suffixed("out of range")},
	store.CodeCheckViolation:      {http.StatusUnprocessableEntity, suffixed("invalid")},
	store.CodeInvalidParameter:    {http.StatusUnprocessableEntity, suffixed("invalid")},
	store.CodeInvalidDatetime:     {http.StatusUnprocessableEntity, suffixed("invalid")},
	store.CodeForeignKeyViolation: {http.StatusUnprocessableEntity, suffixed("invalid")},
	store.CodeUniqueViolation:     {http.StatusUnprocessableEntity, suffixed("taken")},
	store.CodeUndefinedColumn: {http.StatusUnprocessableEntity, func(col string) string {
		return fmt.Sprintf("'%s' not a column", col)
	}},
}

// Classify maps a storage error to a response. columns are the columns of
// the failed statement; the first one that occurs in the error message names
// the offending column. This is a substring heuristic and can pick the wrong
// column when one name contains another.
func Classify(err error, columns []string) Classification {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return Classification{
			Status: http.StatusBadRequest,
			Body:   ErrorBody{Message: MsgDatabaseError, Errors: verr.Messages},
		}
	}

	code, message := "", ""
	if de, ok := store.AsDriverError(err); ok {
		code, message = de.Code, de.Message
	} else if err != nil {
		message = err.Error()
	}

	result := Classification{
		Status: http.StatusInternalServerError,
		Body:   ErrorBody{Message: MsgDatabaseError, Errors: []string{MsgUnexpectedError}},
	}
	if entry, ok := storageErrors[code]; ok {
		result.Status = entry.status
		result.Body.Errors = []string{entry.message(columnFor(message, columns))}
	}
	return result
}

func columnFor(message string, columns []string) string {
	if message == "" {
		return defaultColumn
	}
	for _, col := range columns {
		if col != "" && strings.Contains(message, col) {
			return naming.Capitalize(col)
		}
	}
	return defaultColumn
}

// Classifier is Classify plus an error log record and a metric per error.
type Classifier struct {
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewClassifier creates a Classifier. Both arguments may be nil; the logger
// then comes from the request context.
func NewClassifier(logger *logging.Logger, m *metrics.Metrics) *Classifier {
	return &Classifier{logger: logger, metrics: m}
}

func (c *Classifier) Classify(ctx context.Context, err error, columns []string) Classification {
	result := Classify(err, columns)

	code, message, stack := "", "", ""
	if de, ok := store.AsDriverError(err); ok {
		code, message, stack = de.Code, de.Message, de.Stack
	} else if err != nil {
		message = err.Error()
	}

	line := "Error: " + message
	if code != "" {
		line = fmt.Sprintf("Error %s: %s", code, message)
	}
	attrs := []any{slog.Int("status", result.Status)}
	if stack != "" {
		attrs = append(attrs, slog.String("stack", stack))
	}
	c.log(ctx).ErrorContext(ctx, line, attrs...)

	c.metrics.StorageError(code, result.Status)
	return result
}

// log prefers the request-scoped logger so records keep their request ID.
func (c *Classifier) log(ctx context.Context) *logging.Logger {
	if _, ok := logging.LoggerFromContext(ctx); ok || c.logger == nil {
		return logging.FromContext(ctx)
	}
	return c.logger
}
