package engine

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"crud-gateway/internal/logging"
)

const (
	MsgValidationErrors = "Validation error(s)"
	MsgNotFound         = "Not found"
	MsgInvalidJSON      = "Invalid JSON body"
	MsgInternal         = "Internal server error"
	MsgUnauthorized     = "Unauthorized"
)

// AppError is an error that renders as a JSON response body of the form
// {"message": ..., "errors": [...]}.
type AppError struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFoundError() *AppError {
	return &AppError{Status: http.StatusNotFound, Message: MsgNotFound}
}

func ValidationError(status int, messages []string) *AppError {
	return &AppError{Status: status, Message: MsgValidationErrors, Errors: messages}
}

func InvalidJSONError() *AppError {
	return ValidationError(http.StatusBadRequest, []string{MsgInvalidJSON})
}

func UnauthorizedError(reason string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: MsgUnauthorized, Errors: []string{reason}}
}

func respondError(c *fiber.Ctx, appErr *AppError) error {
	return c.Status(appErr.Status).JSON(appErr)
}

// ErrorHandler is the fiber error handler. AppErrors render as themselves,
// fiber errors keep their status and anything else is logged and becomes a
// 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return respondError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	logging.FromContext(c.UserContext()).Error("unhandled request error",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": MsgInternal})
}
