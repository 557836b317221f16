package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"crud-gateway/internal/logging"
	"crud-gateway/internal/metrics"
	"crud-gateway/internal/payload"
	"crud-gateway/internal/schema"
	"crud-gateway/internal/store"
)

// MsgDeleted is the body message of a successful delete.
const MsgDeleted = "Deleted"

// Column names are interpolated into SQL text, so anything that is not a
// plain identifier after snake-casing is refused before it reaches the
// database.
var columnIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Handler struct {
	store      *store.Store
	registry   *schema.Registry
	validator  *schema.Validator
	classifier *Classifier
	metrics    *metrics.Metrics
}

// NewHandler wires the CRUD handlers. classifier and m may be nil.
func NewHandler(s *store.Store, reg *schema.Registry, classifier *Classifier, m *metrics.Metrics) *Handler {
	if classifier == nil {
		classifier = NewClassifier(nil, m)
	}
	return &Handler{
		store:      s,
		registry:   reg,
		validator:  schema.NewValidator(reg),
		classifier: classifier,
		metrics:    m,
	}
}

func (h *Handler) statements(resource string) *Statements {
	return NewStatements(h.store.Dialect, resource)
}

// List handles GET /<resource>.
func (h *Handler) List(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		query, args, err := h.statements(resource).SelectAll()
		if err != nil {
			return fmt.Errorf("build list %s: %w", resource, err)
		}

		rows, err := store.QueryRows(ctx, h.store.DB, query, args...)
		if err != nil {
			return h.storageError(c, err, nil)
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		return c.JSON(rows)
	}
}

// Get handles GET /<resource>/:id.
func (h *Handler) Get(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, err := h.fetch(c.UserContext(), resource, c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, NotFoundError())
			}
			return h.storageError(c, err, nil)
		}
		return c.JSON(row)
	}
}

// Create handles POST /<resource>.
func (h *Handler) Create(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		p, appErr := h.parseAndValidate(c, resource, schema.Insert)
		if appErr != nil {
			return respondError(c, appErr)
		}

		dialect := h.store.Dialect
		m := FormatInsert(p, dialect.Placeholder)
		if bad := invalidColumn(m.Columns); bad != "" {
			return h.storageError(c, unknownColumn(bad), []string{bad})
		}

		stmts := h.statements(resource)
		query := stmts.Insert(m)

		var row map[string]any
		var err error
		if dialect.SupportsReturning() {
			row, err = store.QueryRow(ctx, h.store.DB, query, m.Params...)
		} else {
			var id int64
			id, err = store.ExecInsert(ctx, h.store.DB, query, m.Params...)
			if err == nil {
				row, err = h.fetch(ctx, resource, id)
			}
		}
		if err != nil {
			return h.storageError(c, err, m.Columns)
		}

		logging.FromContext(ctx).Debug("record created", "resource", resource, "id", row[primaryKey])
		return c.Status(http.StatusCreated).JSON(row)
	}
}

// Update handles PATCH /<resource>/:id. Only the fields present in the body
// are written; an id in the body is ignored.
func (h *Handler) Update(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := c.Params("id")

		p, appErr := h.parseAndValidate(c, resource, schema.Update)
		if appErr != nil {
			return respondError(c, appErr)
		}

		dialect := h.store.Dialect
		m := FormatUpdate(p, id, dialect.Placeholder)
		if bad := invalidColumn(m.Columns); bad != "" {
			return h.storageError(c, unknownColumn(bad), []string{bad})
		}

		query := h.statements(resource).Update(m)

		var row map[string]any
		var err error
		if dialect.SupportsReturning() {
			row, err = store.QueryRow(ctx, h.store.DB, query, m.Params...)
		} else {
			var affected int64
			affected, err = store.Exec(ctx, h.store.DB, query, m.Params...)
			switch {
			case err != nil:
			case affected == 0:
				err = store.ErrNotFound
			default:
				row, err = h.fetch(ctx, resource, id)
			}
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, NotFoundError())
			}
			return h.storageError(c, err, m.Columns)
		}
		return c.JSON(row)
	}
}

// Delete handles DELETE /<resource>/:id.
func (h *Handler) Delete(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, args, err := h.statements(resource).DeleteByID(c.Params("id"))
		if err != nil {
			return fmt.Errorf("build delete %s: %w", resource, err)
		}

		affected, err := store.Exec(c.UserContext(), h.store.DB, query, args...)
		if err != nil {
			return h.storageError(c, err, nil)
		}
		if affected == 0 {
			return respondError(c, NotFoundError())
		}
		return c.JSON(fiber.Map{"message": MsgDeleted})
	}
}

func (h *Handler) fetch(ctx context.Context, resource string, id any) (map[string]any, error) {
	query, args, err := h.statements(resource).SelectByID(id)
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", resource, err)
	}
	return store.QueryRow(ctx, h.store.DB, query, args...)
}

// parseAndValidate decodes the body and checks it against the resource's
// contract for op.
func (h *Handler) parseAndValidate(c *fiber.Ctx, resource string, op schema.Operation) (*payload.Payload, *AppError) {
	p, err := payload.Parse(c.Body())
	if err != nil {
		logging.FromContext(c.UserContext()).Debug("rejecting request body", "resource", resource, "error", err)
		h.metrics.ValidationFailed(resource, op.String(), http.StatusBadRequest)
		return nil, InvalidJSONError()
	}

	var verr *schema.ValidationError
	if err := h.validator.Check(p, resource, op); errors.As(err, &verr) {
		h.metrics.ValidationFailed(resource, op.String(), verr.Status)
		return nil, ValidationError(verr.Status, verr.Messages)
	}
	return p, nil
}

func (h *Handler) storageError(c *fiber.Ctx, err error, columns []string) error {
	result := h.classifier.Classify(c.UserContext(), err, columns)
	return respondError(c, result.AppError())
}

func invalidColumn(columns []string) string {
	for _, col := range columns {
		if !columnIdent.MatchString(col) {
			return col
		}
	}
	return ""
}

func unknownColumn(col string) error {
	return &store.DriverError{
		Code:    store.CodeUndefinedColumn,
		Message: fmt.Sprintf("column %q is not a valid identifier", col),
	}
}
