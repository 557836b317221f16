package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchemaNotFound         = errors.New("schema not found")
	ErrSchemaFunctionNotFound = errors.New("schema function not found")
)

// SchemaNotFoundError is returned when no entity is registered under the
// resolved name.
type SchemaNotFoundError struct {
	Resource string
	Entity   string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no entity %q registered for resource %q", e.Entity, e.Resource)
}

func (e *SchemaNotFoundError) Unwrap() error { return ErrSchemaNotFound }

// SchemaFunctionNotFoundError is returned when the entity exists but has no
// contract for the requested operation.
type SchemaFunctionNotFoundError struct {
	Resource  string
	Entity    string
	Operation Operation
}

func (e *SchemaFunctionNotFoundError) Error() string {
	return fmt.Sprintf("entity %q has no %s contract", e.Entity, e.Operation)
}

func (e *SchemaFunctionNotFoundError) Unwrap() error { return ErrSchemaFunctionNotFound }

// ValidationError carries the messages of a failed validation.
type ValidationError struct {
	Status   int
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
