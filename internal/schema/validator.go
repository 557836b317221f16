package schema

import (
	"errors"
	"fmt"
	"net/http"

	"crud-gateway/internal/payload"
)

// MsgAtLeastOneField is returned for payloads with nothing to write.
const MsgAtLeastOneField = "At least one field required"

const primaryKey = "id"

// Validator checks payloads against the contracts held by a Registry.
type Validator struct {
	registry *Registry
}

func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate returns nil and 200 when p satisfies the resource's contract for
// op. A resource without a registered contract is a 400 with a single
// message; contract violations are a 422 with one message per violation.
// A payload that passes its contract but has nothing to write is a 422.
func (v *Validator) Validate(p *payload.Payload, resource string, op Operation) ([]string, int) {
	contract, err := v.registry.Resolve(resource, op)
	if err != nil {
		return []string{resolutionMessage(resource, err)}, http.StatusBadRequest
	}

	if msgs := contract.Evaluate(p); len(msgs) > 0 {
		return msgs, http.StatusUnprocessableEntity
	}
	if effectiveFields(p, op) == 0 {
		return []string{MsgAtLeastOneField}, http.StatusUnprocessableEntity
	}
	return nil, http.StatusOK
}

func resolutionMessage(resource string, err error) string {
	var fnErr *SchemaFunctionNotFoundError
	if errors.As(err, &fnErr) {
		return fmt.Sprintf("No %s schema function found for table '%s'", fnErr.Operation, resource)
	}
	return fmt.Sprintf("No schema function found for table '%s'", resource)
}

// Check is Validate returning a *ValidationError instead of a status pair.
func (v *Validator) Check(p *payload.Payload, resource string, op Operation) error {
	msgs, status := v.Validate(p, resource, op)
	if status == http.StatusOK {
		return nil
	}
	return &ValidationError{Status: status, Messages: msgs}
}

// effectiveFields counts the columns a write would touch. Keys are compared
// after snake-casing, so "Id" and "ID" are the primary key like "id".
func effectiveFields(p *payload.Payload, op Operation) int {
	cols := p.ColumnCase()
	n := cols.Len()
	if op == Update && cols.Has(primaryKey) {
		n--
	}
	return n
}
