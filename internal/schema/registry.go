package schema

import (
	"fmt"
	"strings"
	"sync"

	"crud-gateway/internal/naming"
)

// Entity is a resource definition: a name plus one contract per operation.
// A nil contract means the entity does not support that operation.
type Entity interface {
	Name() string
	InsertContract() *Contract
	UpdateContract() *Contract
}

// Registry holds all registered entities, keyed by their snake_case
// singular name.
type Registry struct {
	mu        sync.RWMutex
	namer     *naming.Namer
	entities  map[string]Entity
	resources []string
}

// NewRegistry creates an empty registry. A nil namer uses the defaults.
func NewRegistry(namer *naming.Namer) *Registry {
	if namer == nil {
		namer = naming.Default()
	}
	return &Registry{
		namer:    namer,
		entities: make(map[string]Entity),
	}
}

// Register adds entities to the registry. Each entity's table name must
// singularize back to its key, otherwise requests for the table could never
// resolve.
func (r *Registry) Register(entities ...Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entities {
		if e == nil || strings.TrimSpace(e.Name()) == "" {
			return fmt.Errorf("register entity: name is required")
		}
		key := naming.ToColumnCase(e.Name())
		if _, exists := r.entities[key]; exists {
			return fmt.Errorf("register entity %q: already registered", e.Name())
		}
		table := r.namer.TableName(e.Name())
		if back := r.namer.EntityKey(table); back != key {
			return fmt.Errorf("register entity %q: table %q resolves back to %q; add a naming override", e.Name(), table, back)
		}
		if err := checkFieldNames(e); err != nil {
			return err
		}
		r.entities[key] = e
		r.resources = append(r.resources, table)
	}
	return nil
}

// Resolve returns the contract for the resource and operation.
func (r *Registry) Resolve(resource string, op Operation) (*Contract, error) {
	key := r.namer.EntityKey(resource)

	r.mu.RLock()
	e, ok := r.entities[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &SchemaNotFoundError{Resource: resource, Entity: key}
	}

	var c *Contract
	switch op {
	case Insert:
		c = e.InsertContract()
	case Update:
		c = e.UpdateContract()
	}
	if c == nil {
		return nil, &SchemaFunctionNotFoundError{Resource: resource, Entity: key, Operation: op}
	}
	return c, nil
}

// ResourceNames returns the table names of all entities in registration
// order.
func (r *Registry) ResourceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.resources))
	copy(out, r.resources)
	return out
}

// checkFieldNames requires every contract field to be camelCase that maps
// to a column and back unchanged, so payload keys and row columns stay in
// step.
func checkFieldNames(e Entity) error {
	for _, c := range []*Contract{e.InsertContract(), e.UpdateContract()} {
		if c == nil {
			continue
		}
		for _, f := range c.Fields {
			if naming.ToFieldCase(naming.ToColumnCase(f.Name)) != f.Name {
				return fmt.Errorf("register entity %q: field %q is not camelCase", e.Name(), f.Name)
			}
		}
	}
	return nil
}
