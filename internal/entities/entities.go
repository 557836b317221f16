// Package entities declares the resources served by the gateway. Each
// entity is a name plus its insert and update contracts; the update
// contract is always the partial form of the insert contract.
package entities

import "crud-gateway/internal/schema"

// All returns every entity in registration order.
func All() []schema.Entity {
	return []schema.Entity{
		Employee(),
		Department(),
	}
}

// definition is the common schema.Entity implementation.
type definition struct {
	name   string
	insert *schema.Contract
	update *schema.Contract
}

func (d *definition) Name() string                     { return d.name }
func (d *definition) InsertContract() *schema.Contract { return d.insert }
func (d *definition) UpdateContract() *schema.Contract { return d.update }

func newDefinition(name string, fields ...schema.Field) *definition {
	insert := &schema.Contract{Name: name, Fields: fields}
	return &definition{
		name:   name,
		insert: insert,
		update: insert.Partial(),
	}
}
