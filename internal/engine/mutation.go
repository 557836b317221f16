package engine

import (
	"strconv"
	"strings"

	"crud-gateway/internal/payload"
)

// Placeholder renders the bind parameter for a 1-based position.
type Placeholder func(index int) string

// PostgresPlaceholder yields $1, $2, ...
func PostgresPlaceholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// Mutation is the column list, bind parameters and SQL fragment derived from
// a payload. For inserts Fragment is the placeholder list; for updates it is
// the SET clause and the last parameter is the primary key.
type Mutation struct {
	Columns  []string
	Params   []any
	Fragment string
}

// FormatInsert converts p into an insert descriptor. Columns follow payload
// key order after snake-casing. Values are passed through untouched.
func FormatInsert(p *payload.Payload, ph Placeholder) Mutation {
	if ph == nil {
		ph = PostgresPlaceholder
	}
	entries := p.ColumnCase().Entries()

	m := Mutation{
		Columns: make([]string, 0, len(entries)),
		Params:  make([]any, 0, len(entries)),
	}
	marks := make([]string, 0, len(entries))
	for i, e := range entries {
		m.Columns = append(m.Columns, e.Key)
		m.Params = append(m.Params, e.Value)
		marks = append(marks, ph(i+1))
	}
	m.Fragment = strings.Join(marks, ", ")
	return m
}

// FormatUpdate converts p into an update descriptor. The id column is never
// updated; pk is appended as the final parameter for the WHERE clause.
func FormatUpdate(p *payload.Payload, pk any, ph Placeholder) Mutation {
	if ph == nil {
		ph = PostgresPlaceholder
	}
	entries := p.ColumnCase().Entries()

	m := Mutation{
		Columns: make([]string, 0, len(entries)),
		Params:  make([]any, 0, len(entries)+1),
	}
	sets := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Key == "id" {
			continue
		}
		m.Columns = append(m.Columns, e.Key)
		m.Params = append(m.Params, e.Value)
		sets = append(sets, e.Key+" = "+ph(len(m.Params)))
	}
	m.Fragment = strings.Join(sets, ", ")
	m.Params = append(m.Params, pk)
	return m
}

// KeyPlaceholder is the placeholder of the primary key parameter of an
// update descriptor.
func (m Mutation) KeyPlaceholder(ph Placeholder) string {
	if ph == nil {
		ph = PostgresPlaceholder
	}
	return ph(len(m.Params))
}
