package engine

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"crud-gateway/internal/store"
)

const primaryKey = "id"

// Statements renders the SQL for one resource table in a dialect.
type Statements struct {
	dialect store.Dialect
	table   string
}

func NewStatements(dialect store.Dialect, table string) *Statements {
	return &Statements{dialect: dialect, table: table}
}

func (s *Statements) quotedTable() string {
	return s.dialect.QuoteIdent(s.table)
}

func (s *Statements) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(s.dialect.PlaceholderFormat())
}

// SelectAll returns every row of the table.
func (s *Statements) SelectAll() (string, []any, error) {
	return s.builder().Select("*").From(s.quotedTable()).ToSql()
}

func (s *Statements) SelectByID(id any) (string, []any, error) {
	return s.builder().
		Select("*").
		From(s.quotedTable()).
		Where(sq.Eq{s.dialect.QuoteIdent(primaryKey): id}).
		ToSql()
}

func (s *Statements) DeleteByID(id any) (string, []any, error) {
	return s.builder().
		Delete(s.quotedTable()).
		Where(sq.Eq{s.dialect.QuoteIdent(primaryKey): id}).
		ToSql()
}

// Insert renders an INSERT for a descriptor built by FormatInsert with this
// dialect's placeholders. RETURNING * is added where the dialect has it.
func (s *Statements) Insert(m Mutation) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.quotedTable())
	if len(m.Columns) == 0 {
		if s.dialect.SupportsReturning() {
			b.WriteString(" DEFAULT VALUES")
		} else {
			b.WriteString(" () VALUES ()")
		}
	} else {
		fmt.Fprintf(&b, " (%s) VALUES (%s)", strings.Join(m.Columns, ", "), m.Fragment)
	}
	if s.dialect.SupportsReturning() {
		b.WriteString(" RETURNING *")
	}
	return b.String()
}

// Update renders an UPDATE for a descriptor built by FormatUpdate. The key
// placeholder is the position of the last parameter.
func (s *Statements) Update(m Mutation) string {
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.quotedTable(), m.Fragment, primaryKey, m.KeyPlaceholder(s.dialect.Placeholder))
	if s.dialect.SupportsReturning() {
		sql += " RETURNING *"
	}
	return sql
}
