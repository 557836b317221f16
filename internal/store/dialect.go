package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
)

// Dialect abstracts the engine-specific parts of statement text and driver
// selection.
type Dialect interface {
	// Name returns "postgres", "sqlite" or "mysql".
	Name() string

	// DriverName returns the database/sql driver name ("pgx", "sqlite" or "mysql").
	DriverName() string

	// Placeholder returns the parameter placeholder for the given 1-based index.
	Placeholder(index int) string

	// PlaceholderFormat is the squirrel equivalent of Placeholder.
	PlaceholderFormat() sq.PlaceholderFormat

	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string

	// SupportsReturning reports whether INSERT/UPDATE ... RETURNING * is available.
	SupportsReturning() bool

	// DBSystem is the OpenTelemetry db.system attribute for instrumentation.
	DBSystem() attribute.KeyValue
}

// NewDialect creates a Dialect for the given driver name. Unknown names fall
// back to Postgres; config validation rejects them earlier.
func NewDialect(driver string) Dialect {
	switch driver {
	case "sqlite":
		return &SQLiteDialect{}
	case "mysql":
		return &MySQLDialect{}
	default:
		return &PostgresDialect{}
	}
}

// quoteWith wraps name in q, doubling any q inside it.
func quoteWith(q, name string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// --- PostgreSQL ---

// PostgresDialect implements Dialect for PostgreSQL via pgx/stdlib.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }
func (d *PostgresDialect) QuoteIdent(name string) string           { return quoteWith(`"`, name) }
func (d *PostgresDialect) SupportsReturning() bool                 { return true }
func (d *PostgresDialect) DBSystem() attribute.KeyValue            { return dbSystem("postgresql") }

// --- SQLite ---

// SQLiteDialect implements Dialect for SQLite via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) Placeholder(index int) string {
	return fmt.Sprintf("?%d", index)
}

func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }
func (d *SQLiteDialect) QuoteIdent(name string) string           { return quoteWith(`"`, name) }
func (d *SQLiteDialect) SupportsReturning() bool                 { return true }
func (d *SQLiteDialect) DBSystem() attribute.KeyValue            { return dbSystem("sqlite") }

// --- MySQL ---

// MySQLDialect implements Dialect for MySQL and TiDB via go-sql-driver/mysql.
type MySQLDialect struct{}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

// Placeholder ignores the index; MySQL parameters are positional.
func (d *MySQLDialect) Placeholder(int) string { return "?" }

func (d *MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }
func (d *MySQLDialect) QuoteIdent(name string) string           { return quoteWith("`", name) }
func (d *MySQLDialect) SupportsReturning() bool                 { return false }
func (d *MySQLDialect) DBSystem() attribute.KeyValue            { return dbSystem("mysql") }

func dbSystem(name string) attribute.KeyValue {
	return attribute.String("db.system", name)
}
