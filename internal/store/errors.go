package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var ErrNotFound = errors.New("not found")

// SQLSTATE codes the gateway distinguishes. Errors from engines that do not
// report SQLSTATE natively are translated into these.
const (
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
	CodeStringTooLong       = "22001"
	CodeOutOfRange          = "22003"
	CodeInvalidDatetime     = "22008"
	CodeInvalidParameter    = "22023"
	CodeUndefinedColumn     = "42703"
)

// DriverError is the engine-neutral view of a storage error.
type DriverError struct {
	Code    string // SQLSTATE
	Message string
	Stack   string // extra diagnostic context from the engine, if any
	Err     error
}

func (e *DriverError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
}

func (e *DriverError) Unwrap() error { return e.Err }

// AsDriverError extracts a DriverError from anywhere in err's chain.
func AsDriverError(err error) (*DriverError, bool) {
	if err == nil {
		return nil, false
	}

	var de *DriverError
	if errors.As(err, &de) {
		return de, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &DriverError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Stack:   postgresContext(pgErr),
			Err:     err,
		}, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &DriverError{
			Code:    mysqlState(myErr),
			Message: myErr.Message,
			Err:     err,
		}, true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return &DriverError{
			Code:    sqliteState(liteErr.Code(), liteErr.Error()),
			Message: liteErr.Error(),
			Err:     err,
		}, true
	}

	return nil, false
}

func postgresContext(e *pgconn.PgError) string {
	var parts []string
	for _, s := range []string{e.Detail, e.Where, e.ConstraintName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if e.TableName != "" && e.ColumnName != "" {
		parts = append(parts, e.TableName+"."+e.ColumnName)
	}
	return strings.Join(parts, "\n")
}

// mysqlState maps MySQL error numbers onto SQLSTATE. MySQL reports the
// generic class 23000 for most integrity errors, so the number is used.
func mysqlState(e *mysql.MySQLError) string {
	switch e.Number {
	case 1048, 1364: // ER_BAD_NULL_ERROR, ER_NO_DEFAULT_FOR_FIELD
		return CodeNotNullViolation
	case 1406: // ER_DATA_TOO_LONG
		return CodeStringTooLong
	case 1264, 1690: // ER_WARN_DATA_OUT_OF_RANGE, ER_DATA_OUT_OF_RANGE
		return CodeOutOfRange
	case 1062: // ER_DUP_ENTRY
		return CodeUniqueViolation
	case 1451, 1452, 1216, 1217: // ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2, ...
		return CodeForeignKeyViolation
	case 3819: // ER_CHECK_CONSTRAINT_VIOLATED
		return CodeCheckViolation
	case 1292: // ER_TRUNCATED_WRONG_VALUE
		return CodeInvalidDatetime
	case 1366: // ER_TRUNCATED_WRONG_VALUE_FOR_FIELD
		return CodeInvalidParameter
	case 1054: // ER_BAD_FIELD_ERROR
		return CodeUndefinedColumn
	}
	if e.SQLState == [5]byte{} {
		return fmt.Sprintf("MYSQL_%d", e.Number)
	}
	return string(e.SQLState[:])
}

// sqliteState maps SQLite extended result codes onto SQLSTATE. Unknown
// columns are reported as a generic SQLITE_ERROR and recognized by message.
// Unmapped codes are kept as SQLITE_<n> for the log.
func sqliteState(code int, msg string) string {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return CodeNotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return CodeUniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CodeCheckViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return CodeForeignKeyViolation
	case sqlite3.SQLITE_TOOBIG:
		return CodeStringTooLong
	case sqlite3.SQLITE_MISMATCH:
		return CodeInvalidParameter
	case sqlite3.SQLITE_ERROR:
		if strings.Contains(msg, "no such column") || strings.Contains(msg, "has no column named") {
			return CodeUndefinedColumn
		}
	}
	return fmt.Sprintf("SQLITE_%d", code)
}
