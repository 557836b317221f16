package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crud-gateway/internal/logging"
	"crud-gateway/internal/metrics"
	"crud-gateway/internal/schema"
	"crud-gateway/internal/store"
)

var userColumns = []string{"email", "username", "password"}

func driverErr(code, msg string) error {
	return &store.DriverError{Code: code, Message: msg}
}

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		columns []string
		status  int
		message string
	}{
		{"not null", driverErr("23502", "Column 'email' cannot be null"), userColumns, 400, "Email required"},
		{"unique", driverErr("23505", "Duplicate entry for key 'username'"), userColumns, 422, "Username taken"},
		{"too long", driverErr("22001", "value too long for password"), userColumns, 422, "Password too long"},
		{"out of range", driverErr("22003", "smallint out of range"), userColumns, 422, "Value out of range"},
		{"check", driverErr("23514", "violates check constraint on username"), userColumns, 422, "Username invalid"},
		{"invalid parameter", driverErr("22023", "bad email"), userColumns, 422, "Email invalid"},
		{"invalid datetime", driverErr("22008", "hire_date out of range"), []string{"hire_date"}, 422, "Hire_date invalid"},
		{"foreign key", driverErr("23503", "violates foreign key constraint"), userColumns, 422, "Value invalid"},
		{"unknown column", driverErr("42703", `column "nickname" does not exist`), []string{"nickname"}, 422, "'Nickname' not a column"},
		{"unknown code", driverErr("UNKNOWN", "x"), userColumns, 500, "Unexpected error"},
		{"plain error", errors.New("connection reset"), userColumns, 500, "Unexpected error"},
		{"nil", nil, nil, 500, "Unexpected error"},
		{"empty driver error", &store.DriverError{}, userColumns, 500, "Unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, tt.columns)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, MsgDatabaseError, got.Body.Message)
			assert.Equal(t, []string{tt.message}, got.Body.Errors)
		})
	}
}

func TestClassify_FirstMatchingColumnWins(t *testing.T) {
	err := driverErr("23505", "duplicate key value violates unique constraint on username, email")
	got := Classify(err, userColumns)
	assert.Equal(t, []string{"Email taken"}, got.Body.Errors)
}

func TestClassify_ValidationError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &schema.ValidationError{
		Status:   http.StatusUnprocessableEntity,
		Messages: []string{"First name required", "Email not valid"},
	})

	got := Classify(err, userColumns)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, ErrorBody{
		Message: MsgDatabaseError,
		Errors:  []string{"First name required", "Email not valid"},
	}, got.Body)
}

func TestClassify_WrappedPostgresError(t *testing.T) {
	err := fmt.Errorf("query: %w", &pgconn.PgError{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "employees_email_key"`,
	})

	got := Classify(err, []string{"first_name", "email"})
	assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
	assert.Equal(t, []string{"Email taken"}, got.Body.Errors)
}

func TestClassify_Idempotent(t *testing.T) {
	err := driverErr("23502", "Column 'email' cannot be null")
	assert.Equal(t, Classify(err, userColumns), Classify(err, userColumns))
}

func TestClassifier_LogsAndCounts(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "info", Format: "text", Output: &buf})
	m := metrics.New()
	c := NewClassifier(logger, m)

	err := &store.DriverError{Code: "23502", Message: "null value in column \"email\"", Stack: "table: employees"}
	got := c.Classify(context.Background(), err, userColumns)

	assert.Equal(t, Classify(err, userColumns), got)
	out := buf.String()
	assert.Contains(t, out, `msg="Error 23502: null value in column \"email\""`)
	assert.Contains(t, out, `stack="table: employees"`)
	assert.Contains(t, out, "status=400")

	body := scrape(t, m)
	assert.Contains(t, body, `gateway_storage_errors_total{code="23502",status="400"} 1`)
}

func TestClassifier_PrefersRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	c := NewClassifier(logging.NewLogger(logging.Config{Output: &base}), nil)
	ctx := logging.WithLogger(context.Background(), logging.NewLogger(logging.Config{Output: &scoped}))

	c.Classify(ctx, errors.New("boom"), nil)

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "Error: boom")
}

func TestClassifier_NilDependencies(t *testing.T) {
	c := NewClassifier(nil, nil)
	require.NotPanics(t, func() {
		got := c.Classify(context.Background(), nil, nil)
		assert.Equal(t, http.StatusInternalServerError, got.Status)
	})
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			if c := metric.GetCounter(); c != nil {
				lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), c.GetValue()))
			}
		}
	}
	return strings.Join(lines, "\n")
}
