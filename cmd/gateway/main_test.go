package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crud-gateway/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gateway dev (none)\n", out)
}

func TestResources(t *testing.T) {
	out, err := execute(t, "resources")
	require.NoError(t, err)

	assert.Contains(t, out, "employees\n")
	assert.Contains(t, out, "departments\n")
	assert.Regexp(t, `PATCH\s+/api/v1/employees/:id`, out)
	assert.Regexp(t, `DELETE\s+/api/v1/departments/:id`, out)
	assert.Less(t, strings.Index(out, "employees"), strings.Index(out, "departments"))
}

func TestResources_BasePathFromEnv(t *testing.T) {
	t.Setenv("GATEWAY_SERVER_BASE_PATH", "/v2/")

	out, err := execute(t, "resources")
	require.NoError(t, err)
	assert.Regexp(t, `GET\s+/v2/employees\n`, out)
}

func TestToken(t *testing.T) {
	t.Setenv("GATEWAY_AUTH_JWT_SECRET", "dev-secret")

	out, err := execute(t, "token", "--subject", "alice")
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(strings.TrimSpace(out), "dev-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestToken_RequiresSecret(t *testing.T) {
	_, err := execute(t, "token")
	assert.ErrorContains(t, err, "auth.jwt_secret is not set")
}

func TestServe_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("GATEWAY_DATABASE_DRIVER", "oracle")

	_, err := execute(t, "serve")
	assert.ErrorContains(t, err, "database.driver")
}
