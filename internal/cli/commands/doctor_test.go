package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/cli/testutil"
	"github.com/leapstack-labs/mysqlint/internal/config"
)

func findCheck(t *testing.T, out *DoctorOutput, name string) HealthCheck {
	t.Helper()
	for _, c := range out.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return HealthCheck{}
}

func TestDoctor(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"shop/schema.sql":        "CREATE DATABASE shop;",
		"shop/tables/orders.sql": "CREATE TABLE orders (id INT);",
	})

	cfg := testConfig(t)
	cfg.File = filepath.Join(dir, config.ConfigFileName)
	cfg.SchemaDir = dir
	cfg.Output = "json"

	out, err := execute(t, NewDoctorCommand(), cfg, "")
	require.NoError(t, err)

	var result DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 100, result.Score)
	assert.Zero(t, result.Errors)
	for _, c := range result.Checks {
		assert.Equal(t, statusPass, c.Status, c.Name)
	}
	assert.Contains(t, findCheck(t, &result, "schema directory").Summary, "2 file(s), 0 failed")
	assert.Contains(t, findCheck(t, &result, "history database").Summary, "not created yet")
}

func TestDoctor_Problems(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"shop/tables/bad.sql": "CREATE TABLE bad (id INT"})

	cfg := testConfig(t)
	cfg.SQLMode = "NO_AUTO_CREATE_USER"
	cfg.SchemaDir = dir
	cfg.Lint.Disabled = []string{"XX01"}

	out := runChecks(&CommandContext{Cfg: cfg, Logger: testLogger(t)})

	assert.Equal(t, statusWarn, findCheck(t, out, "config file").Status)
	session := findCheck(t, out, "session")
	assert.Equal(t, statusWarn, session.Status)
	assert.Contains(t, session.Details[0], "NO_AUTO_CREATE_USER")
	rules := findCheck(t, out, "lint rules")
	assert.Equal(t, statusWarn, rules.Status)
	assert.Equal(t, []string{"unknown rule XX01"}, rules.Details)
	assert.Equal(t, statusError, findCheck(t, out, "schema directory").Status)
	assert.Equal(t, 1, out.Errors)
	assert.Equal(t, 50, out.Score)
}

func TestDoctor_StateDatabase(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, NewAnalyzeCommand(), cfg, "SELECT 1;", "--record")
	require.NoError(t, err)

	out := runChecks(&CommandContext{Cfg: cfg, Logger: testLogger(t)})
	check := findCheck(t, out, "history database")
	assert.Equal(t, statusPass, check.Status)
	assert.Contains(t, check.Summary, "schema version 1")
}

func TestDoctor_Text(t *testing.T) {
	out, err := execute(t, NewDoctorCommand(), testConfig(t), "")
	require.NoError(t, err)
	assert.Contains(t, out, "mysqlint Health Report")
	assert.Contains(t, out, "Configuration")
	assert.Contains(t, out, "Health Score: 90/100")
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 100, healthScore(nil))
	assert.Equal(t, 70, healthScore([]HealthCheck{{Status: statusWarn}, {Status: statusError}, {Status: statusPass}}))
	assert.Equal(t, 0, healthScore([]HealthCheck{
		{Status: statusError}, {Status: statusError}, {Status: statusError},
		{Status: statusError}, {Status: statusError}, {Status: statusError},
	}))
}
