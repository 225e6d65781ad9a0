// Package main provides tests for the mysqlint CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/cli"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mysqlint")
}

func TestHelpCommand(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, cmd := range []string{"analyze", "fmt", "modes", "repl"} {
		assert.Contains(t, out, cmd)
	}
}

func TestProjectWorkflow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "init")
	require.NoError(t, err)

	script := filepath.Join(dir, "deploy.sql")
	require.NoError(t, os.WriteFile(script, []byte(`DELIMITER //
SELECT 1//
DELIMITER ;
SET sql_mode = 'ANSI_QUOTES';
SELECT "id" FROM users;
`), 0600))

	out, err := execute(t, "analyze", "-o", "text", "--record", "deploy.sql")
	require.NoError(t, err)
	assert.Contains(t, out, "5 statement(s), 0 failed")
	assert.Contains(t, out, "recorded run")
	assert.FileExists(t, filepath.Join(dir, ".mysqlint", "state.db"))

	out, err = execute(t, "schema", "table", "users", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")

	out, err = execute(t, "doctor", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Health Score")
}

func TestAnalyzeFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("bad.sql", []byte("SELEC 1;\n"), 0600))

	_, err := execute(t, "analyze", "bad.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 statements failed")
}
