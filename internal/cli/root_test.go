package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mysqlint v"+Version)
}

func TestRoot_Commands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"analyze", "fmt", "modes", "rules", "repl", "history", "schema", "init", "doctor", "completion", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_FlagsReachConfig(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")
	out, _, err := run(t, "", "--platform", "mariadb", "--server-version", "10.4", "--mode", "ANSI_QUOTES", "--state", state, "-o", "json", "modes")
	require.NoError(t, err)

	var report struct {
		Platform string `json:"platform"`
		Mode     string `json:"sql_mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "mariadb-10.4.0", report.Platform)
	assert.Equal(t, "ANSI_QUOTES", report.Mode)
}

func TestRoot_AnalyzeStdin(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")
	out, _, err := run(t, "SET sql_mode = 'ANSI';\nSELECT \"a\" FROM t;\n", "--state", state, "-o", "text", "analyze", "--severity", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s), 2 statement(s), 0 failed")
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "", "--output", "xml", "modes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestRoot_Completion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "mysqlint")
		})
	}

	_, _, err := run(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
