package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitestutil "github.com/leapstack-labs/mysqlint/internal/cli/testutil"
	"github.com/leapstack-labs/mysqlint/internal/state"
	"github.com/leapstack-labs/mysqlint/internal/testutil"
)

func analyzeJSON(t *testing.T, stdin string, args ...string) (AnalyzeOutput, error) {
	t.Helper()
	cfg := testConfig(t)
	cfg.Output = "json"
	out, err := execute(t, NewAnalyzeCommand(), cfg, stdin, args...)

	var result AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output: %s", out)
	return result, err
}

func TestAnalyze_Text(t *testing.T) {
	out, err := execute(t, NewAnalyzeCommand(), testConfig(t), "SET @@no_such_thing = 1;\nSELECT 1;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 statements failed")

	clitestutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "<stdin>:1:")
	assert.Contains(t, out, "critical [SV01]")
	assert.Contains(t, out, "unknown system variable")
	assert.Contains(t, out, "1 file(s), 2 statement(s), 1 failed")
}

func TestAnalyze_JSON(t *testing.T) {
	result, err := analyzeJSON(t, "SELECT 1;")
	require.NoError(t, err)

	assert.Equal(t, "mysql-8.0.0", result.Platform)
	require.Len(t, result.Files, 1)
	assert.Equal(t, stdinName, result.Files[0].Path)
	require.Len(t, result.Files[0].Statements, 1)
	assert.Equal(t, AnalyzeSummary{Files: 1, Statements: 1}, result.Summary)
}

func TestAnalyze_TracksSQLMode(t *testing.T) {
	result, err := analyzeJSON(t, "SET sql_mode = 'ANSI_QUOTES';\nSELECT \"a\" FROM t;\n")
	require.NoError(t, err)

	stmts := result.Files[0].Statements
	require.Len(t, stmts, 2)
	assert.NotContains(t, stmts[0].Mode, "ANSI_QUOTES")
	assert.Equal(t, "ANSI_QUOTES", stmts[1].Mode)
	assert.Equal(t, 2, stmts[1].Line)
}

func TestAnalyze_ParseError(t *testing.T) {
	result, err := analyzeJSON(t, "SELEC 1;\nSELECT 2;")
	require.Error(t, err)

	stmts := result.Files[0].Statements
	require.Len(t, stmts, 2)
	assert.True(t, stmts[0].Failed)
	assert.NotEmpty(t, stmts[0].Errors)
	assert.False(t, stmts[1].Failed)
}

func TestAnalyze_Flags(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		args      []string
		wantErr   bool
		wantRules []string
	}{
		{
			name:      "all rules",
			sql:       "SET @@no_such_thing = 1;",
			wantErr:   true,
			wantRules: []string{"SV01"},
		},
		{
			name: "disabled rule",
			sql:  "SET @@no_such_thing = 1;",
			args: []string{"--disable", "SV01"},
		},
		{
			name:      "notices shown by default",
			sql:       "SELECT * FROM t;",
			wantRules: []string{"QR01"},
		},
		{
			name: "minimum severity",
			sql:  "SELECT * FROM t;",
			args: []string{"--severity", "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzeJSON(t, tt.sql, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			var rules []string
			for _, d := range result.Files[0].Statements[0].Diagnostics {
				rules = append(rules, d.RuleID)
			}
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestAnalyze_UnknownSeverity(t *testing.T) {
	_, err := execute(t, NewAnalyzeCommand(), testConfig(t), "SELECT 1;", "--severity", "loud")
	assert.ErrorContains(t, err, "unknown severity")
}

func TestAnalyze_Repair(t *testing.T) {
	result, err := analyzeJSON(t, "SET sql_mode = 'STRICT_TRANS_TABLES,NO_AUTO_CREATE_USER';", "--repair")
	require.Error(t, err)

	var md01 *DiagnosticReport
	for i, d := range result.Files[0].Statements[0].Diagnostics {
		if d.RuleID == "MD01" {
			md01 = &result.Files[0].Statements[0].Diagnostics[i]
		}
	}
	require.NotNil(t, md01)
	assert.Equal(t, "repaired", md01.AutoRepair)
	require.Len(t, md01.Repairs, 1)
	assert.Contains(t, md01.Repairs[0], "STRICT_TRANS_TABLES")
	assert.NotContains(t, md01.Repairs[0], "NO_AUTO_CREATE_USER")
}

func TestAnalyze_Files(t *testing.T) {
	dir := t.TempDir()
	clitestutil.WriteFiles(t, dir, map[string]string{
		"b.sql":       "SELECT 1;",
		"sub/a.sql":   "SELECT 2;\nSELECT 3;",
		"notes.txt":   "not sql",
		"upper/C.SQL": "SELECT 4;",
	})

	cfg := testConfig(t)
	cfg.Output = "json"
	out, err := execute(t, NewAnalyzeCommand(), cfg, "", dir)
	require.NoError(t, err)

	var result AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	paths := make([]string, len(result.Files))
	for i, f := range result.Files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "b.sql"),
		filepath.Join(dir, "sub", "a.sql"),
		filepath.Join(dir, "upper", "C.SQL"),
	}, paths)
	assert.Equal(t, 4, result.Summary.Statements)
}

func TestAnalyze_FilesStartFromFreshSessions(t *testing.T) {
	dir := t.TempDir()
	clitestutil.WriteFiles(t, dir, map[string]string{
		"1.sql": "SET sql_mode = 'ANSI_QUOTES';",
		"2.sql": "SELECT 1;",
	})

	cfg := testConfig(t)
	cfg.Output = "json"
	cfg.SQLMode = "NO_ZERO_DATE"
	out, err := execute(t, NewAnalyzeCommand(), cfg, "", filepath.Join(dir, "1.sql"), filepath.Join(dir, "2.sql"))
	require.NoError(t, err)

	var result AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 2)
	assert.Equal(t, "NO_ZERO_DATE", result.Files[1].Statements[0].Mode)
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := execute(t, NewAnalyzeCommand(), testConfig(t), "", filepath.Join(t.TempDir(), "nope.sql"))
	assert.Error(t, err)
}

func TestAnalyze_Record(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = "json"
	out, err := execute(t, NewAnalyzeCommand(), cfg, "SELECT * FROM t;\nSET @@no_such_thing = 1;", "--record")
	require.Error(t, err)

	var result AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Summary.RunID)

	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(cfg.StatePath))
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(context.Background(), result.Summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Statements)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, "DEFAULT", run.Mode)
	assert.Equal(t, result.Summary.Diagnostics, run.Findings)

	findings, err := store.Findings(context.Background(), run.ID)
	require.NoError(t, err)
	require.NotEmpty(t, findings)
	assert.Equal(t, stdinName, findings[0].File)
}
