package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/cli/testutil"
)

func TestFmt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     []string
		expected string
	}{
		{
			name:     "normalizes statements",
			input:    "select  a,b from t where a>1; select 2",
			expected: "SELECT a, b FROM t WHERE a > 1;\nSELECT 2;\n",
		},
		{
			name:     "keeps delimiter changes",
			input:    "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;",
			expected: "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;\n",
		},
		{
			name:     "keeps unparsable statements",
			input:    "SELEC 1;\nselect 2;",
			expected: "SELEC 1;\nSELECT 2;\n",
		},
		{
			name:     "pretty",
			input:    "SELECT a FROM t",
			args:     []string{"--pretty"},
			expected: "SELECT\n  a\nFROM t;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewFmtCommand(), testConfig(t), tt.input, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFmt_RendersEachStatementInItsMode(t *testing.T) {
	out, err := execute(t, NewFmtCommand(), testConfig(t),
		"SELECT \"a\";\nSET sql_mode = 'ANSI_QUOTES';\nSELECT \"a\" FROM t;\n")
	require.NoError(t, err)

	assert.Contains(t, out, "SELECT 'a';\n")
	assert.Contains(t, out, "SELECT a FROM t;\n")
}

func TestFmt_DelimiterCarriesAcrossModeChanges(t *testing.T) {
	out, err := execute(t, NewFmtCommand(), testConfig(t),
		"DELIMITER //\nSET sql_mode = 'ANSI_QUOTES'//\nSELECT 1//\n")
	require.NoError(t, err)

	assert.Contains(t, out, "DELIMITER //\n")
	assert.Contains(t, out, "SELECT 1//\n")
	assert.NotContains(t, out, "SELECT 1;")
}

func TestFmt_Repair(t *testing.T) {
	out, err := execute(t, NewFmtCommand(), testConfig(t),
		"SET sql_mode = 'STRICT_TRANS_TABLES,NO_AUTO_CREATE_USER';", "--repair")
	require.NoError(t, err)

	assert.Contains(t, out, "STRICT_TRANS_TABLES")
	assert.NotContains(t, out, "NO_AUTO_CREATE_USER")
}

func TestFmt_Write(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"a.sql": "select 1"})
	path := filepath.Join(dir, "a.sql")

	out, err := execute(t, NewFmtCommand(), testConfig(t), "", "--write", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", string(b))
}
