package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/state"
)

func TestHistoryCommand(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, NewHistoryCommand(), cfg, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")

	for _, sql := range []string{"SELECT * FROM t;", "SELECT 1;"} {
		_, err := execute(t, NewAnalyzeCommand(), cfg, sql, "--record")
		require.NoError(t, err)
	}

	cfg.Output = "json"
	out, err = execute(t, NewHistoryCommand(), cfg, "")
	require.NoError(t, err)

	var runs []*state.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, 0, runs[0].Findings, "newest first")
	assert.Equal(t, 1, runs[1].Findings)

	out, err = execute(t, NewHistoryCommand(), cfg, "", "--limit", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	assert.Len(t, runs, 1)

	out, err = execute(t, NewHistoryCommand(), cfg, "", runs[0].ID)
	require.NoError(t, err)
	var detail HistoryRunOutput
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, runs[0].ID, detail.Run.ID)
	assert.Empty(t, detail.Findings)
}

func TestHistoryCommand_Text(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, NewAnalyzeCommand(), cfg, "SELECT * FROM t;", "--record")
	require.NoError(t, err)

	out, err := execute(t, NewHistoryCommand(), cfg, "")
	require.NoError(t, err)
	assert.Contains(t, out, "mysql-8.0.0")
	assert.Contains(t, out, "FINDINGS")
}

func TestHistoryCommand_UnknownRun(t *testing.T) {
	_, err := execute(t, NewHistoryCommand(), testConfig(t), "", "nope")
	assert.ErrorContains(t, err, `run "nope" not found`)
}
