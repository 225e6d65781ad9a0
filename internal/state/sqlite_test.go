package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/testutil"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())
	return store
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Migrate(), errNotOpen)
	assert.ErrorIs(t, store.RecordRun(ctx, &Run{}, nil), errNotOpen)
	_, err := store.ListRuns(ctx, 10)
	assert.ErrorIs(t, err, errNotOpen)
	_, err = store.GetRun(ctx, "x")
	assert.ErrorIs(t, err, errNotOpen)
	_, err = store.MigrationVersion()
	assert.ErrorIs(t, err, errNotOpen)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_MigrationVersion(t *testing.T) {
	store := setupTestStore(t)
	v, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// migrating twice is a no-op
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_RecordRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := &Run{Platform: "mysql-8.0.0", Mode: "ANSI_QUOTES", Files: 2, Statements: 5, Failed: 1}
	findings := []Finding{
		{File: "b.sql", StatementIndex: 0, Line: 1, Column: 1, RuleID: "DM01", Severity: "error", Message: "no where"},
		{File: "a.sql", StatementIndex: 3, Line: 4, Column: 2, RuleID: "MD01", Severity: "critical", Message: "bad mode", AutoRepair: "possible"},
		{File: "a.sql", StatementIndex: 1, Line: 2, Column: 1, RuleID: "QR01", Severity: "notice", Message: "star"},
	}
	require.NoError(t, store.RecordRun(ctx, run, findings))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())
	assert.Equal(t, 3, run.Findings)
	for _, f := range findings {
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, run.ID, f.RunID)
	}

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "mysql-8.0.0", got.Platform)
	assert.Equal(t, "ANSI_QUOTES", got.Mode)
	assert.Equal(t, 2, got.Files)
	assert.Equal(t, 5, got.Statements)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 3, got.Findings)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)

	stored, err := store.Findings(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "QR01", stored[0].RuleID)
	assert.Equal(t, "MD01", stored[1].RuleID)
	assert.Equal(t, "possible", stored[1].AutoRepair)
	assert.Equal(t, "DM01", stored[2].RuleID)
	assert.Equal(t, "not_possible", stored[2].AutoRepair)
	assert.Equal(t, 4, stored[1].Line)
	assert.Equal(t, 2, stored[1].Column)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, store.RecordRun(ctx, &Run{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Platform:  "mysql-8.0.0",
		}, nil))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, 0, runs[0].Findings)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStore_UnknownRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.Findings(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_DuplicateRunRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, &Run{ID: "r1", Platform: "mysql-8.0.0"}, nil))
	err := store.RecordRun(ctx, &Run{ID: "r1", Platform: "mysql-8.0.0"},
		[]Finding{{RuleID: "X", Severity: "error", Message: "m"}})
	require.Error(t, err)

	stored, err := store.Findings(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSQLiteStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	require.NoError(t, store.RecordRun(ctx, &Run{ID: "persisted", Platform: "mariadb-10.6.0"}, nil))
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	t.Cleanup(func() { _ = reopened.Close() })
	require.NoError(t, reopened.Migrate())

	run, err := reopened.GetRun(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "mariadb-10.6.0", run.Platform)
}
