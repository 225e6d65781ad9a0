package commands

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/config"
	"github.com/leapstack-labs/mysqlint/internal/testutil"
)

// testConfig returns the default configuration with state kept in a
// temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")
	cfg.Concurrency = 2
	return cfg
}

// execute runs cmd with cfg in its context and returns what it wrote to
// stdout.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := WithConfig(context.Background(), cfg)
	ctx = WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return testutil.NewTestLogger(t)
}
