// Package cli provides the command-line interface for mysqlint.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/cli/commands"
	"github.com/leapstack-labs/mysqlint/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "mysqlint",
		Short: "mysqlint - SQL analyzer for MySQL and MariaDB",
		Long: `mysqlint parses MySQL and MariaDB scripts the way the server would.

Statements are read one at a time with the session state they run in:
DELIMITER changes, SET sql_mode, USE and SET NAMES all affect how the
statements after them are parsed, formatted and checked.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsConfig(cmd) {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := commands.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./mysqlint.yaml)")
	flags.String("platform", "", "Target server: mysql or mariadb, optionally versioned (mariadb-10.11)")
	flags.String("server-version", "", "Server version, overriding the one in --platform")
	flags.String("mode", "", "Starting sql_mode (DEFAULT for the platform default)")
	flags.String("delimiter", "", "Starting statement delimiter")
	flags.String("charset", "", "Starting connection character set")
	flags.String("schema", "", "Starting default schema")
	flags.Bool("quote-all-names", false, "Quote every identifier in normalized output")
	flags.Bool("escape-whitespace", false, "Escape control whitespace in normalized string literals")
	flags.StringP("output", "o", "", "Output format (auto|text|json|yaml)")
	flags.String("state", "", "Path to the run history database")
	flags.String("schema-dir", "", "Directory holding CREATE statements of existing objects")
	flags.Int("concurrency", 0, "Files analyzed at once (default: one per CPU)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions([]string{config.OutputAuto, config.OutputText, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("platform",
		cobra.FixedCompletions([]string{"mysql", "mysql-5.7", "mysql-8.0", "mariadb", "mariadb-10.11"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(
		commands.NewVersionCommand(Version),
		commands.NewAnalyzeCommand(),
		commands.NewFmtCommand(),
		commands.NewModesCommand(),
		commands.NewRulesCommand(),
		commands.NewREPLCommand(),
		commands.NewHistoryCommand(),
		commands.NewSchemaCommand(),
		commands.NewInitCommand(),
		commands.NewDoctorCommand(),
		newCompletionCmd(),
	)

	return rootCmd
}

// skipsConfig reports whether cmd runs without a loaded configuration:
// help and shell completion.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate a shell completion script",
		Long: `Print a completion script for the given shell. Load it for the current
session, for example with: source <(mysqlint completion bash)`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
