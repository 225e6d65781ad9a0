package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a mysqlint.yaml and schema directory",
		Long: `Set up a directory for mysqlint.

Writes mysqlint.yaml with the default settings, a schema/ tree holding an
example schema and table definition, and a .gitignore for the .mysqlint/
state directory. Files that already exist are kept; an existing
mysqlint.yaml is an error unless --force is given.`,
		Example: `  mysqlint init
  mysqlint init db
  mysqlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")
	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	switch _, err := os.Stat(cfgPath); {
	case err == nil && !force:
		return fmt.Errorf("%s already exists. Use --force to overwrite", cfgPath)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	written, err := scaffold("minimal", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	cmdCtx.Logger.Debug("scaffolded project", "dir", dir, "files", len(written))

	r := cmdCtx.Renderer
	s := r.Styles()
	for _, f := range written {
		r.Printf("  %s %s\n", s.Success.Render("created"), f)
	}
	r.Printf("\n%s\n\n", s.Success.Render("mysqlint project initialized!"))
	r.Println("Next: set platform and sql_mode in " + config.ConfigFileName +
		", then run 'mysqlint analyze <script.sql>' and 'mysqlint doctor'.")
	return nil
}
