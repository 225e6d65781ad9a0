package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/mysqlint/internal/cli"
	"github.com/leapstack-labs/mysqlint/internal/config"
)

// generateCLIDocs writes docs/cli: an overview page plus one page per
// top-level command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range documented(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), body, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documented returns the subcommands that get a page.
func documented(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range parent.Commands() {
		if c.Hidden || !c.IsAvailableCommand() || c.Name() == "help" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for mysqlint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("mysqlint reads MySQL and MariaDB scripts statement by statement, tracking the session each statement runs in. " +
		"The commands below analyze, format and explain scripts.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/mysqlint/cmd/mysqlint@latest")

	w.Header(2, "Commands")
	var commands [][]string
	for _, c := range documented(root) {
		commands = append(commands, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(c.Name()), c.Name()),
			cleanDescription(c.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, commands)

	w.Header(2, "Global Options")
	w.Paragraph("Every command accepts these flags:")
	flagTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Configuration keys can also be set with %s variables, for example %s. Flags win over the environment, which wins over the config file.",
		InlineCode(config.EnvPrefix+"*"), InlineCode(config.EnvPrefix+"SQL_MODE")))
	var env [][]string
	for _, f := range configFields() {
		if !f.Env {
			continue
		}
		env = append(env, []string{InlineCode(config.EnvPrefix + strings.ToUpper(f.Name)), f.Description})
	}
	w.Table([]string{"Variable", "Description"}, env)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Every statement parsed and every check passed"},
		{InlineCode("1"), "A statement failed, a doctor check failed, or the command errored (see stderr)"},
	})
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	body := cmd.Long
	if body == "" {
		body = cmd.Short
	}
	w.Paragraph(body)

	w.Header(2, "Usage")
	w.CodeBlock("bash", usageLine(cmd))

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}

	if subs := documented(cmd); len(subs) > 0 {
		w.Header(2, "Subcommands")
		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, []string{InlineCode(s.Name()), cleanDescription(s.Short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		flagTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w.Bytes()
}

func usageLine(cmd *cobra.Command) string {
	if cmd.HasAvailableSubCommands() {
		return cmd.CommandPath() + " <subcommand> [options]"
	}
	return cmd.UseLine()
}

func flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by all non-blank lines.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first || len(lead) < len(indent) {
			indent, first = lead, false
		}
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, indent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
