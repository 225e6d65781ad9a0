package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/mysqlint/internal/config"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules"
)

// ruleGroup is a section of the rules page.
type ruleGroup struct {
	name, title, summary string
	rules                []core.RuleInfo
}

// ruleGroups returns the documented groups in page order, each holding
// its registered rules sorted by ID.
func ruleGroups() []*ruleGroup {
	groups := []*ruleGroup{
		{name: "variables", title: "Variables", summary: "System variables: unknown names, read-only variables, scope and value types."},
		{name: "charsets", title: "Charsets", summary: "Character sets and collations the server does not know."},
		{name: "modes", title: "Modes", summary: "sql_mode values the target server does not accept."},
		{name: "convention", title: "Convention", summary: "Statements that run but are likely mistakes."},
	}
	byName := make(map[string]*ruleGroup, len(groups))
	for _, g := range groups {
		byName[g.name] = g
	}
	for _, ri := range lint.AllRules() {
		g, ok := byName[ri.Group]
		if !ok {
			log.Printf("  rule %s has undocumented group %q", ri.ID, ri.Group)
			continue
		}
		g.rules = append(g.rules, ri)
	}
	return groups
}

// generateLintDocs writes docs/linting/index.md and rules.md.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	groups := ruleGroups()
	for name, body := range map[string][]byte{
		"index.md": lintIndex(groups),
		"rules.md": rulesPage(groups),
	} {
		if err := os.WriteFile(filepath.Join(outDir, name), body, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func lintIndex(groups []*ruleGroup) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Linting", "Statement checks for MySQL and MariaDB scripts")
	w.GeneratedMarker()

	w.Header(1, "Linting")
	w.Paragraph(fmt.Sprintf("mysqlint checks each statement against the session it runs in with %s.",
		Bold(fmt.Sprintf("%d rules", lint.Count()))))

	w.Header(2, "Severity Levels")
	w.Table([]string{"Severity", "Meaning"}, [][]string{
		{InlineCode(core.SeverityCritical.String()), "The statement fails; its session effects are not applied"},
		{InlineCode(core.SeverityError.String()), "The server would likely reject or misread the statement"},
		{InlineCode(core.SeveritySkipNotice.String()), "A notice hidden by --skip-notices"},
		{InlineCode(core.SeverityNotice.String()), "Informational feedback"},
	})

	w.Header(2, "Configuration")
	w.Paragraph("Rules are tuned in the lint section of " + InlineCode(config.ConfigFileName) + ":")
	w.CodeBlock("yaml", `lint:
  disabled: [NM01]
  severity:
    DM01: critical
  rules:
    QR01:
      allow_qualified: false`)

	w.Header(2, "Rule Groups")
	var rows [][]string
	for _, g := range groups {
		if len(g.rules) == 0 {
			continue
		}
		ids := make([]string, len(g.rules))
		for i, ri := range g.rules {
			ids[i] = ri.ID
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/linting/rules#%s)", g.title, g.name),
			strings.Join(ids, ", "),
			g.summary,
		})
	}
	w.Table([]string{"Group", "Rules", "Description"}, rows)
	return w.Bytes()
}

func rulesPage(groups []*ruleGroup) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Lint Rules", "Statement analysis rules for mysqlint")
	w.GeneratedMarker()
	w.Header(1, "Lint Rules")

	for _, g := range groups {
		if len(g.rules) == 0 {
			continue
		}
		w.Header(2, fmt.Sprintf("%s {#%s}", g.title, g.name))
		w.Paragraph(g.summary)
		for _, ri := range g.rules {
			writeRule(w, ri)
		}
	}
	return w.Bytes()
}

func writeRule(w *MarkdownWriter, ri core.RuleInfo) {
	w.Header(3, fmt.Sprintf("%s - %s {#%s}", ri.ID, ri.Name, ri.ID))

	meta := Bold("Severity:") + " " + InlineCode(ri.DefaultSeverity.String())
	if len(ri.Kinds) > 0 {
		kinds := make([]string, len(ri.Kinds))
		for i, k := range ri.Kinds {
			kinds[i] = InlineCode(k)
		}
		meta += " " + Bold("Statements:") + " " + strings.Join(kinds, ", ")
	}
	w.Paragraph(meta)
	w.Paragraph(cleanDescription(ri.Description))

	for _, sec := range []struct{ title, lang, body string }{
		{"Why This Matters", "", ri.Rationale},
		{"Bad", "sql", ri.BadExample},
		{"Good", "sql", ri.GoodExample},
		{"How to Fix", "", ri.Fix},
	} {
		if sec.body == "" {
			continue
		}
		w.Header(4, sec.title)
		if sec.lang != "" {
			w.CodeBlock(sec.lang, sec.body)
		} else {
			w.Paragraph(sec.body)
		}
	}

	if len(ri.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph("Options: " + InlineCode(strings.Join(ri.ConfigKeys, ", ")))
	}
	w.Line("---")
	w.Newline()
}
