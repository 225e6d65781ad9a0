package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/cli/output"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules" // register rules
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var (
		group   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List the lint rules, or document one rule in full.

Rules belong to a group (charsets, convention, modes, variables). Pass a
rule ID to see why it matters, examples and how to fix a finding.`,
		Example: `  mysqlint rules
  mysqlint rules SV03
  mysqlint rules --group variables -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContext(cmd).Renderer
			if len(args) == 1 {
				return describeRule(r, args[0])
			}
			return tabulateRules(r, rulesInGroup(group), verbose)
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Only list rules of this group")
	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Add a description column")
	return cmd
}

// RulesOutput is the structured output of the rule listing.
type RulesOutput struct {
	Rules []core.RuleInfo `json:"rules" yaml:"rules"`
	Count int             `json:"count" yaml:"count"`
}

// rulesInGroup returns the registered rules ordered by group then ID.
func rulesInGroup(group string) []core.RuleInfo {
	rules := slices.DeleteFunc(lint.AllRules(), func(ri core.RuleInfo) bool {
		return group != "" && ri.Group != group
	})
	slices.SortFunc(rules, func(a, b core.RuleInfo) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.ID, b.ID))
	})
	return rules
}

func tabulateRules(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	if done, err := r.Encode(RulesOutput{Rules: rules, Count: len(rules)}); done || err != nil {
		return err
	}

	header := []string{"ID", "Name", "Group", "Severity"}
	if verbose {
		header = append(header, "Description")
	}
	rows := make([][]any, 0, len(rules))
	for _, ri := range rules {
		row := []any{ri.ID, ri.Name, ri.Group, r.Severity(ri.DefaultSeverity)}
		if verbose {
			row = append(row, truncateOneLine(ri.Description, 60))
		}
		rows = append(rows, row)
	}

	s := r.Styles()
	r.Println(s.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Table(header, rows)
	r.Println(s.Muted.Render("Run 'mysqlint rules <rule-id>' for the full documentation of a rule"))
	return nil
}

func describeRule(r *output.Renderer, id string) error {
	rule, ok := lint.GetRuleByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("rule %q not found", id)
	}
	info := lint.GetRuleInfo(rule)
	if done, err := r.Encode(info); done || err != nil {
		return err
	}

	s := r.Styles()
	r.Println(s.Header1.Render(info.ID + " - " + info.Name))
	r.Printf("  Group: %s   Severity: %s\n", info.Group, r.Severity(info.DefaultSeverity))
	if len(info.Kinds) > 0 {
		r.Printf("  Statements: %s\n", strings.Join(info.Kinds, ", "))
	}
	if len(info.ConfigKeys) > 0 {
		r.Printf("  Options: %s\n", strings.Join(info.ConfigKeys, ", "))
	}

	plain := func(strs ...string) string { return strings.Join(strs, " ") }
	sections := []struct {
		title  string
		body   string
		render func(...string) string
	}{
		{"Description", info.Description, plain},
		{"Why This Matters", info.Rationale, plain},
		{"Bad Example", info.BadExample, s.Muted.Render},
		{"Good Example", info.GoodExample, s.Success.Render},
		{"How to Fix", info.Fix, plain},
	}
	for _, sec := range sections {
		if sec.body == "" {
			continue
		}
		r.Println("")
		r.Println(s.Bold.Render(sec.title))
		for line := range strings.SplitSeq(sec.body, "\n") {
			r.Println(sec.render("  " + line))
		}
	}
	return nil
}

// truncateOneLine folds s onto one line of at most maxLen bytes.
func truncateOneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
