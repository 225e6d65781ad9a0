package lint

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// AutoRepair tells whether a diagnostic can be fixed mechanically.
type AutoRepair uint8

// Auto-repair states.
const (
	RepairNotPossible AutoRepair = iota
	RepairPossible
	// Repaired means Repairs holds statements that replace the original.
	Repaired
)

func (a AutoRepair) String() string {
	switch a {
	case RepairNotPossible:
		return "not_possible"
	case RepairPossible:
		return "possible"
	case Repaired:
		return "repaired"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AutoRepair) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	// ID is assigned by the Analyzer and is unique within a run.
	ID       uuid.UUID
	RuleID   string
	Severity core.Severity
	Message  string
	Pos      token.Position

	// Statement is the statement the finding is about.
	Statement core.Stmt `json:"-" yaml:"-"`

	AutoRepair AutoRepair
	// Repairs replace Statement when AutoRepair is Repaired.
	Repairs []core.Stmt `json:"-" yaml:"-"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s [%s] %s", d.Pos.Line, d.Pos.Column, d.Severity, d.RuleID, d.Message)
}

// RuleError reports a rule that panicked. Rules are expected to be total, so
// this is a bug in the rule rather than in the SQL being checked.
type RuleError struct {
	RuleID    string
	Statement core.Stmt
	Panic     any
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed on statement at line %d: %v", e.RuleID, e.Statement.Pos().Line, e.Panic)
}

// Unwrap returns the panic value when it is an error.
func (e *RuleError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}
