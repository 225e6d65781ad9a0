// Package state records analysis runs and their findings in SQLite so that
// results can be compared across invocations.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of the analyzer over a set of files.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	Platform   string    `json:"platform" yaml:"platform"`
	Mode       string    `json:"sql_mode" yaml:"sql_mode"`
	Files      int       `json:"files" yaml:"files"`
	Statements int       `json:"statements" yaml:"statements"`
	Failed     int       `json:"failed" yaml:"failed"`
	// Findings is the number of findings stored with the run.
	Findings int `json:"findings" yaml:"findings"`
}

// Finding is a stored diagnostic.
type Finding struct {
	ID             string `json:"id" yaml:"id"`
	RunID          string `json:"run_id" yaml:"run_id"`
	File           string `json:"file,omitempty" yaml:"file,omitempty"`
	StatementIndex int    `json:"statement" yaml:"statement"`
	Line           int    `json:"line" yaml:"line"`
	Column         int    `json:"column" yaml:"column"`
	RuleID         string `json:"rule_id" yaml:"rule_id"`
	Severity       string `json:"severity" yaml:"severity"`
	Message        string `json:"message" yaml:"message"`
	AutoRepair     string `json:"auto_repair" yaml:"auto_repair"`
}

// Store persists runs.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	RecordRun(ctx context.Context, run *Run, findings []Finding) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Findings(ctx context.Context, runID string) ([]*Finding, error)
}
