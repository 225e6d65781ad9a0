package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register the sqlite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state database", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores run and its findings in one transaction. Missing IDs
// and the start time are filled in.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run, findings []Finding) (err error) {
	if s.db == nil {
		return errNotOpen
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, platform, sql_mode, files, statements, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Platform, run.Mode, run.Files, run.Statements, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (id, run_id, file, statement_index, line, col, rule_id, severity, message, auto_repair)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range findings {
		f := &findings[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.RunID = run.ID
		if f.AutoRepair == "" {
			f.AutoRepair = "not_possible"
		}
		if _, err = stmt.ExecContext(ctx, f.ID, f.RunID, f.File, f.StatementIndex, f.Line, f.Column,
			f.RuleID, f.Severity, f.Message, f.AutoRepair); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	run.Findings = len(findings)

	s.logger.Debug("recorded run",
		slog.String("id", run.ID),
		slog.Int("statements", run.Statements),
		slog.Int("findings", len(findings)))
	return nil
}

const runColumns = `r.id, r.started_at, r.platform, r.sql_mode, r.files, r.statements, r.failed,
	(SELECT COUNT(*) FROM findings f WHERE f.run_id = r.id)`

func scanRun(sc interface{ Scan(...any) error }) (*Run, error) {
	run := &Run{}
	var started int64
	if err := sc.Scan(&run.ID, &started, &run.Platform, &run.Mode, &run.Files, &run.Statements, &run.Failed, &run.Findings); err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpen
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Findings returns the findings of a run in file and statement order.
func (s *SQLiteStore) Findings(ctx context.Context, runID string) ([]*Finding, error) {
	if s.db == nil {
		return nil, errNotOpen
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, file, statement_index, line, col, rule_id, severity, message, auto_repair
		 FROM findings WHERE run_id = ?
		 ORDER BY file, statement_index, line, col, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Finding
	for rows.Next() {
		f := &Finding{}
		if err := rows.Scan(&f.ID, &f.RunID, &f.File, &f.StatementIndex, &f.Line, &f.Column,
			&f.RuleID, &f.Severity, &f.Message, &f.AutoRepair); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	return out, nil
}
