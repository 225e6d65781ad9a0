package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/pipeline"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// Object is a parsed schema object.
type Object struct {
	Kind      Kind
	Name      string
	Source    string
	Statement core.Stmt
}

// Loader fetches object sources and parses them.
type Loader struct {
	Provider SourceProvider
	Platform platform.Platform
	// Mode is the SQL mode sources are parsed under. The platform default
	// is used when zero.
	Mode   sqlmode.Mode
	Logger *slog.Logger
}

// NewLoader creates a Loader for p.
func NewLoader(provider SourceProvider, p platform.Platform, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{Provider: provider, Platform: p, Logger: logger}
}

// Load fetches and parses one object. A missing object returns
// (nil, false, nil).
func (l *Loader) Load(ctx context.Context, kind Kind, name string) (*Object, bool, error) {
	src, err := Source(ctx, l.Provider, kind, name)
	if errors.Is(err, ErrNotFound) {
		l.logger().Debug("object not found", "kind", string(kind), "name", name)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	stmt, err := l.parse(src)
	if err != nil {
		return nil, false, fmt.Errorf("%s %s: %w", kind, name, err)
	}
	return &Object{Kind: kind, Name: name, Source: src, Statement: stmt}, true, nil
}

// LoadTable loads a table definition.
func (l *Loader) LoadTable(ctx context.Context, name string) (*core.CreateTableStmt, bool, error) {
	obj, ok, err := l.Load(ctx, KindTable, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	stmt, isTable := obj.Statement.(*core.CreateTableStmt)
	if !isTable {
		return nil, false, fmt.Errorf("table %s: source is not a CREATE TABLE statement", name)
	}
	return stmt, true, nil
}

// LoadSchema loads a schema definition.
func (l *Loader) LoadSchema(ctx context.Context, name string) (*core.CreateDatabaseStmt, bool, error) {
	obj, ok, err := l.Load(ctx, KindSchema, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	stmt, isSchema := obj.Statement.(*core.CreateDatabaseStmt)
	if !isSchema {
		return nil, false, fmt.Errorf("schema %s: source is not a CREATE DATABASE statement", name)
	}
	return stmt, true, nil
}

func (l *Loader) parse(src string) (core.Stmt, error) {
	p := l.Platform
	if p == (platform.Platform{}) {
		p = platform.Default()
	}
	var opts []session.Option
	if l.Mode != 0 {
		opts = append(opts, session.WithMode(l.Mode))
	}
	sess, err := session.New(p, opts...)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.New(sess, nil, pipeline.WithLogger(l.logger())).AnalyzeSingle(src)
	if err != nil {
		return nil, err
	}
	if errs := res.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse source: %w", errors.Join(errs...))
	}
	return res.Statement, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
