package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// DBProvider reads object sources from a live server with SHOW CREATE.
type DBProvider struct {
	DB *sql.DB
	// DefaultSchema qualifies unqualified names. When empty the
	// connection's current database is used.
	DefaultSchema string
	Logger        *slog.Logger
}

var _ SourceProvider = (*DBProvider)(nil)

// NewDBProvider creates a DBProvider over db.
func NewDBProvider(db *sql.DB, logger *slog.Logger) *DBProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DBProvider{DB: db, Logger: logger}
}

// Server error numbers that mean the object does not exist.
const (
	errBadDB             = 1049 // unknown database
	errNoSuchTable       = 1146
	errSPDoesNotExist    = 1305 // function or procedure
	errTrgDoesNotExist   = 1360
	errEventDoesNotExist = 1539
	errUserOpFailed      = 1396 // SHOW CREATE USER on an unknown account
)

var notFoundErrors = map[int]bool{
	errBadDB:             true,
	errNoSuchTable:       true,
	errSPDoesNotExist:    true,
	errTrgDoesNotExist:   true,
	errEventDoesNotExist: true,
	errUserOpFailed:      true,
}

// errorNumber matches the "Error 1146 (42S02): ..." text of driver errors.
var errorNumber = regexp.MustCompile(`^Error (\d+)`)

func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	m := errorNumber.FindStringSubmatch(err.Error())
	if m == nil {
		return false
	}
	n, _ := strconv.Atoi(m[1])
	return notFoundErrors[n]
}

// quoteName quotes an identifier with backticks.
func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteUser renders user@host as 'user'@'host'.
func quoteUser(name string) string {
	user, host, ok := strings.Cut(name, "@")
	if !ok {
		host = "%"
	}
	q := func(s string) string { return "'" + strings.ReplaceAll(strings.Trim(s, "'"), "'", "''") + "'" }
	return q(user) + "@" + q(host)
}

func (d *DBProvider) qualified(name string) string {
	schema, object := splitName(name, d.DefaultSchema)
	if schema == "" {
		return quoteName(object)
	}
	return quoteName(schema) + "." + quoteName(object)
}

// showCreate runs query and returns its CREATE column.
func (d *DBProvider) showCreate(ctx context.Context, kind Kind, name, query string) (string, error) {
	if d.DB == nil {
		return "", fmt.Errorf("database connection not established")
	}
	d.Logger.Debug("fetching object source", "kind", string(kind), "name", name)

	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		if isNotFound(err) {
			return "", notFound(kind, name)
		}
		return "", fmt.Errorf("failed to fetch %s %s: %w", kind, name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("failed to read columns for %s %s: %w", kind, name, err)
	}
	idx := createColumn(cols)
	if idx < 0 {
		return "", fmt.Errorf("%s %s: no CREATE column in %v", kind, name, cols)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if isNotFound(err) {
				return "", notFound(kind, name)
			}
			return "", fmt.Errorf("failed to fetch %s %s: %w", kind, name, err)
		}
		return "", notFound(kind, name)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return "", fmt.Errorf("failed to scan %s %s: %w", kind, name, err)
	}
	if !values[idx].Valid {
		// SHOW CREATE returns NULL when the account lacks privileges
		return "", fmt.Errorf("%s %s: source is not visible to this account", kind, name)
	}
	return values[idx].String, nil
}

// createColumn finds the column holding the statement text in SHOW CREATE
// output.
func createColumn(cols []string) int {
	for i, c := range cols {
		upper := strings.ToUpper(c)
		if strings.HasPrefix(upper, "CREATE ") || upper == "SQL ORIGINAL STATEMENT" {
			return i
		}
	}
	return -1
}

// SchemaSource implements SourceProvider.
func (d *DBProvider) SchemaSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindSchema, name, "SHOW CREATE DATABASE "+quoteName(name))
}

// TableSource implements SourceProvider.
func (d *DBProvider) TableSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindTable, name, "SHOW CREATE TABLE "+d.qualified(name))
}

// ViewSource implements SourceProvider.
func (d *DBProvider) ViewSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindView, name, "SHOW CREATE VIEW "+d.qualified(name))
}

// EventSource implements SourceProvider.
func (d *DBProvider) EventSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindEvent, name, "SHOW CREATE EVENT "+d.qualified(name))
}

// FunctionSource implements SourceProvider.
func (d *DBProvider) FunctionSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindFunction, name, "SHOW CREATE FUNCTION "+d.qualified(name))
}

// ProcedureSource implements SourceProvider.
func (d *DBProvider) ProcedureSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindProcedure, name, "SHOW CREATE PROCEDURE "+d.qualified(name))
}

// TriggerSource implements SourceProvider.
func (d *DBProvider) TriggerSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindTrigger, name, "SHOW CREATE TRIGGER "+d.qualified(name))
}

// UserSource implements SourceProvider. name is user or user@host.
func (d *DBProvider) UserSource(ctx context.Context, name string) (string, error) {
	return d.showCreate(ctx, KindUser, name, "SHOW CREATE USER "+quoteUser(name))
}
