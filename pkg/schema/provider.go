// Package schema fetches the DDL of existing database objects so that
// statements can be checked against them.
//
// A SourceProvider returns CREATE statements as text: DirProvider reads
// them from a directory tree, DBProvider asks a live server with SHOW
// CREATE. Loader parses what a provider returns.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned, possibly wrapped, when an object does not exist.
var ErrNotFound = errors.New("schema: object not found")

// Kind is the type of a schema object.
type Kind string

// Object kinds.
const (
	KindSchema    Kind = "schema"
	KindTable     Kind = "table"
	KindView      Kind = "view"
	KindEvent     Kind = "event"
	KindFunction  Kind = "function"
	KindProcedure Kind = "procedure"
	KindTrigger   Kind = "trigger"
	KindUser      Kind = "user"
)

// Kinds lists every object kind.
var Kinds = []Kind{KindSchema, KindTable, KindView, KindEvent, KindFunction, KindProcedure, KindTrigger, KindUser}

// ParseKind converts a name such as "table" to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// SourceProvider returns the CREATE statement of a named object. Names other
// than schema and user names may be qualified as schema.name. Missing
// objects are reported with an error wrapping ErrNotFound.
type SourceProvider interface {
	SchemaSource(ctx context.Context, name string) (string, error)
	TableSource(ctx context.Context, name string) (string, error)
	ViewSource(ctx context.Context, name string) (string, error)
	EventSource(ctx context.Context, name string) (string, error)
	FunctionSource(ctx context.Context, name string) (string, error)
	ProcedureSource(ctx context.Context, name string) (string, error)
	TriggerSource(ctx context.Context, name string) (string, error)
	UserSource(ctx context.Context, name string) (string, error)
}

// Source dispatches to the provider method for kind.
func Source(ctx context.Context, p SourceProvider, kind Kind, name string) (string, error) {
	switch kind {
	case KindSchema:
		return p.SchemaSource(ctx, name)
	case KindTable:
		return p.TableSource(ctx, name)
	case KindView:
		return p.ViewSource(ctx, name)
	case KindEvent:
		return p.EventSource(ctx, name)
	case KindFunction:
		return p.FunctionSource(ctx, name)
	case KindProcedure:
		return p.ProcedureSource(ctx, name)
	case KindTrigger:
		return p.TriggerSource(ctx, name)
	case KindUser:
		return p.UserSource(ctx, name)
	}
	return "", fmt.Errorf("schema: unknown object kind %q", kind)
}

// splitName splits schema.name. An unqualified name gets defaultSchema.
func splitName(name, defaultSchema string) (schema, object string) {
	if s, o, ok := strings.Cut(name, "."); ok {
		return s, o
	}
	return defaultSchema, name
}

func notFound(kind Kind, name string) error {
	return fmt.Errorf("%s %s: %w", kind, name, ErrNotFound)
}
