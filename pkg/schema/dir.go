package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirProvider reads object sources from a directory tree:
//
//	<root>/<schema>/schema.sql
//	<root>/<schema>/tables/<name>.sql
//	<root>/<schema>/views/<name>.sql      (likewise events, functions,
//	                                       procedures and triggers)
//	<root>/users/<name>.sql
type DirProvider struct {
	Root string
	// DefaultSchema is used for unqualified names.
	DefaultSchema string
}

var _ SourceProvider = (*DirProvider)(nil)

// NewDirProvider creates a DirProvider rooted at root.
func NewDirProvider(root, defaultSchema string) *DirProvider {
	return &DirProvider{Root: root, DefaultSchema: defaultSchema}
}

func (d *DirProvider) path(kind Kind, name string) (string, error) {
	switch kind {
	case KindSchema:
		return filepath.Join(d.Root, name, "schema.sql"), nil
	case KindUser:
		return filepath.Join(d.Root, "users", name+".sql"), nil
	}
	schema, object := splitName(name, d.DefaultSchema)
	if schema == "" {
		return "", fmt.Errorf("%s %s: no schema given and no default schema", kind, name)
	}
	return filepath.Join(d.Root, schema, string(kind)+"s", object+".sql"), nil
}

func (d *DirProvider) read(ctx context.Context, kind Kind, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%s %q: invalid name", kind, name)
	}
	path, err := d.path(kind, name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", notFound(kind, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s: %w", kind, name, err)
	}
	return string(data), nil
}

// SchemaSource implements SourceProvider.
func (d *DirProvider) SchemaSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindSchema, name)
}

// TableSource implements SourceProvider.
func (d *DirProvider) TableSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindTable, name)
}

// ViewSource implements SourceProvider.
func (d *DirProvider) ViewSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindView, name)
}

// EventSource implements SourceProvider.
func (d *DirProvider) EventSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindEvent, name)
}

// FunctionSource implements SourceProvider.
func (d *DirProvider) FunctionSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindFunction, name)
}

// ProcedureSource implements SourceProvider.
func (d *DirProvider) ProcedureSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindProcedure, name)
}

// TriggerSource implements SourceProvider.
func (d *DirProvider) TriggerSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindTrigger, name)
}

// UserSource implements SourceProvider.
func (d *DirProvider) UserSource(ctx context.Context, name string) (string, error) {
	return d.read(ctx, KindUser, name)
}
