package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/config"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	out, err := execute(t, NewInitCommand(), testConfig(t), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created mysqlint.yaml")
	assert.Contains(t, out, "created .gitignore")
	assert.Contains(t, out, "mysqlint project initialized!")

	for _, f := range []string{"mysqlint.yaml", ".gitignore", "schema/app/schema.sql", "schema/app/tables/users.sql"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName), nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql-8.0.0", cfg.Platform)
	assert.Equal(t, "app", cfg.Schema)
	assert.Equal(t, "schema", cfg.SchemaDir)
}

func TestInit_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("platform: mariadb\n"), 0600))

	_, err := execute(t, NewInitCommand(), testConfig(t), "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "platform: mariadb\n", string(b))

	_, err = execute(t, NewInitCommand(), testConfig(t), "", dir, "--force")
	require.NoError(t, err)
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "platform: mysql-8.0.0")
}

func TestInit_KeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	users := filepath.Join(dir, "schema", "app", "tables", "users.sql")
	require.NoError(t, os.MkdirAll(filepath.Dir(users), 0750))
	require.NoError(t, os.WriteFile(users, []byte("CREATE TABLE users (id INT);"), 0600))

	out, err := execute(t, NewInitCommand(), testConfig(t), "", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "users.sql")

	b, err := os.ReadFile(users)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE users (id INT);", string(b))
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, ".gitignore", targetName("gitignore"))
	assert.Equal(t, "sub/.gitignore", targetName("sub/gitignore"))
	assert.Equal(t, "schema/app/schema.sql", targetName("schema/app/schema.sql"))
}
