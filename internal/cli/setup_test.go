package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_DBFlagOnly(t *testing.T) {
	cfg, err := resolveConfig(&RootOptions{Database: "direct.db"})
	require.NoError(t, err)
	assert.Equal(t, "direct.db", cfg.Database)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestResolveConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: from-file.db
smtp:
  host: mail.example.com
  port: 587
  from: noreply@example.com
`), 0o600))

	cfg, err := resolveConfig(&RootOptions{Config: path})
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Database)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestResolveConfig_DBFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: from-file.db\n"), 0o600))

	cfg, err := resolveConfig(&RootOptions{Config: path, Database: "override.db"})
	require.NoError(t, err)
	assert.Equal(t, "override.db", cfg.Database)
}

func TestResolveConfig_NoDatabase(t *testing.T) {
	_, err := resolveConfig(&RootOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveConfig_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed\n"), 0o600))

	_, err := resolveConfig(&RootOptions{Config: path})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	st, cfg, err := openStore(&RootOptions{Database: dbPath})
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, dbPath, cfg.Database)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestOpenStore_UnwritablePath(t *testing.T) {
	_, _, err := openStore(&RootOptions{Database: filepath.Join(t.TempDir(), "no", "dir", "x.db")})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
