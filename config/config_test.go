package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
data_file: /srv/library/data.json
backup_dir: /srv/library/backup
log:
  level: debug
  format: json
`)
	t.Setenv("LIBRARY_BACKUP_DIR", "/mnt/backups")
	t.Setenv("LIBRARY_LOCALE", "fa-IR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/library/data.json", cfg.DataFile)
	assert.Equal(t, "/mnt/backups", cfg.BackupDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	tag, err := cfg.Language()
	require.NoError(t, err)
	base, _ := tag.Base()
	assert.Equal(t, "fa", base.String())
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "data_file: elsewhere.json\n")
	t.Setenv(FileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.json", cfg.DataFile)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "log: [unclosed"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	require.ErrorContains(t, err, "log level")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DataFile = " "
	cfg.Log.Format = "xml"
	cfg.Locale = "not a locale!"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "data file")
	assert.ErrorContains(t, err, "log format")
	assert.ErrorContains(t, err, "locale")

	tag, err := Default().Language()
	require.NoError(t, err)
	assert.Equal(t, language.English.String(), tag.String())
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LIBRARY_DATA_FILE=from-dotenv.json\nLIBRARY_BACKUP_DIR=dotenv-backups\n"), 0o644))

	t.Setenv("LIBRARY_DATA_FILE", "from-env.json")
	// Register cleanup for a variable the file will set, then clear it.
	t.Setenv("LIBRARY_BACKUP_DIR", "")
	require.NoError(t, os.Unsetenv("LIBRARY_BACKUP_DIR"))

	LoadEnvFiles(envFile, filepath.Join(dir, ".env.local"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.DataFile)
	assert.Equal(t, "dotenv-backups", cfg.BackupDir)
}
