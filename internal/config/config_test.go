package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.Empty(t, config.Validate(cfg))
	require.Equal(t, "memory", cfg.Storage.Driver)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "postgres"
	errs := config.Validate(cfg)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "storage.driver")
}

func TestValidateRequiresPathForSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "sqlite"
	errs := config.Validate(cfg)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "storage.path")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "verbose"
	errs := config.Validate(cfg)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "logging.level")
}

func TestLoadMissingFileReturnsErrFileNotFound(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestLoadParsesTOMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[storage]
driver = "sqlite"
path = "/tmp/gobj/store.db"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, "/tmp/gobj/store.db", cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Unset sections keep their defaults.
	require.Equal(t, 3, cfg.Index.KeywordMinLength)
}
