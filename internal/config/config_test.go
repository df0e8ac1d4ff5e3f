package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, ":8181", cfg.Listen)
		assert.Equal(t, StorageSqlite, cfg.Storage)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("file overrides defaults and env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "listen: \":9000\"\nstorage: postgres\ndb:\n  host: db.internal\n  name: calendar\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("EVENTCAL_DB_HOST", "db.override")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Listen)
		assert.Equal(t, StoragePostgres, cfg.Storage)
		assert.Equal(t, "db.override", cfg.Database.Host)
		assert.Equal(t, "calendar", cfg.Database.Name)
		assert.Equal(t, "eventcal", cfg.Database.Schema)
	})

	t.Run("rejects unknown storage", func(t *testing.T) {
		t.Setenv("EVENTCAL_STORAGE", "redis")

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}
