package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overrides fields", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "log.toml")
		require.NoError(t, os.WriteFile(path, []byte("level = \"debug\"\nencoding = \"json\"\n"), 0o644))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "json", cfg.Encoding)
		assert.Equal(t, DefaultConfig().TimeFormat, cfg.TimeFormat, "unset fields keep defaults")
	})

	t.Run("malformed file fails", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("level = [not toml"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("builds from defaults", func(t *testing.T) {
		t.Parallel()
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, log)
		log.Info("hello")
	})

	t.Run("rejects a bad level", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Level = "noisy"
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects a bad time format", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.TimeFormat = "%Q"
		_, err := New(cfg)
		assert.Error(t, err)
	})
}
