package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "prolog", cfg.Target)
	assert.Equal(t, "the_kb", cfg.DefaultKB)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Store.Persist)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`language: fr
target: prolog
store:
  persist: true
  path: /tmp/dicts.db
eval:
  timeout: 5s
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Language)
	assert.True(t, cfg.Store.Persist)
	assert.Equal(t, "/tmp/dicts.db", cfg.Store.Path)
	assert.Equal(t, "5s", cfg.Eval.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: klingon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eval:\n  timeout: soon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid eval timeout")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOGICLE_LANGUAGE", "it")
	t.Setenv("LOGICLE_STORE_PATH", "/tmp/override.db")
	t.Setenv("LOGICLE_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "it", cfg.Language)
	assert.Equal(t, "/tmp/override.db", cfg.Store.Path)
	assert.True(t, cfg.Store.Persist)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Language = "es"
	cfg.Store.Persist = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEvalTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "30s", cfg.Eval.Timeout)

	cfg.Eval.Timeout = "bogus"
	assert.Equal(t, int64(30), int64(cfg.EvalTimeout().Seconds()))

	cfg.Eval.Timeout = "2m"
	assert.Equal(t, int64(120), int64(cfg.EvalTimeout().Seconds()))
}
