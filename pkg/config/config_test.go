package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Depth)
	assert.Equal(t, 500, cfg.NewGroupDelayMS)
	assert.Equal(t, ":4000", cfg.ListenAddr)
}

func TestLoad_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 50\nlisten_addr: \":9000\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Depth)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	// new_group_delay_ms was not set in the file, but Load seeds from
	// Default before unmarshalling, so it keeps the default.
	assert.Equal(t, 500, cfg.NewGroupDelayMS)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/history.yaml")
	assert.Error(t, err)
}

func TestLoadOrDefault_FallsBackOnError(t *testing.T) {
	cfg := LoadOrDefault("/nonexistent/history.yaml")
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HISTORY_DEPTH", "7")
	t.Setenv("HISTORY_GROUP_DELAY_MS", "250")
	t.Setenv("HISTORY_LISTEN_ADDR", ":8080")

	cfg := FromEnv(Default())
	assert.Equal(t, 7, cfg.Depth)
	assert.Equal(t, 250, cfg.NewGroupDelayMS)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestConfig_Engine(t *testing.T) {
	cfg := &Config{Depth: 42, NewGroupDelayMS: 300}
	eng := cfg.Engine()
	assert.Equal(t, 42, eng.Depth)
	assert.Equal(t, 300*time.Millisecond, eng.NewGroupDelay)
}
