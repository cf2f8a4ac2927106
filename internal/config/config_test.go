package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/brain/internal/core/observability/log"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, log.LevelInfo, cfg.Level())
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(write(t, `
log_level: debug
tree: guard.yaml
herd:
  agents: 12
  tick_interval: 50ms
http:
  addr: 127.0.0.1:9000
`))
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, cfg.Level())
	assert.Equal(t, "guard.yaml", cfg.Tree)
	assert.Equal(t, 12, cfg.Herd.Agents)
	assert.Equal(t, 50*time.Millisecond, cfg.Herd.TickInterval)
	assert.Equal(t, 4, cfg.Herd.Shards)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 250.0, cfg.Patrol.Speed)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(write(t, "herd:\n  workers: 3\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Herd.Shards = 0
	cfg.Herd.TickInterval = 0
	cfg.Patrol.Speed = -1

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"loud", "herd.shards", "herd.tick_interval", "patrol.speed"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Equal(t, log.LevelInfo, cfg.Level())
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Herd.Agents)
	assert.Equal(t, 16*time.Millisecond, cfg.Herd.TickInterval)
	assert.Equal(t, [2]float64{-300, 0}, cfg.Patrol.To)
}
