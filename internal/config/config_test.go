package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  decision_timeout: 60
  idle_timeout: 10
  ante: 1.0
  default_buy_in: 50
  min_buy_in: 10
  max_buy_in: 200
  max_players: 6
  nothing_rounds: 2
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 60, cfg.Game.DecisionTimeout)
	assert.Equal(t, 10, cfg.Game.IdleTimeout)
	assert.InDelta(t, 1.0, cfg.Game.Ante, 1e-9)
	assert.InDelta(t, 50, cfg.Game.DefaultBuyIn, 1e-9)
	assert.Equal(t, 6, cfg.Game.MaxPlayers)
	assert.Equal(t, 2, cfg.Game.NothingRounds)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")
	err := os.WriteFile(configPath, []byte("invalid: yaml: :::"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	content := `{}`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1780, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Game.DecisionTimeout)
	assert.Equal(t, 5, cfg.Game.IdleTimeout)
	assert.InDelta(t, 0.50, cfg.Game.Ante, 1e-9)
	assert.InDelta(t, 20, cfg.Game.DefaultBuyIn, 1e-9)
	assert.InDelta(t, 5, cfg.Game.MinBuyIn, 1e-9)
	assert.InDelta(t, 100, cfg.Game.MaxBuyIn, 1e-9)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 3, cfg.Game.NothingRounds)
	assert.Equal(t, 1000, cfg.Server.MaxConnections)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 5, cfg.Security.ConnLimit.MaxPerSecond)
	assert.Equal(t, 20, cfg.Security.MsgPerSecond)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1780, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Game.DecisionTimeout)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
}

func TestGameConfig_DurationMethods(t *testing.T) {
	t.Parallel()

	cfg := &GameConfig{
		DecisionTimeout: 30,
		IdleTimeout:     5,
	}

	assert.Equal(t, 30*time.Second, cfg.DecisionTimeoutDuration())
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeoutDuration())

	conn := &ConnLimitConfig{BanMinutes: 10}
	assert.Equal(t, 10*time.Minute, conn.BanDuration())
}
