package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://127.0.0.1:8000/chat", cfg.Endpoint)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.StrictStatus)
	assert.False(t, cfg.OrderedReplies)
	assert.False(t, cfg.StartVisible)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CHATWIDGET_ENDPOINT", "http://example.test/chat")
	t.Setenv("CHATWIDGET_TIMEOUT", "3s")
	t.Setenv("CHATWIDGET_STRICT_STATUS", "true")
	t.Setenv("CHATWIDGET_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/chat", cfg.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.StrictStatus)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, defaultDBFile, cfg.DBFile)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("CHATWIDGET_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "loud"

	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadAIConfig(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, defaultArkRegion, cfg.AI.Region)

	t.Setenv("CHATWIDGET_ARK_API_KEY", "secret")
	t.Setenv("CHATWIDGET_ARK_MODEL", "doubao-lite")
	t.Setenv("CHATWIDGET_DOCS_DIR", "/srv/docs")

	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, "doubao-lite", cfg.AI.Model)
	assert.Equal(t, defaultArkBaseURL, cfg.AI.BaseURL)
	assert.Equal(t, "/srv/docs", cfg.DocsDir)
}
