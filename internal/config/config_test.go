package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.ServerURL)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, "none", cfg.CaptionBackend)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SERVER_URL", "http://parish.example.org")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("CAPTION_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "http://parish.example.org", cfg.ServerURL)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "claude", cfg.CaptionBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
}
