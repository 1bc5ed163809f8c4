package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs_RedactsCredentials(t *testing.T) {
	got := sanitizeKVs([]any{"openai_api_key", "sk-123", "topic", "volcanoes", "sentry_dsn", "https://x"})
	assert.Equal(t, []any{"openai_api_key", "[REDACTED]", "topic", "volcanoes", "sentry_dsn", "[REDACTED]"}, got)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	got := sanitizeKVs([]any{"topic", "magnets", "dangling"})
	assert.Equal(t, []any{"topic", "magnets", "dangling"}, got)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "exploratorium.log")
	log, err := New(Options{Mode: "prod", File: path})
	require.NoError(t, err)

	log.Info("generation finished", "tier", "primary", "anthropic_api_key", "sk-ant")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "generation finished"))
	assert.True(t, strings.Contains(out, "[REDACTED]"))
	assert.False(t, strings.Contains(out, "sk-ant"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop().With("component", "test")
	log.Debug("ignored")
	log.Error("ignored", "error", "boom")
}
