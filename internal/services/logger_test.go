package services

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLogger(&buf, "chat", slog.LevelInfo, true)

	logger.Debug("hidden")
	logger.Info("chat created", "chat_id", 7)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "chat created", entry["msg"])
	assert.Equal(t, "chat", entry["service"])
	assert.Equal(t, float64(7), entry["chat_id"])
}

func TestProductionLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLogger(&buf, "auth", slog.LevelDebug, false)

	logger.Warn("login failed", "email", "a@b.co")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "service=auth")
	assert.Contains(t, buf.String(), "email=a@b.co")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_TestEnvIsSilent(t *testing.T) {
	t.Setenv("ENV", "test")
	_, ok := NewLogger("x").(*NoOpLogger)
	assert.True(t, ok)
}
