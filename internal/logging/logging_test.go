package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HandwritingBoard/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "parseLevel(%q)", tt.input)
	}
}

func TestOpenOutputStd(t *testing.T) {
	w, closer, err := openOutput("stdout")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, os.Stdout, w)

	w, closer, err = openOutput("")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, os.Stderr, w)
}

func TestJSONFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "inkboard.log")
	log, closer, err := New(config.LoggerConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	log.Debug("stroke committed", "points", 12)
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "stroke committed", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, float64(12), entry["points"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	log, closer, err := New(config.LoggerConfig{Level: "warn", Output: path})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "msg=shown")
}
