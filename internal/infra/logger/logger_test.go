package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestShortCaller(t *testing.T) {
	file := filepath.Join("root", "module", "internal", "app", "playback", "controller.go")
	assert.Equal(t, filepath.Join("playback", "controller.go")+":42", shortCaller(0, file, 42))
	assert.Equal(t, "main.go:7", shortCaller(0, "main.go", 7))
}

func TestNew_FileOutputIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunedeck.log")

	logger, closer, err := New(Config{Output: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info().Msg("filtered out")
	logger.Warn().Str("source", "a.mp3").Msg("engine error")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "engine error", entry["message"])
	assert.Equal(t, "a.mp3", entry["source"])
}

func TestNew_FileOpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "tunedeck.log")

	_, _, err := New(Config{Output: path})
	assert.Error(t, err)
}
