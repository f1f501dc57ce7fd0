package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})
	Component(l, "store").Info("fetched", "count", 3)
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "fetched", entry["msg"])
	assert.Equal(t, "store", entry["component"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.log")
	l, c, err := OpenFile(path, slog.LevelDebug, FormatText)
	require.NoError(t, err)
	l.Debug("hello", "k", "v")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=hello")
	assert.Contains(t, string(b), "k=v")
}

func TestComponent_NilLogger(t *testing.T) {
	assert.NotNil(t, Component(nil, "x"))
}
