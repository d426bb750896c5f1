package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"":        Info,
		"warning": Warn,
		"Error":   Error,
		"fatal":   Fatal,
	}

	for input, expected := range tests {
		level, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := Parse("loud")
	assert.Error(t, err)
}

func TestLogger_FiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("sink", WithWriter(&buf), WithLevel(Warn))

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  [sink] shown 3")
	assert.Contains(t, out, "ERROR [sink] shown 4")
	assert.NotContains(t, out, "\033[")
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("vinyl", WithWriter(&buf), WithJSON())

	l.Info("wrote %s", "a.txt")

	var entry logEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "vinyl", entry.Service)
	assert.Equal(t, "wrote a.txt", entry.Message)
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("vinyl", WithWriter(&buf)).Named("memory")

	l.Info("ready")
	assert.Contains(t, buf.String(), "[vinyl/memory] ready")

	var other bytes.Buffer
	anon := NewLogger("", WithWriter(&other)).Named("sqlite")
	anon.Info("ready")
	assert.Contains(t, other.String(), "[sqlite] ready")
}

func TestLogger_Fatal(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("", WithWriter(&buf))

	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL boom")
}

func TestLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vinyl.log")
	l := NewLogger("vinyl", WithoutTerminal(), WithFile(file))

	l.Info("persisted")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "persisted"))
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogJSON, "true")

	var buf bytes.Buffer
	l, err := FromEnv("env", WithWriter(&buf))
	require.NoError(t, err)

	assert.Equal(t, Error, l.Level)
	assert.True(t, l.JSON)

	t.Setenv(EnvLogLevel, "nope")
	_, err = FromEnv("env")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	l.Fatal("not exiting")
}
