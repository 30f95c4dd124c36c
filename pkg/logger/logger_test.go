package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("bogus"))
}

func TestInitializeDefaultsComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: InfoLevel}, &buf))
	assert.Equal(t, DefaultComponent, defaultLogger.config.Component)

	assert.Error(t, InitializeWithWriter(Config{}, nil))
}

func TestPrettyFormattingSortsFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: InfoLevel, Component: "test"}, &buf))

	Info("wrote manifest", String("file", "package.json"), Int("bytes", 42), Bool("changed", true))

	out := buf.String()
	assert.Contains(t, out, "[INFO] test: wrote manifest")
	assert.Contains(t, out, "{bytes=42, changed=true, file=package.json}")
}

func TestPrettyFormattingDryRunMarker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: InfoLevel, DryRun: true}, &buf))

	Info("preview")
	assert.Contains(t, buf.String(), "[DRY-RUN] preview")
}

func TestJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: InfoLevel, JSON: true}, &buf))

	Warn("no stylesheets found", String("dir", "src"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "no stylesheets found", entry.Message)
	assert.Equal(t, DefaultComponent, entry.Component)
	assert.Equal(t, "src", entry.Fields["dir"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: WarnLevel}, &buf))

	Debug("hidden")
	Info("hidden")
	Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestDebugIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: TraceLevel}, &buf))

	Debug("caller")
	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestErrField(t *testing.T) {
	f := Err(errors.New("boom"))
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "boom", f.Value)

	assert.Nil(t, Err(nil).Value)
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, InitializeWithWriter(Config{Level: InfoLevel}, &first))

	SetOutput(&second)
	Info("redirected")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "redirected")
}
