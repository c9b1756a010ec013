package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLoggerSplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(&out, &errOut, "info", "text")

	logger.Debug("hidden")
	logger.Info("Found declarations", "count", 3)
	logger.Error("failed to build layouts")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "count=3")
	assert.NotContains(t, out.String(), "failed to build layouts")
	assert.Contains(t, errOut.String(), "failed to build layouts")
	assert.NotContains(t, errOut.String(), "Found declarations")
}

func TestNewLoggerJSON(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out, &bytes.Buffer{}, "debug", "json").With("source", "shapes.yaml")
	logger.Debug("Layout", "name", "Point")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "Layout", rec["msg"])
	assert.Equal(t, "Point", rec["name"])
	assert.Equal(t, "shapes.yaml", rec["source"])
}

func TestSetupLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "borshgen.log")
	logger, closers, err := SetupLogger("info", "text", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)
	logger.Info("Schema generation complete")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	_, _, err = SetupLogger("info", "text", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
