package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
)

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Runtime{LogLevel: "info", LogFormat: "text"}, false)

	logger.Info("render complete", "path", "out.png")
	assert.Contains(t, buf.String(), "render complete")
	assert.Contains(t, buf.String(), "out.png")
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Runtime{LogLevel: "info", LogFormat: "json"}, false)

	logger.Info("render complete")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "render complete", rec["msg"])
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Runtime{LogLevel: "warn", LogFormat: "text"}, false)

	logger.Info("suppressed")
	assert.Empty(t, buf.String())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Runtime{LogLevel: "error", LogFormat: "text"}, true)

	logger.Debug("barb spacing", "levels", 40)
	assert.Contains(t, buf.String(), "barb spacing")
}
