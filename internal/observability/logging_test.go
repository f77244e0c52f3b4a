package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/wtii/internal/config"
)

func logFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "logs", "wtii.log")
}

func TestNewLogger_JSON(t *testing.T) {
	path := logFile(t)
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Info("encounter started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"encounter started"`)
}

func TestNewLogger_Console(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "console", File: logFile(t)})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_LevelFilters(t *testing.T) {
	path := logFile(t)
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", File: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json", File: logFile(t)})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml", File: logFile(t)})
	assert.Error(t, err)
}
