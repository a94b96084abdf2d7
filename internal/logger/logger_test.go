package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "livelink.log")

	lg, err := New(Config{Level: "debug", File: logFile})
	require.NoError(t, err)
	defer lg.Close()

	zl := lg.GetZerolog()
	zl.Info().Str("event", "test-entry").Msg("hello")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test-entry")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "livelink.log")

	lg, err := New(Config{Level: "shouting", File: logFile})
	require.NoError(t, err)
	defer lg.Close()

	zl := lg.GetZerolog()
	zl.Debug().Msg("should be filtered")
	zl.Info().Msg("should appear")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be filtered")
	assert.Contains(t, string(data), "should appear")
}
