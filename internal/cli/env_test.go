package cli

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFrom_Defaults(t *testing.T) {
	e, err := LoadEnvFrom(map[string]string{})
	require.NoError(t, err)

	assert.Empty(t, e.Database)
	assert.Equal(t, "warn", e.LogLevel)
	assert.True(t, e.Telemetry.Enabled)
	assert.Empty(t, e.Telemetry.Endpoint)
}

func TestLoadEnvFrom_Values(t *testing.T) {
	e, err := LoadEnvFrom(map[string]string{
		"CAMOD_DB":            "/tmp/camod.db",
		"CAMOD_LOG_LEVEL":     "debug",
		"CAMOD_OTEL_ENDPOINT": "localhost:4317",
		"CAMOD_OTEL_ENABLED":  "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/camod.db", e.Database)
	assert.Equal(t, "debug", e.LogLevel)
	assert.Equal(t, "localhost:4317", e.Telemetry.Endpoint)
	assert.False(t, e.Telemetry.Enabled)
}

func TestLoadEnvFrom_InvalidBool(t *testing.T) {
	_, err := LoadEnvFrom(map[string]string{"CAMOD_OTEL_ENABLED": "maybe"})
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"verbose wins", true, "error", slog.LevelDebug, false},
		{"empty", false, "", slog.LevelWarn, false},
		{"lower case", false, "info", slog.LevelInfo, false},
		{"upper case", false, "ERROR", slog.LevelError, false},
		{"unknown", false, "loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logLevel(tt.verbose, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
