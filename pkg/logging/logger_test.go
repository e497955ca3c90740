package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{" error ", zerolog.ErrorLevel, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_FiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "warn", Output: buf})

	logger := NewLogger("fetch")
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestSetup_UnknownLevelLogsInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "loud", Output: buf})

	logger := NewLogger("api")
	logger.Info().Msg("still here")
	assert.Contains(t, buf.String(), "still here")
}

func TestSetup_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "info", Output: buf, Fields: map[string]string{"network": "testnet"}})

	logger := NewLogger("explorer-client")
	logger.Info().Msg("fetched blocks")

	out := buf.String()
	assert.Contains(t, out, `"network":"testnet"`)
	assert.Contains(t, out, `"component":"explorer-client"`)
	assert.Contains(t, out, "fetched blocks")
}

func TestSetup_NilOutput(t *testing.T) {
	assert.NotPanics(t, func() { Setup(Config{Level: "error"}) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.False(t, cfg.Pretty)
	assert.NotNil(t, cfg.Output)
}
