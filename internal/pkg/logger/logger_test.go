package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSettings(t *testing.T) {
	cfg := FromSettings("DEBUG", "pretty")
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.True(t, cfg.Pretty)

	cfg = FromSettings("warn", "json")
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.False(t, cfg.Pretty)
}

func TestConfigureAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log := Component("groups")
	log.Info().Int64("groupID", 7).Msg("schedule replaced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "groups", entry["component"])
	assert.Equal(t, "schedule replaced", entry["message"])
	assert.Equal(t, float64(7), entry["groupID"])
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	for _, level := range []LogLevel{"", "verbose"} {
		Configure(Config{Level: level, Output: &buf})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "level %q", level)
	}

	Configure(Config{Level: ErrorLevel, Output: &buf})
	Warn().Msg("dropped")
	assert.Zero(t, buf.Len())
}
