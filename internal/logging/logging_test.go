package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("debug", "json", &buf)
	require.NoError(t, err)

	logger.Debug().Str("port", "COM3").Msg("Connect requested")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tribo-console", entry["service"])
	assert.Equal(t, "COM3", entry["port"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup("loud", "json", nil)
	assert.Error(t, err)
}
