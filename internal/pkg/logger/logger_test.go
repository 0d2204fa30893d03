package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	c := Component("projects")
	c.Warn().Str("id", "42").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "projects", entry["component"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "42", entry["id"])
}
