package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", "debug", &buf)

	log.Debug().Str("appointment_id", "a1").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "a1", line["appointment_id"])
	assert.Equal(t, "hello", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", "loud", &buf)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
}
