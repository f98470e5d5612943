package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("stocked %s", "rice")
	log.Warn("low %s", "milk")
	log.Error("failed %s", "save")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INF] ")
	assert.Contains(t, out, "stocked rice")
	assert.Contains(t, out, "[WRN] ")
	assert.Contains(t, out, "[ERR] ")

	buf.Reset()
	log.SetLevel(LevelVerbose)
	log.Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DBG] ")

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Error("silent")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelOff, log.Level())
}

func TestLogger_NilIsSafe(t *testing.T) {
	var log *Logger
	assert.NotPanics(t, func() {
		log.Info("nothing")
		log.Debug("nothing")
	})
}

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]Level{"": LevelNormal, "info": LevelNormal, "debug": LevelVerbose, "OFF": LevelOff} {
		got, err := ParseLevel(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
