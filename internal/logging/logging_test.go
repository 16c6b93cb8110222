package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := NewWriter("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("run complete", zap.Int("trades", 3))
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run complete", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(3), line["trades"])
	assert.Contains(t, line, "time")
}

func TestNewWriterConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := NewWriter("debug", "console", &buf)
	require.NoError(t, err)

	log.Debug("replayed", zap.String("code", "7203"))
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), `{"code": "7203"}`)
}

func TestNewWriterErrors(t *testing.T) {
	t.Parallel()

	_, err := NewWriter("loud", "json", &bytes.Buffer{})
	assert.ErrorContains(t, err, "log level")

	_, err = NewWriter("info", "xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "log format")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, expect := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, expect, got, in)
	}
}
