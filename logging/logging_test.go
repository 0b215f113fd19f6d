package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-blog-server/logging"
)

func TestLevelValidate(t *testing.T) {
	for _, l := range []logging.Level{logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError} {
		assert.NoError(t, l.Validate(), string(l))
	}
	assert.Error(t, logging.Level("verbose").Validate())
}

func TestLevelToSlog(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.LevelDebug.ToSlogLevel())
	assert.Equal(t, slog.LevelWarn, logging.LevelWarn.ToSlogLevel())
	assert.Equal(t, slog.LevelError, logging.LevelError.ToSlogLevel())
	assert.Equal(t, slog.LevelInfo, logging.Level("bogus").ToSlogLevel())
}

func TestFormatValidate(t *testing.T) {
	assert.NoError(t, logging.FormatText.Validate())
	assert.NoError(t, logging.FormatJSON.Validate())
	assert.Error(t, logging.Format("xml").Validate())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Info("server listening", "addr", ":3000")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server listening", entry["msg"])
	assert.Equal(t, ":3000", entry["addr"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &buf)

	logger.Debug("visible", "key", "value")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "key=value")
}
