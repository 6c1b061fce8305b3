package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestCLIHandler_Enabled(t *testing.T) {
	h := NewCLIHandler(&bytes.Buffer{}, slog.LevelInfo)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestCLIHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCLIHandler(&buf, slog.LevelInfo))

	log.Info("scored profile", "id", "abc", "total", 70)
	out := buf.String()
	assert.Contains(t, out, "scored profile")
	assert.Contains(t, out, "id=abc")
	assert.Contains(t, out, "total=70")
	assert.Contains(t, out, colorGreen)

	buf.Reset()
	log.Error("scoring failed")
	assert.Contains(t, buf.String(), colorRed)

	buf.Reset()
	log.Warn("score drift")
	assert.Contains(t, buf.String(), colorYellow)
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCLIHandler(&buf, slog.LevelInfo)).WithGroup("monitor")

	log.Info("alert raised")
	assert.Contains(t, buf.String(), "[monitor] alert raised")
}
