package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	l := NewTo(&buf, "info", "text")
	l.Info("render failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")

	buf.Reset()
	l = NewTo(&buf, "info", "json")
	l.Info("x", "error", "boom")
	assert.Contains(t, buf.String(), `"err":"boom"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
