package ambaralog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewCustomLogger(&buf, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown 3"))
	assert.True(t, strings.Contains(out, "shown 4"))
}

func TestLevelStringAndParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "NONE", LevelNone.String())
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNoOpLoggerDiscardsEverything(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}
