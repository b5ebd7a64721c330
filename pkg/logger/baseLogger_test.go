package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerPrefixesAndLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[Importer]")

	l.Log("created %d", 3)
	l.Debug("hidden %s", "debug")
	l.Error("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "[Importer] created 3")
	assert.Contains(t, out, "[Importer] failed: boom")
	assert.NotContains(t, out, "hidden")

	l.SetPrefix("[Runner]")
	l.Log("moved")
	assert.Contains(t, buf.String(), "[Runner] moved")
	assert.NotPanics(t, func() { _ = l.Sync() })
}

func TestSetLevelAffectsExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[X]")
	t.Cleanup(func() { _ = SetLevel("info") })

	l.Debug("before")
	require.NoError(t, SetLevel("debug"))
	l.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.Error(t, SetLevel("loud"))
}
