package core

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		SetLogLevel(LogLevelInfo)
	})

	SetLogLevel(LogLevelInfo)
	LogDebug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetLogLevel(LogLevelDebug)
	LogDebug("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
