package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	SetVerbose(false)
	SetJob("")
	SetOutput(os.Stderr)
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var result []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		result = append(result, entry)
	}
	return result
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "test message arg", got[0]["msg"])
	assert.Equal(t, "DEBUG", got[0]["logLevel"])
	assert.Equal(t, AppName, got[0]["appName"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, got[0]["timestamp"])
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("info %d", 1)
	Warn("warn %d", 2)
	Error("error %d", 3)

	got := entries(t, &buf)
	require.Len(t, got, 3)
	assert.Equal(t, "INFO", got[0]["logLevel"])
	assert.Equal(t, "info 1", got[0]["msg"])
	assert.Equal(t, "WARN", got[1]["logLevel"])
	assert.Equal(t, "ERROR", got[2]["logLevel"])
	assert.Equal(t, "error 3", got[2]["msg"])
}

func TestSetJob(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetJob("collect")

	Info("Start")

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "collect", got[0]["jobName"])
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			Info("message %d", n)
		}(i)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
		}(i)
	}
	wg.Wait()

	assert.Len(t, entries(t, &buf), 20)
}
