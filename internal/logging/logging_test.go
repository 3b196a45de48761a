package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func TestConsoleLogger_Prefixes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	logger.Verbose("scanning %s", "data/song_data")
	logger.Info("done")
	logger.Error("file %d failed", 3)

	assert.Equal(t, "[VERBOSE] scanning data/song_data\ndone\n[ERROR] file 3 failed\n", buf.String())
}

func TestConsoleLogger_VerboseDisabled(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false).Verbose("hidden")
	assert.Empty(t, buf.String())
}

func TestConsoleLogger_PercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false).Info("100% loaded")
	assert.Equal(t, "100% loaded\n", buf.String())
}

func TestConsoleLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("line %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 20)
}

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, false)

	logger.Verbose("not emitted")
	logger.Info("%d files found in %s", 2, "data/log_data")
	logger.Error("boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "2 files found in data/log_data", first["message"])
	assert.Equal(t, "sparkload", first["app"])
	assert.Contains(t, first, "time")

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "error", second["level"])
}

func TestJSONLogger_LeavesGlobalTimeFormat(t *testing.T) {
	before := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = before })
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var buf bytes.Buffer
	NewJSONLoggerTo(&buf, false).Info("loaded")
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	stamp, ok := line["time"].(string)
	require.True(t, ok, "time field: %v", line["time"])
	_, err := time.Parse(time.RFC3339Nano, stamp)
	assert.NoError(t, err)
}

func TestJSONLogger_VerboseIsDebug(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLoggerTo(&buf, true).Verbose("detail")
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestNew(t *testing.T) {
	l, err := New("", false)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleLogger{}, l)

	l, err = New("JSON", true)
	require.NoError(t, err)
	assert.IsType(t, &JSONLogger{}, l)

	_, err = New("xml", false)
	assert.True(t, errors.Is(err, sparkload.ErrInvalidConfig))
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.Verbose("a")
	l.Info("b %d", 1)
	l.Error("c")
}
