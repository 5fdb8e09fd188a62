package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"hicentral-parser-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestSlogAdapterWithFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelInfo, IsJSON: true})

	pageLogger := logger.WithFields(port.Fields{"component": "test", "page": 2})
	pageLogger.Debug("hidden", nil)
	pageLogger.Info("Parsing page", port.Fields{"links": 3})
	pageLogger.Error("Fetch failed", errors.New("boom"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "Parsing page", lines[0]["msg"])
	assert.Equal(t, "test", lines[0]["component"])
	assert.EqualValues(t, 2, lines[0]["page"])
	assert.EqualValues(t, 3, lines[0]["links"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["err"])
}

type recordingPoster struct {
	tags     []string
	messages []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, message.(port.Fields))
	return nil
}

func (r *recordingPoster) Close() error { return nil }

func TestFluentLoggerAdapterFiltersAndMerges(t *testing.T) {
	poster := &recordingPoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelInfo).WithFields(port.Fields{"service_name": "svc"})

	logger.Debug("skipped", nil)
	logger.Warn("slow page", port.Fields{"page": 1})
	logger.Error("failed", errors.New("boom"), nil)

	require.Equal(t, []string{"warn", "error"}, poster.tags)
	assert.Equal(t, "svc", poster.messages[0]["service_name"])
	assert.Equal(t, 1, poster.messages[0]["page"])
	assert.Equal(t, "slow page", poster.messages[0]["message"])
	assert.Equal(t, "boom", poster.messages[1]["error"])
}

func TestNewFluentLoggerAdapterRejectsNilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)
}

func TestMultiloggerFansOut(t *testing.T) {
	var first, second bytes.Buffer
	multi, err := NewMultiloggerAdapter(
		NewSlogAdapter(SlogConfig{Writer: &first, Level: slog.LevelDebug, IsJSON: true}),
		NewSlogAdapter(SlogConfig{Writer: &second, Level: slog.LevelDebug, IsJSON: true}),
	)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"run_id": "abc"}).Info("done", nil)

	for _, buf := range []*bytes.Buffer{&first, &second} {
		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "abc", lines[0]["run_id"])
	}
}

func TestMultiloggerRequiresLogger(t *testing.T) {
	_, err := NewMultiloggerAdapter()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
