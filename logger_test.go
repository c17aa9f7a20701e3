package slotmap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for line := range strings.Lines(buf.String()) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestLogger_Grow(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := New[int](WithPageSize(2), WithName("bullets"), WithLogger(logger))
	m.Allocate(1)
	m.Allocate(2)
	m.Allocate(3)

	records := decodeRecords(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "page allocated", records[1]["msg"])
	assert.Equal(t, "bullets", records[1]["container"])
	assert.InDelta(t, 2, records[1]["pages"], 0)
	assert.InDelta(t, 4, records[1]["capacity"], 0)
}

func TestLogger_Violation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil))

	m := New[int](WithLogger(logger))
	s := m.Allocate(1)
	m.Erase(s)
	requireViolation(t, ErrInvalidSlot, func() { m.At(s) })

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1, "info level hides growth")
	rec := records[0]
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "contract violation", rec["msg"])
	assert.Equal(t, "slotmap", rec["container"])
	assert.Equal(t, "at", rec["op"])
	assert.InDelta(t, float64(s.Generation), rec["generation"], 0)
	assert.Contains(t, rec["error"], "invalid slot")
}

func TestLogger_NilFallsBackToNoop(t *testing.T) {
	m := New[int](WithLogger(nil), WithMetricsCollector(nil))
	s := m.Allocate(1)
	assert.Equal(t, 1, *m.At(s))
	requireViolation(t, ErrInvalidSlot, func() { m.At(Slot{}) })
}

func TestLogger_WithLogLevel(t *testing.T) {
	o := applyOptions("slotmap", []Option{WithLogLevel(slog.LevelWarn)})
	assert.True(t, o.logger.Enabled(t.Context(), slog.LevelWarn))
	assert.False(t, o.logger.Enabled(t.Context(), slog.LevelInfo))
}
