package logplus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Station-Manager/logplus/internal/callstack"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func decodeOne(t *testing.T, buf *bytes.Buffer) logEntry {
	t.Helper()
	var entry logEntry
	require.NoError(t, json.NewDecoder(buf).Decode(&entry))
	return entry
}

type color int

func (c color) String() string { return fmt.Sprintf("color-%d", int(c)) }

func TestLogEvent_AllFields(t *testing.T) {
	l, buf := newTestLogger(t, "fields")
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	l.InfoWith().
		Str("str", "v").
		Strs("strs", []string{"a", "b"}).
		Int("int", 7).
		Int64("int64", 64).
		Uint64("uint64", 99).
		Float64("float", 1.5).
		Bool("bool", true).
		Time("at", ts).
		Dur("dur", 1500*time.Millisecond).
		AnErr("cause", errors.New("bad input")).
		Stringer("color", color(3)).
		Interface("map", map[string]int{"k": 1}).
		Msgf("processed %d items", 3)

	entry := decodeOne(t, buf)
	assert.Equal(t, "info", entry[zerolog.LevelFieldName])
	assert.Equal(t, "processed 3 items", strings.TrimLeft(entry[zerolog.MessageFieldName].(string), " "))
	assert.Equal(t, "v", entry["str"])
	assert.Equal(t, []any{"a", "b"}, entry["strs"])
	assert.Equal(t, 7.0, entry["int"])
	assert.Equal(t, 64.0, entry["int64"])
	assert.Equal(t, 99.0, entry["uint64"])
	assert.Equal(t, 1.5, entry["float"])
	assert.Equal(t, true, entry["bool"])
	assert.Equal(t, "2024-03-01T12:00:00Z", entry["at"])
	assert.Equal(t, 1500.0, entry["dur"])
	assert.Equal(t, "bad input", entry["cause"])
	assert.Equal(t, "color-3", entry["color"])
	assert.Equal(t, map[string]any{"k": 1.0}, entry["map"])
}

func TestLogEvent_ErrAndSend(t *testing.T) {
	l, buf := newTestLogger(t, "events")
	inner := errors.New("connection refused")
	outer := fmt.Errorf("startup failed: %w", inner)

	l.ErrorWith().Err(outer).Str("op", "start").Send()

	entry := decodeOne(t, buf)
	assert.Equal(t, "error", entry[zerolog.LevelFieldName])
	assert.Equal(t, outer.Error(), entry[zerolog.ErrorFieldName])
	assert.Equal(t, "connection refused", entry["error_root"])
	assert.Equal(t, "start", entry["op"])
	assert.NotContains(t, entry, "error_ops")
}

func TestLogEvent_MsgfAlwaysFormats(t *testing.T) {
	l, buf := newTestLogger(t, "events")

	l.InfoWith().Msgf("done 100%%")
	l.InfoWith().Msg("raw 100%%")

	lines := readLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "done 100%", strings.TrimLeft(lines[0].Message, " "))
	assert.Equal(t, "raw 100%%", strings.TrimLeft(lines[1].Message, " "))
}

func TestLogEvent_Disabled(t *testing.T) {
	m := NewManager(zerolog.WarnLevel)
	var buf bytes.Buffer
	m.Root().AddSink(newJSONSink(&buf, zerolog.DebugLevel))
	l := m.GetLogger("quiet")

	ev := l.DebugWith()
	assert.Nil(t, ev)
	assert.NotPanics(t, func() {
		ev.Str("k", "v").Int("n", 1).Err(errors.New("x")).Msg("dropped")
		ev.Msgf("dropped %d", 1)
		ev.Send()
	})
	l.InfoWith().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.WarnWith().Msg("kept")
	assert.Len(t, readLines(t, &buf), 1)
}

//go:noinline
func eventAtDepth(l *Logger) {
	l.DebugWith().Int("n", 1).Msg("nested")
}

func TestLogEvent_IndentFromFinishingCall(t *testing.T) {
	l, buf := newTestLogger(t, "indent")
	eventAtDepth(l)

	lines := readLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, DefaultIndentWidth*(callstack.Depth(0)+1), leadingSpaces(lines[0].Message))
}
