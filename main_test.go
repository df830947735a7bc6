package logplus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// lumberjack starts its mill goroutine on first write and never
		// stops it, Close included.
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

type logLine struct {
	Level        string   `json:"level"`
	Logger       string   `json:"logger"`
	Message      string   `json:"message"`
	Error        string   `json:"error"`
	ErrorChain   []string `json:"error_chain"`
	ErrorRoot    string   `json:"error_root"`
	ErrorHistory string   `json:"error_history"`
}

func newJSONSink(buf *bytes.Buffer, level zerolog.Level) *WriterSink {
	return NewWriterSink(buf, SinkOptions{Level: level, Format: FormatJSON})
}

func readLines(t testing.TB, buf *bytes.Buffer) []logLine {
	t.Helper()
	var lines []logLine
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var l logLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		lines = append(lines, l)
	}
	require.NoError(t, sc.Err())
	return lines
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// captureDefault routes the default manager's records at debug and above
// into a buffer for the duration of the test and leaves the process-wide
// trace state as it found it.
func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	sink := newJSONSink(buf, zerolog.DebugLevel)
	root := Root()
	prevLevel := root.Level()
	root.SetLevel(zerolog.DebugLevel)
	root.AddSink(sink)
	t.Cleanup(func() {
		UnregisterAutoLogEntryExit()
		SetInfrastructureLogging(false)
		SetTraceMetrics(nil)
		root.RemoveSink(sink)
		root.SetLevel(prevLevel)
	})
	return buf
}
