package specimen

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Station-Manager/logplus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Logger  string `json:"logger"`
	Message string `json:"message"`
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	sink := logplus.NewWriterSink(buf, logplus.SinkOptions{Format: logplus.FormatJSON})
	logplus.Root().AddSink(sink)
	Logger().SetLevel(zerolog.DebugLevel)
	logplus.RegisterAutoLogEntryExit()
	t.Cleanup(func() {
		logplus.UnregisterAutoLogEntryExit()
		Logger().SetLevel(logplus.NotSet)
		logplus.Root().RemoveSink(sink)
	})
	return buf
}

func decode(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()
	var out []line
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		out = append(out, l)
	}
	return out
}

func TestSpecialWidget_Lifecycle(t *testing.T) {
	buf := capture(t)

	w := NewSpecialWidget()
	assert.Equal(t, 1, w.Status())
	w.SetStatus(4)
	assert.Equal(t, 4, w.Status())
	w.DoSomething()
	require.NoError(t, w.Close())

	lines := decode(t, buf)
	var got []string
	for _, l := range lines {
		assert.Equal(t, "github.com.Station-Manager.logplus.cmd.logtest.internal.specimen", l.Logger)
		msg := strings.TrimLeft(l.Message, " ")
		if i := strings.LastIndex(msg, " ("); i > 0 && strings.HasPrefix(msg, ">>>") {
			msg = msg[:i]
		}
		got = append(got, msg)
	}
	assert.Equal(t, []string{
		">>> Entry NewSpecialWidget",
		"## D",
		">>> Entry NewWidget",
		"## A",
		"<<< Exit  NewWidget : Return value: Widget(status=1)",
		"<<< Exit  NewSpecialWidget : Return value: Widget(status=1)",
		">>> Entry (*Widget).Status",
		"<<< Exit  (*Widget).Status : Return value: 1",
		">>> Entry (*Widget).SetStatus",
		"<<< Exit  (*Widget).SetStatus : Return value: <nil>",
		">>> Entry (*Widget).Status",
		"<<< Exit  (*Widget).Status : Return value: 4",
		">>> Entry (*Widget).DoSomething",
		"## C",
		"<<< Exit  (*Widget).DoSomething : Return value: <nil>",
		">>> Entry (*SpecialWidget).Close",
		"## E",
		">>> Entry (*Widget).Close",
		"## B",
		"<<< Exit  (*Widget).Close : Return value: <nil>",
		"<<< Exit  (*SpecialWidget).Close : Return value: <nil>",
	}, got)
}
