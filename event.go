package logplus

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Field is a structured key/value attached to a record.
type Field struct {
	Key   string
	Value any
}

// LogEvent builds a record with structured fields. The message is
// indented by the call depth of Msg, Msgf or Send, so finish the event in
// the function it describes. A nil LogEvent, returned for disabled levels,
// accepts every call and logs nothing.
type LogEvent struct {
	logger *Logger
	level  zerolog.Level
	err    error
	fields []Field
}

// DebugWith starts a debug event.
func (l *Logger) DebugWith() *LogEvent {
	return l.newEvent(zerolog.DebugLevel)
}

// InfoWith starts an info event.
func (l *Logger) InfoWith() *LogEvent {
	return l.newEvent(zerolog.InfoLevel)
}

// WarnWith starts a warn event.
func (l *Logger) WarnWith() *LogEvent {
	return l.newEvent(zerolog.WarnLevel)
}

// ErrorWith starts an error event.
func (l *Logger) ErrorWith() *LogEvent {
	return l.newEvent(zerolog.ErrorLevel)
}

func (l *Logger) newEvent(level zerolog.Level) *LogEvent {
	if !l.IsEnabledFor(level) {
		return nil
	}
	return &LogEvent{logger: l, level: level}
}

func (e *LogEvent) add(key string, val any) *LogEvent {
	if e != nil {
		e.fields = append(e.fields, Field{Key: key, Value: val})
	}
	return e
}

func (e *LogEvent) Str(key, val string) *LogEvent                   { return e.add(key, val) }
func (e *LogEvent) Strs(key string, vals []string) *LogEvent        { return e.add(key, vals) }
func (e *LogEvent) Int(key string, val int) *LogEvent               { return e.add(key, val) }
func (e *LogEvent) Int64(key string, val int64) *LogEvent           { return e.add(key, val) }
func (e *LogEvent) Uint64(key string, val uint64) *LogEvent         { return e.add(key, val) }
func (e *LogEvent) Float64(key string, val float64) *LogEvent       { return e.add(key, val) }
func (e *LogEvent) Bool(key string, val bool) *LogEvent             { return e.add(key, val) }
func (e *LogEvent) Time(key string, val time.Time) *LogEvent        { return e.add(key, val) }
func (e *LogEvent) Dur(key string, val time.Duration) *LogEvent     { return e.add(key, val) }
func (e *LogEvent) AnErr(key string, err error) *LogEvent           { return e.add(key, err) }
func (e *LogEvent) Interface(key string, val any) *LogEvent         { return e.add(key, val) }
func (e *LogEvent) Stringer(key string, val fmt.Stringer) *LogEvent { return e.add(key, val) }

// Err attaches err as the record error, with its cause chain.
func (e *LogEvent) Err(err error) *LogEvent {
	if e != nil {
		e.err = err
	}
	return e
}

// Msg logs the event with msg.
func (e *LogEvent) Msg(msg string) {
	if e == nil {
		return
	}
	e.logger.emit(e.level, directOffset, e.err, emptyString, msg, nil, e.fields)
}

// Msgf logs the event with fmt.Sprintf(format, v...), even when v is
// empty.
func (e *LogEvent) Msgf(format string, v ...any) {
	if e == nil {
		return
	}
	e.logger.emit(e.level, directOffset, e.err, emptyString, fmt.Sprintf(format, v...), nil, e.fields)
}

// Send logs the event without a message.
func (e *LogEvent) Send() {
	if e == nil {
		return
	}
	e.logger.emit(e.level, directOffset, e.err, emptyString, emptyString, nil, e.fields)
}

// appendField adds f to a zerolog event with the most specific encoder.
func appendField(event *zerolog.Event, f Field) *zerolog.Event {
	switch v := f.Value.(type) {
	case string:
		return event.Str(f.Key, v)
	case []string:
		return event.Strs(f.Key, v)
	case int:
		return event.Int(f.Key, v)
	case int64:
		return event.Int64(f.Key, v)
	case uint64:
		return event.Uint64(f.Key, v)
	case float64:
		return event.Float64(f.Key, v)
	case bool:
		return event.Bool(f.Key, v)
	case time.Time:
		return event.Time(f.Key, v)
	case time.Duration:
		return event.Dur(f.Key, v)
	case error:
		return event.AnErr(f.Key, v)
	case fmt.Stringer:
		return event.Stringer(f.Key, v)
	default:
		return event.Interface(f.Key, v)
	}
}
