package logplus

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Station-Manager/logplus/internal/callstack"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Logger is a named node of the logger hierarchy. Every message is indented
// by the caller's call-stack depth before it is handed to the sinks of the
// logger and its ancestors.
//
// Loggers are created by a Manager and must not be copied.
type Logger struct {
	name    string
	manager *Manager
	parent  atomic.Pointer[Logger]

	mu        sync.RWMutex
	level     zerolog.Level
	sinks     []Sink
	propagate bool
}

func newLogger(name string, level zerolog.Level, m *Manager) *Logger {
	return &Logger{
		name:      name,
		manager:   m,
		level:     level,
		propagate: true,
	}
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

// Parent returns the nearest registered ancestor, or nil for the root.
func (l *Logger) Parent() *Logger {
	return l.parent.Load()
}

// SetLevel sets the threshold. NotSet inherits from the parent.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the threshold set on this logger, possibly NotSet.
func (l *Logger) Level() zerolog.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// EffectiveLevel returns the first threshold set on this logger or its
// ancestors. A hierarchy with no threshold at all logs everything.
func (l *Logger) EffectiveLevel() zerolog.Level {
	for c := l; c != nil; c = c.Parent() {
		if lvl := c.Level(); lvl != NotSet {
			return lvl
		}
	}
	return zerolog.TraceLevel
}

// IsEnabledFor reports whether a record at level would be produced.
func (l *Logger) IsEnabledFor(level zerolog.Level) bool {
	if l == nil || level == zerolog.Disabled || level == NotSet {
		return false
	}
	return level >= l.EffectiveLevel()
}

// SetPropagate controls whether records are passed on to the ancestors'
// sinks after this logger's own.
func (l *Logger) SetPropagate(propagate bool) {
	l.mu.Lock()
	l.propagate = propagate
	l.mu.Unlock()
}

// Propagate reports whether records reach the ancestors' sinks.
func (l *Logger) Propagate() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.propagate
}

// AddSink attaches s. Attaching the same sink twice is a no-op.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.sinks, s) {
		l.sinks = append(l.sinks, s)
	}
}

// RemoveSink detaches s without closing it and reports whether it was
// attached.
func (l *Logger) RemoveSink(s Sink) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.Index(l.sinks, s)
	if i < 0 {
		return false
	}
	// handle iterates a snapshot of the slice, so never shift it in place.
	l.sinks = slices.Concat(l.sinks[:i], l.sinks[i+1:])
	return true
}

// Sinks returns a snapshot of the attached sinks.
func (l *Logger) Sinks() []Sink {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.sinks)
}

// Debug logs at debug level. Args, when present, are substituted into msg
// with fmt.Sprintf.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(zerolog.DebugLevel, directOffset, nil, emptyString, msg, args, nil)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(zerolog.InfoLevel, directOffset, nil, emptyString, msg, args, nil)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(zerolog.WarnLevel, directOffset, nil, emptyString, msg, args, nil)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(zerolog.ErrorLevel, directOffset, nil, emptyString, msg, args, nil)
}

// Log logs at an arbitrary level.
func (l *Logger) Log(level zerolog.Level, msg string, args ...any) {
	l.emit(level, directOffset, nil, emptyString, msg, args, nil)
}

// Exception logs at error level and attaches err with its cause chain.
func (l *Logger) Exception(err error, msg string, args ...any) {
	l.emit(zerolog.ErrorLevel, directOffset, err, emptyString, msg, args, nil)
}

// LogEntry logs function entry at debug level. Call it first thing in the
// function being logged.
func (l *Logger) LogEntry(msg string, args ...any) {
	l.emit(zerolog.DebugLevel, entryExitOffset, nil, entryPrefix, msg, args, nil)
}

// LogExit logs function exit at debug level.
func (l *Logger) LogExit(msg string, args ...any) {
	l.emit(zerolog.DebugLevel, entryExitOffset, nil, exitPrefix, msg, args, nil)
}

// AutoLogEntry logs function entry on behalf of a trace hook. It assumes
// it is called directly by the hook and is not meant for user code.
func (l *Logger) AutoLogEntry(msg string, args ...any) {
	l.emit(zerolog.DebugLevel, autoOffset, nil, entryPrefix, msg, args, nil)
}

// AutoLogExit logs function exit on behalf of a trace hook.
func (l *Logger) AutoLogExit(msg string, args ...any) {
	l.emit(zerolog.DebugLevel, autoOffset, nil, exitPrefix, msg, args, nil)
}

// emit must be called directly by the exported logging method: the stack
// depth is counted from that method's frame.
func (l *Logger) emit(level zerolog.Level, offset int, err error, prefix, msg string, args []any, fields []Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	indent := l.indentAt(1, offset)
	msg = l.manager.indent(indent) + prefix + msg
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.handle(&Record{
		Logger:  l.name,
		Level:   level,
		Time:    time.Now(),
		Message: msg,
		Err:     err,
		Fields:  fields,
	})
}

// indentAt returns max(0, depth-offset) where depth is counted from the
// frame skip levels above the caller of indentAt.
func (l *Logger) indentAt(skip, offset int) int {
	return max(0, callstack.Depth(skip+1)-offset)
}

// handle passes rec to the sinks of l and its ancestors, stopping after a
// logger that does not propagate.
func (l *Logger) handle(rec *Record) {
	found := 0
	for c := l; c != nil; c = c.Parent() {
		c.mu.RLock()
		sinks := c.sinks
		propagate := c.propagate
		c.mu.RUnlock()

		for _, s := range sinks {
			found++
			s.Emit(rec)
		}
		if !propagate {
			break
		}
	}
	if found == 0 && rec.Level >= zerolog.WarnLevel {
		l.manager.lastResort.Emit(rec)
	}
}
