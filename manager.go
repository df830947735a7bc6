package logplus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Station-Manager/logplus/internal/callstack"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// placeholder stands in for a logger name that has descendants but has not
// been requested itself yet.
type placeholder struct {
	children map[*Logger]struct{}
}

func (p *placeholder) add(l *Logger) {
	p.children[l] = struct{}{}
}

// Manager is the registry of named loggers. It hands out exactly one
// Logger per name for its lifetime and keeps the parent links of the
// dotted name hierarchy.
type Manager struct {
	root        *Logger
	lastResort  Sink
	indentWidth atomic.Int64

	// mu guards entries and every parent link.
	mu      sync.Mutex
	entries map[string]any // *Logger or *placeholder
}

// NewManager returns a registry whose root logger has the given level.
func NewManager(rootLevel zerolog.Level) *Manager {
	m := &Manager{
		entries:    make(map[string]any),
		lastResort: NewConsoleSink(SinkOptions{Level: zerolog.WarnLevel}),
	}
	m.indentWidth.Store(DefaultIndentWidth)
	m.root = newLogger(RootName, rootLevel, m)
	return m
}

// Root returns the root logger.
func (m *Manager) Root() *Logger {
	return m.root
}

// SetIndentWidth sets the number of spaces per indentation level. It is
// clamped to [0, MaxIndentWidth].
func (m *Manager) SetIndentWidth(width int) {
	m.indentWidth.Store(int64(min(max(width, 0), MaxIndentWidth)))
}

// IndentWidth returns the number of spaces per indentation level.
func (m *Manager) IndentWidth() int {
	return int(m.indentWidth.Load())
}

func (m *Manager) indent(level int) string {
	return indentString(m.IndentWidth(), level)
}

// GetLogger returns the logger with the given name, creating it and
// wiring it into the hierarchy on first use. The empty name and RootName
// return the root logger.
func (m *Manager) GetLogger(name string) *Logger {
	if name == emptyString || name == m.root.name {
		return m.root
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch e := m.entries[name].(type) {
	case *Logger:
		return e
	case *placeholder:
		l := newLogger(name, NotSet, m)
		m.entries[name] = l
		m.fixupChildren(e, l)
		m.fixupParents(l)
		return l
	default:
		l := newLogger(name, NotSet, m)
		m.entries[name] = l
		m.fixupParents(l)
		return l
	}
}

// Lookup is GetLogger for dynamically typed names: nil selects the root,
// strings and fmt.Stringers are used as names, anything else fails with
// ErrInvalidArgument.
func (m *Manager) Lookup(name any) (*Logger, error) {
	switch n := name.(type) {
	case nil:
		return m.root, nil
	case string:
		return m.GetLogger(n), nil
	case fmt.Stringer:
		return m.GetLogger(n.String()), nil
	default:
		return nil, fmt.Errorf("%w: %s (got %T)", ErrInvalidArgument, errMsgInvalidName, name)
	}
}

// fixupParents links l to its nearest existing ancestor, registering l as
// a child of a placeholder for every missing one on the way.
func (m *Manager) fixupParents(l *Logger) {
	name := l.name
	var parent *Logger
	for i := strings.LastIndexByte(name, '.'); i > 0 && parent == nil; i = strings.LastIndexByte(name[:i], '.') {
		sub := name[:i]
		switch e := m.entries[sub].(type) {
		case *Logger:
			parent = e
		case *placeholder:
			e.add(l)
		default:
			ph := &placeholder{children: make(map[*Logger]struct{})}
			ph.add(l)
			m.entries[sub] = ph
		}
	}
	if parent == nil {
		parent = m.root
	}
	l.parent.Store(parent)
}

// fixupChildren moves the descendants collected by ph under l unless they
// already hang below a logger nested deeper than l.
func (m *Manager) fixupChildren(ph *placeholder, l *Logger) {
	prefix := l.name + "."
	for c := range ph.children {
		if p := c.Parent(); p != nil && !strings.HasPrefix(p.name, prefix) {
			l.parent.Store(p)
			c.parent.Store(l)
		}
	}
}

// Loggers returns the root and every registered logger, root first and the
// rest sorted by name. Placeholders are not included.
func (m *Manager) Loggers() []*Logger {
	m.mu.Lock()
	out := make([]*Logger, 0, len(m.entries)+1)
	for _, e := range m.entries {
		if l, ok := e.(*Logger); ok {
			out = append(out, l)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return append([]*Logger{m.root}, out...)
}

// CleanupLoggers detaches every FileSink from every logger and closes it.
// Other sinks stay attached and open. It runs at shutdown so that late log
// calls never reach a file that is going away.
func (m *Manager) CleanupLoggers() error {
	var errs []error
	closed := make(map[*FileSink]bool)
	for _, l := range m.Loggers() {
		for _, s := range l.Sinks() {
			fs, ok := s.(*FileSink)
			if !ok {
				continue
			}
			l.RemoveSink(fs)
			if closed[fs] {
				continue
			}
			closed[fs] = true
			if err := fs.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", fs.Filename(), err))
			}
		}
	}
	return errors.Join(errs...)
}

var defaultManager = NewManager(zerolog.WarnLevel)

// Default returns the process-wide manager used by the package level
// functions and the auto tracer.
func Default() *Manager {
	return defaultManager
}

// GetLogger returns the named logger of the default manager.
func GetLogger(name string) *Logger {
	return defaultManager.GetLogger(name)
}

// Lookup resolves a dynamically typed name on the default manager.
func Lookup(name any) (*Logger, error) {
	return defaultManager.Lookup(name)
}

// Root returns the root logger of the default manager.
func Root() *Logger {
	return defaultManager.root
}

// PackageLogger returns the default manager's logger for the caller's
// package, named after its import path with "/" replaced by ".".
//
//	var log = logplus.PackageLogger()
func PackageLogger() *Logger {
	f, ok := callstack.Caller(1)
	if !ok {
		return defaultManager.root
	}
	return defaultManager.GetLogger(loggerNameFor(f.Package))
}

// CleanupLoggers detaches and closes the file sinks of the default manager.
func CleanupLoggers() error {
	return defaultManager.CleanupLoggers()
}
