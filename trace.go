package logplus

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Station-Manager/logplus/internal/callstack"
	"go.uber.org/atomic"
)

// Event is the kind of trace notification.
type Event int

const (
	// EventCall is raised when a traced function is entered.
	EventCall Event = iota + 1
	// EventReturn is raised when a traced function returns; the hook
	// argument is its return value.
	EventReturn
)

func (e Event) String() string {
	switch e {
	case EventCall:
		return "call"
	case EventReturn:
		return "return"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// TraceFunc is a trace hook. The process-wide hook receives EventCall for
// every traced function; the TraceFunc it returns becomes the local hook
// of that call and receives its EventReturn. Returning nil disables the
// local hook.
type TraceFunc func(frame *Frame, event Event, arg any) TraceFunc

// Frame is a traced function's activation with access to its callers.
type Frame struct {
	// Function is the fully qualified function name.
	Function string
	// Module is the package path owning the function.
	Module string
	// Name is the function name without its package.
	Name string
	// File is the source file of the function.
	File string
	// Line is the first line of the function.
	Line int

	stack []callstack.Frame
	index int
}

func frameAt(stack []callstack.Frame, index int) *Frame {
	if index < 0 || index >= len(stack) {
		return nil
	}
	f := stack[index]
	return &Frame{
		Function: f.Function,
		Module:   f.Package,
		Name:     f.Name,
		File:     f.File,
		Line:     f.Line,
		stack:    stack,
		index:    index,
	}
}

// Back returns the calling frame, or nil at the bottom of the stack.
func (f *Frame) Back() *Frame {
	if f == nil {
		return nil
	}
	return frameAt(f.stack, f.index+1)
}

type traceSlot struct {
	fn TraceFunc
}

// activeTrace holds the single process-wide hook. Installing a hook
// replaces the previous one.
var activeTrace atomic.Pointer[traceSlot]

// SetTrace installs fn as the process-wide trace hook; nil removes it.
func SetTrace(fn TraceFunc) {
	if fn == nil {
		activeTrace.Store(nil)
		return
	}
	activeTrace.Store(&traceSlot{fn: fn})
}

// GetTrace returns the installed trace hook, or nil.
func GetTrace() TraceFunc {
	if slot := activeTrace.Load(); slot != nil {
		return slot.fn
	}
	return nil
}

// RegisterAutoLogEntryExit installs AutoLogEntryExit as the trace hook, so
// every traced function logs its entry and exit.
func RegisterAutoLogEntryExit() {
	SetTrace(AutoLogEntryExit)
}

// UnregisterAutoLogEntryExit removes the trace hook.
func UnregisterAutoLogEntryExit() {
	SetTrace(nil)
}

// AutoTraceActive reports whether a trace hook is installed.
func AutoTraceActive() bool {
	return activeTrace.Load() != nil
}

// WithAutoTrace runs fn with automatic entry/exit logging enabled and
// removes the hook when fn returns or panics.
func WithAutoTrace(fn func()) {
	RegisterAutoLogEntryExit()
	defer UnregisterAutoLogEntryExit()
	fn()
}

// Scope is a traced call in progress. A nil Scope is valid and inert.
type Scope struct {
	frame *Frame
	local TraceFunc
}

// Trace raises EventCall for the calling function and returns the scope
// whose Exit raises the matching EventReturn. Use it as the first
// statement of a function, passing pointers to named results so that the
// values at return time are reported:
//
//	func square(x int) (y int) {
//		defer logplus.Trace().Exit(&y)
//		return x * x
//	}
//
// Without an installed hook Trace returns nil.
func Trace() *Scope {
	hook := GetTrace()
	if hook == nil {
		return nil
	}
	frame := frameAt(callstack.Capture(1), 0)
	local := hook(frame, EventCall, nil)
	if local == nil {
		return nil
	}
	return &Scope{frame: frame, local: local}
}

// Exit raises EventReturn for the scope. Pointer arguments are
// dereferenced at the time of the call.
func (s *Scope) Exit(results ...any) {
	if s == nil || s.local == nil {
		return
	}
	s.local(s.frame, EventReturn, returnValue(results))
}

// Results is the return value of a function with several results.
type Results []any

func (r Results) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = fmt.Sprint(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func returnValue(results []any) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return deref(results[0])
	default:
		out := make(Results, len(results))
		for i, r := range results {
			out[i] = deref(r)
		}
		return out
	}
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return v
	}
	return rv.Elem().Interface()
}

// AutoLogEntryExit is the hook installed by RegisterAutoLogEntryExit. It
// logs entry and exit of traced functions on the logger of their package,
// skipping infrastructure code unless InfrastructureLogging is enabled.
func AutoLogEntryExit(frame *Frame, event Event, arg any) TraceFunc {
	if event != EventCall && event != EventReturn {
		return nil
	}
	if frame == nil || frame.Module == emptyString {
		return autoLogIgnore
	}

	switch event {
	case EventCall:
		if !InfrastructureLogging() && excludeFromLogging(frame) {
			traceMetricsExcluded()
			return autoLogIgnore
		}
		traceMetricsEvent(event)
		logger := defaultManager.GetLogger(loggerNameFor(frame.Module))
		logger.AutoLogEntry("%s (%s - line %d - module %s)", frame.Name, frame.File, frame.Line, frame.Module)
		return AutoLogEntryExit
	default:
		traceMetricsEvent(event)
		logger := defaultManager.GetLogger(loggerNameFor(frame.Module))
		logger.AutoLogExit("%s : Return value: %v", frame.Name, arg)
		return nil
	}
}

// autoLogIgnore is the local hook of scopes that must not be logged.
func autoLogIgnore(_ *Frame, event Event, _ any) TraceFunc {
	if event == EventCall {
		return autoLogIgnore
	}
	return nil
}
