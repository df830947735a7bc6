// Package callstack inspects the calling goroutine's stack: logical depth,
// frame capture and package resolution from qualified function names.
//
// All skip arguments count logical frames (inlined calls included) above
// the caller of the function taking them: skip 0 is the caller itself.
package callstack

import (
	"runtime"
	"strings"
)

// initialPCs is the first buffer size tried when walking the stack.
const initialPCs = 64

// Frame describes one logical frame of the stack.
type Frame struct {
	// Function is the fully qualified function name, e.g.
	// "github.com/acme/app/store.(*DB).Open".
	Function string
	// Package is the import path owning Function.
	Package string
	// Name is Function without the package qualifier, e.g. "(*DB).Open".
	Name string
	// File is the source file of the call site.
	File string
	// Line is the first line of the function when known, otherwise the
	// line of the call site.
	Line int
}

// callers returns the program counters above the caller of the exported
// function invoking it, skip frames further up.
func callers(skip int) []uintptr {
	pcs := make([]uintptr, initialPCs)
	for {
		// 0 is runtime.Callers, 1 is callers, 2 is the exported entry point.
		n := runtime.Callers(skip+3, pcs)
		if n < len(pcs) {
			return pcs[:n]
		}
		pcs = make([]uintptr, len(pcs)*2)
	}
}

// Depth returns the number of counted frames from the frame skip levels
// above its caller down to the goroutine entry. Runtime frames and
// compiler generated defer wrappers are not counted.
func Depth(skip int) int {
	frames := runtime.CallersFrames(callers(skip))
	n := 0
	for {
		f, more := frames.Next()
		if f.Function != "" && counted(f.Function) {
			n++
		}
		if !more {
			return n
		}
	}
}

// Capture returns the logical frames from the frame skip levels above its
// caller down to the goroutine entry, innermost first. Uncounted frames
// are dropped, so len(Capture(s)) == Depth(s).
func Capture(skip int) []Frame {
	frames := runtime.CallersFrames(callers(skip))
	var out []Frame
	for {
		f, more := frames.Next()
		if f.Function != "" && counted(f.Function) {
			out = append(out, newFrame(f))
		}
		if !more {
			return out
		}
	}
}

// Caller returns the frame skip levels above the caller of Caller.
func Caller(skip int) (Frame, bool) {
	frames := runtime.CallersFrames(callers(skip))
	for {
		f, more := frames.Next()
		if f.Function != "" && counted(f.Function) {
			return newFrame(f), true
		}
		if !more {
			return Frame{}, false
		}
	}
}

func newFrame(f runtime.Frame) Frame {
	pkg, name := split(f.Function)
	line := f.Line
	if f.Func != nil {
		if _, start := f.Func.FileLine(f.Entry); start > 0 && start <= f.Line {
			line = start
		}
	}
	return Frame{
		Function: f.Function,
		Package:  pkg,
		Name:     name,
		File:     f.File,
		Line:     line,
	}
}

// counted reports whether a frame of the named function contributes to
// the stack depth.
func counted(function string) bool {
	if strings.HasPrefix(function, "runtime.") {
		return false
	}
	return !strings.Contains(function, ".deferwrap")
}

// split separates a qualified function name into its package path and the
// remainder. Dots in the last path element are escaped by the toolchain
// (%2e), so the first dot after the last slash ends the package path.
func split(function string) (pkg, name string) {
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		return function, ""
	}
	dot += slash + 1
	return function[:dot], function[dot+1:]
}
