package logplus

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Station-Manager/logplus/internal/callstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ownPackage = reflect.TypeOf(Logger{}).PkgPath()

//go:noinline
func tracedSquare(x int) (y int) {
	defer Trace().Exit(&y)
	y = x * x
	return y
}

func TestExclusion_InfrastructureToggle(t *testing.T) {
	buf := captureDefault(t)
	RegisterAutoLogEntryExit()

	require.False(t, InfrastructureLogging())
	assert.Equal(t, 25, tracedSquare(5))
	assert.Empty(t, readLines(t, buf), "calls inside this package are infrastructure")

	SetInfrastructureLogging(true)
	assert.Equal(t, 36, tracedSquare(6))

	lines := readLines(t, buf)
	require.Len(t, lines, 2)
	name := loggerNameFor(ownPackage)
	for _, l := range lines {
		assert.Equal(t, name, l.Logger)
		assert.Equal(t, "debug", l.Level)
	}
	assert.True(t, strings.HasPrefix(strings.TrimLeft(lines[0].Message, " "), entryPrefix+"tracedSquare ("))
	assert.Contains(t, lines[0].Message, "module "+ownPackage+")")
	assert.Equal(t, exitPrefix+"tracedSquare : Return value: 36", strings.TrimLeft(lines[1].Message, " "))
	assert.Equal(t, leadingSpaces(lines[0].Message), leadingSpaces(lines[1].Message))
}

func TestExclusion_ExcludePackage(t *testing.T) {
	const pkg = "example.com/vendor/noisy"
	assert.NotContains(t, InfrastructurePackages(), pkg)

	f := &Frame{Function: pkg + ".Do", Module: pkg}
	assert.False(t, excludeFromLogging(f))

	ExcludePackage(pkg)
	assert.Contains(t, InfrastructurePackages(), pkg)
	assert.True(t, excludeFromLogging(f))
}

func TestExclusion_WalksCallers(t *testing.T) {
	stack := []frameSpec{
		{"example.com/app.leaf", "example.com/app"},
		{"github.com/rs/zerolog.(*Event).Msg", "github.com/rs/zerolog"},
		{"example.com/app.main", "example.com/app"},
	}
	assert.True(t, excludeFromLogging(buildFrame(stack)), "an infrastructure caller excludes the callee")
	assert.False(t, excludeFromLogging(buildFrame(stack[2:])))
	assert.False(t, excludeFromLogging(nil))
	assert.False(t, excludeFromLogging(&Frame{}))
}

func TestExclusion_StopsAtWithAutoTrace(t *testing.T) {
	stack := []frameSpec{
		{"example.com/app.leaf", "example.com/app"},
		{"example.com/app.main.func1", "example.com/app"},
		{withAutoTraceFunction, ownPackage},
		{ownPackage + ".(*Logger).Debug", ownPackage},
	}
	assert.False(t, excludeFromLogging(buildFrame(stack)))

	stack = append([]frameSpec{{"example.com/app.(*T).String", "example.com/app"}, {ownPackage + ".(*Logger).emit", ownPackage}}, stack...)
	assert.True(t, excludeFromLogging(buildFrame(stack)), "logger frames above the trampoline still exclude")
}

func TestAutoLogEntryExit_ExcludedCallRegistersNoLogger(t *testing.T) {
	captureDefault(t)
	const pkg = "example.com/vendor/silent"
	ExcludePackage(pkg)
	name := loggerNameFor(pkg)

	local := AutoLogEntryExit(&Frame{Function: pkg + ".Do", Module: pkg}, EventCall, nil)
	require.NotNil(t, local)
	assert.Nil(t, local(nil, EventReturn, 1))
	for _, l := range Default().Loggers() {
		assert.NotEqual(t, name, l.Name())
	}
}

func TestAutoLogEntryExit_EdgeCases(t *testing.T) {
	buf := captureDefault(t)

	assert.Nil(t, AutoLogEntryExit(&Frame{Module: "x"}, Event(99), nil), "unknown events install no local hook")
	local := AutoLogEntryExit(nil, EventCall, nil)
	require.NotNil(t, local)
	assert.NotNil(t, local(nil, EventCall, nil))
	assert.Nil(t, local(nil, EventReturn, 1))
	assert.Empty(t, readLines(t, buf))
}

type frameSpec struct{ function, module string }

func buildFrame(specs []frameSpec) *Frame {
	stack := make([]callstack.Frame, len(specs))
	for i, s := range specs {
		stack[i] = callstack.Frame{Function: s.function, Package: s.module}
	}
	return frameAt(stack, 0)
}
