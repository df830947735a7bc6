package logplus

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type loopError struct{ next error }

func (e *loopError) Error() string { return "loop" }
func (e *loopError) Unwrap() error { return e.next }

func TestBuildErrorChain_Wrapped(t *testing.T) {
	inner := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	middle := fmt.Errorf("failed to connect to database: %w", inner)
	outer := fmt.Errorf("startup failed: %w", middle)

	chain, root := buildErrorChain(outer)
	assert.Equal(t, []string{outer.Error(), middle.Error(), inner.Error()}, chain)
	assert.Equal(t, inner.Error(), root)

	wrapped := fmt.Errorf("wrap: %w", outer)
	chain2, root2 := buildErrorChain(wrapped)
	// first element is the outermost message
	assert.True(t, strings.HasPrefix(chain2[0], "wrap:"))
	assert.Equal(t, root, root2)
}

func TestBuildErrorChain_Joined(t *testing.T) {
	first := errors.New("first")
	joined := fmt.Errorf("both: %w", errors.Join(first, errors.New("second")))

	chain, root := buildErrorChain(joined)
	assert.Len(t, chain, 3)
	assert.Equal(t, "first", root)

	chain, root = buildErrorChain(errors.Join())
	assert.Empty(t, chain)
	assert.Empty(t, root)
}

func TestBuildErrorChain_Cycle(t *testing.T) {
	a := &loopError{}
	a.next = a
	chain, root := buildErrorChain(a)
	assert.Equal(t, []string{"loop"}, chain)
	assert.Equal(t, "loop", root)
}

func TestJoinChain(t *testing.T) {
	assert.Equal(t, "", joinChain(nil))
	assert.Equal(t, "a", joinChain([]string{"a"}))
	assert.Equal(t, "a -> b -> c", joinChain([]string{"a", "b", "c"}))
}

func TestLoggerNameFor(t *testing.T) {
	assert.Equal(t, "main", loggerNameFor("main"))
	assert.Equal(t, "github.com.acme.app.store", loggerNameFor("github.com/acme/app/store"))
}
