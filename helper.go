package logplus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel parses a level name ("debug", "warn", ...) into a zerolog.Level.
// An empty string yields NotSet.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == emptyString {
		return NotSet, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return l, nil
}

// buildErrorChain walks an error's cause chain and returns the messages
// from outermost to innermost, and the innermost message. Joined errors
// are followed through their first branch. Depth and repeated messages are
// bounded to avoid cycles.
func buildErrorChain(err error) (chain []string, root string) {
	const maxDepth = 50
	seen := map[string]bool{}

	for visited := 0; err != nil && visited < maxDepth; visited++ {
		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)

		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			errs := joined.Unwrap()
			if len(errs) == 0 {
				break
			}
			err = errs[0]
			continue
		}
		err = errors.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	return chain, root
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return emptyString
	}
	return strings.Join(chain, " -> ")
}

// indentString returns the whitespace for the given indentation level.
func indentString(width, level int) string {
	if width <= 0 || level <= 0 {
		return emptyString
	}
	return strings.Repeat(" ", width*level)
}

// loggerNameFor maps a Go package path to a dotted logger name so that
// package loggers nest under their import path prefixes.
func loggerNameFor(pkg string) string {
	return strings.ReplaceAll(pkg, "/", ".")
}
