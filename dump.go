package logplus

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// Maximum recursion depth to prevent stack overflow
const maxDumpDepth = 10

// maxDumpElements limits the number of slice/array elements logged.
const maxDumpElements = 10

// Dump logs the contents of v at debug level, one line per value. The
// first line is indented like a Debug call made at the same place; every
// nesting level adds one indentation unit.
// For structs, it logs all exported fields.
// For maps and slices, it logs their elements.
func (l *Logger) Dump(v any) {
	if !l.IsEnabledFor(zerolog.DebugLevel) {
		return
	}
	d := &dumper{
		logger:  l,
		base:    l.indentAt(0, directOffset),
		visited: make(map[uintptr]bool),
	}
	if v == nil {
		d.line(0, "Dump: <nil>")
		return
	}
	d.value(v, emptyString, 0)
}

type dumper struct {
	logger  *Logger
	base    int
	visited map[uintptr]bool
}

func (d *dumper) line(depth int, format string, args ...any) {
	msg := d.logger.manager.indent(d.base+depth) + fmt.Sprintf(format, args...)
	d.logger.handle(&Record{
		Logger:  d.logger.name,
		Level:   zerolog.DebugLevel,
		Time:    time.Now(),
		Message: msg,
	})
}

func (d *dumper) value(v any, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.line(depth, "%s: <max depth reached>", prefix)
		return
	}

	if v == nil {
		d.line(depth, "%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers, with cycle detection.
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Pointer {
		if val.IsNil() {
			d.line(depth, "%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Pointer {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.line(depth, "%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			d.line(depth, "Struct: %s {", typ.Name())
		} else {
			d.line(depth, "%s: %s {", prefix, typ.Name())
		}

		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			fieldVal := val.Field(i)

			// Skip unexported fields
			if !fieldVal.CanInterface() {
				continue
			}

			fieldPrefix := field.Name
			if prefix != emptyString {
				fieldPrefix = prefix + "." + field.Name
			}

			d.value(fieldVal.Interface(), fieldPrefix, depth+1)
		}

		d.line(depth, "}")

	case reflect.Map:
		d.line(depth, "%s: map[%s]%s (len: %d) {",
			prefix, typ.Key().String(), typ.Elem().String(), val.Len())

		iter := val.MapRange()
		for iter.Next() {
			keyStr := fmt.Sprintf("%v", iter.Key().Interface())
			d.value(iter.Value().Interface(), prefix+"["+keyStr+"]", depth+1)
		}

		d.line(depth, "}")

	case reflect.Slice, reflect.Array:
		d.line(depth, "%s: %s (len: %d) {", prefix, typ.String(), val.Len())

		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			if elem.CanInterface() {
				d.value(elem.Interface(), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
			}
		}

		if val.Len() > maxDumpElements {
			d.line(depth+1, "... (%d more elements)", val.Len()-maxDumpElements)
		}

		d.line(depth, "}")

	default:
		if prefix == emptyString {
			d.line(depth, "%v", val.Interface())
		} else {
			d.line(depth, "%s: %v", prefix, val.Interface())
		}
	}
}
