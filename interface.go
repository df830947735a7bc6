package logplus

import (
	"time"

	"github.com/rs/zerolog"
)

// Sink is an output target attached to a Logger. Sinks apply their own
// level threshold and rendering; a Logger only decides whether a record is
// produced and which sinks receive it.
type Sink interface {
	Emit(rec *Record)
	Close() error
}

// Record is a single rendered log event.
type Record struct {
	Logger  string
	Level   zerolog.Level
	Time    time.Time
	Message string
	Err     error
	Fields  []Field
}
