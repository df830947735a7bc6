package logplus

import (
	"errors"

	"github.com/rs/zerolog"
)

const (
	// RootName is the name of the root logger.
	RootName = "root"

	// LoggerFieldName is the record field carrying the logger name.
	LoggerFieldName = "logger"

	// NotSet makes a logger inherit its threshold from its parent.
	NotSet = zerolog.NoLevel

	// DefaultIndentWidth is the number of spaces per indentation level.
	DefaultIndentWidth = 4

	// MaxIndentWidth bounds the configurable indentation width.
	MaxIndentWidth = 16

	emptyString = ""
)

const (
	entryPrefix = ">>> Entry "
	exitPrefix  = "<<< Exit  "
)

// Frames excluded from the indentation depth, counted from the logging
// method itself.
const (
	// direct call: the logging method.
	directOffset = 1
	// LogEntry/LogExit: the logging method and the caller's own level.
	entryExitOffset = 2
	// AutoLogEntry/AutoLogExit: the logging method, the trace hook, the
	// dispatch site (Trace or Scope.Exit) and the traced function's level.
	autoOffset = 4
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgNilManager    = "Logger manager is nil."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgInvalidName   = "A logger name must be a string."
	errMsgNoSinks       = "No logging channels enabled."
	errMsgNilShutdown   = "Shutdown coordinator is nil."
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilConfig       = errors.New(errMsgNilConfig)
	ErrNilManager      = errors.New(errMsgNilManager)
	ErrConfigInvalid   = errors.New(errMsgConfigInvalid)
	ErrNoSinks         = errors.New(errMsgNoSinks)
)
