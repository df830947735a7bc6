package logplus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SinkOptions controls the threshold and rendering of a sink.
type SinkOptions struct {
	// Level is the minimum level the sink writes. The zero value is debug.
	Level zerolog.Level
	// Format is FormatText (console layout) or FormatJSON.
	Format string
	// NoColor disables ANSI colors in the text layout.
	NoColor bool
	// TimeFormat is the timestamp layout of the text format.
	TimeFormat string
}

// FileOptions configures the rolling file behind a FileSink.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// WriterSink renders records through zerolog onto an io.Writer.
type WriterSink struct {
	out io.Writer
	zl  zerolog.Logger
}

// FileSink is a WriterSink over a rolling log file. It is the only sink
// kind detached by Manager.CleanupLoggers. Records emitted after Close are
// dropped: lumberjack would otherwise reopen the file.
type FileSink struct {
	*WriterSink
	file *lumberjack.Logger

	mu     sync.RWMutex
	closed bool
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer, opts SinkOptions) *WriterSink {
	return &WriterSink{
		out: w,
		zl:  zerolog.New(formatWriter(w, opts)).Level(opts.Level),
	}
}

// NewConsoleSink returns a text sink on stderr.
func NewConsoleSink(opts SinkOptions) *WriterSink {
	if opts.Format == emptyString {
		opts.Format = FormatText
	}
	return NewWriterSink(os.Stderr, opts)
}

// NewFileSink creates the directory of fo.Path and returns a sink writing
// to it through lumberjack. Text output is never colored.
func NewFileSink(fo FileOptions, opts SinkOptions) (*FileSink, error) {
	if fo.Path == emptyString {
		return nil, fmt.Errorf("%w: file sink path is empty", ErrInvalidArgument)
	}
	if err := os.MkdirAll(filepath.Dir(fo.Path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   fo.Path,
		MaxSize:    fo.MaxSizeMB,
		MaxBackups: fo.MaxBackups,
		MaxAge:     fo.MaxAgeDays,
		Compress:   fo.Compress,
	}
	opts.NoColor = true
	return &FileSink{WriterSink: NewWriterSink(file, opts), file: file}, nil
}

// Emit writes rec if its level passes the sink threshold.
func (s *WriterSink) Emit(rec *Record) {
	if s == nil || rec == nil {
		return
	}
	event := s.zl.WithLevel(rec.Level)
	if event == nil {
		return
	}
	event = event.Time(zerolog.TimestampFieldName, rec.Time).Str(LoggerFieldName, rec.Logger)
	for _, f := range rec.Fields {
		event = appendField(event, f)
	}
	if rec.Err != nil {
		chain, root := buildErrorChain(rec.Err)
		event = event.Err(rec.Err).
			Strs("error_chain", chain).
			Str("error_root", root).
			Str("error_history", joinChain(chain))
	}
	event.Msg(rec.Message)
}

// Level returns the sink threshold.
func (s *WriterSink) Level() zerolog.Level {
	return s.zl.GetLevel()
}

// Close is a no-op; the writer belongs to the caller.
func (s *WriterSink) Close() error {
	return nil
}

// Filename returns the path of the log file.
func (s *FileSink) Filename() string {
	return s.file.Filename
}

// Emit writes rec unless the sink is closed. Close waits for in-flight
// writes.
func (s *FileSink) Emit(rec *Record) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.WriterSink.Emit(rec)
}

// Close closes the underlying file. Closing twice is a no-op.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

func formatWriter(w io.Writer, opts SinkOptions) io.Writer {
	if opts.Format == FormatJSON {
		return w
	}
	timeFormat := opts.TimeFormat
	if timeFormat == emptyString {
		timeFormat = time.DateTime
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor,
		TimeFormat: timeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			LoggerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{LoggerFieldName},
		// Leading whitespace is the indentation and must survive.
		FormatMessage: func(i interface{}) string {
			switch v := i.(type) {
			case nil:
				return emptyString
			case string:
				return v
			default:
				return fmt.Sprint(v)
			}
		},
	}
}
