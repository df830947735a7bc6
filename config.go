package logplus

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the declarative setup applied by Manager.Configure. Values are
// read from a YAML file and/or LOGPLUS_* environment variables over
// DefaultConfig, so explicit zero values such as console: false or
// indentWidth: 0 are kept.
type Config struct {
	// Level is the root threshold: trace, debug, info, warn, error, fatal
	// or panic.
	Level string `yaml:"level" env:"LOGPLUS_LEVEL" env-default:"warn" validate:"required,loglevel"`

	// Format of the attached sinks: "text" or "json".
	Format string `yaml:"format" env:"LOGPLUS_FORMAT" env-default:"text" validate:"oneof=text json"`

	ConsoleLogging bool `yaml:"console" env:"LOGPLUS_CONSOLE"`
	ConsoleNoColor bool `yaml:"consoleNoColor" env:"LOGPLUS_CONSOLE_NO_COLOR"`

	FileLogging bool   `yaml:"file" env:"LOGPLUS_FILE"`
	FilePath    string `yaml:"filePath" env:"LOGPLUS_FILE_PATH" validate:"required_if=FileLogging true"`
	MaxSizeMB   int    `yaml:"maxSizeMB" env:"LOGPLUS_FILE_MAX_SIZE_MB" validate:"gte=0"`
	MaxBackups  int    `yaml:"maxBackups" env:"LOGPLUS_FILE_MAX_BACKUPS" validate:"gte=0"`
	MaxAgeDays  int    `yaml:"maxAgeDays" env:"LOGPLUS_FILE_MAX_AGE_DAYS" validate:"gte=0"`
	Compress    bool   `yaml:"compress" env:"LOGPLUS_FILE_COMPRESS"`

	// IndentWidth is the number of spaces per call-stack level.
	IndentWidth int `yaml:"indentWidth" env:"LOGPLUS_INDENT_WIDTH" validate:"gte=0,lte=16"`

	// InfrastructureLogging traces the logging packages themselves.
	InfrastructureLogging bool `yaml:"infrastructureLogging" env:"LOGPLUS_INFRASTRUCTURE_LOGGING"`

	// AutoTrace installs the automatic entry/exit hook.
	AutoTrace bool `yaml:"autoTrace" env:"LOGPLUS_AUTO_TRACE"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:          "warn",
		Format:         FormatText,
		ConsoleLogging: true,
		MaxSizeMB:      100,
		MaxBackups:     3,
		MaxAgeDays:     7,
		IndentWidth:    DefaultIndentWidth,
	}
}

// LoadConfig reads the configuration from the YAML file at path, with
// environment variables taking precedence. An empty path reads the
// environment only.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == emptyString {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("reading logging config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("reading logging config %s: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Configure applies cfg to the manager: root level, indent width, console
// and file sinks on the root, the infrastructure exclusion flag and, when
// requested, the auto tracer. Sinks attached by earlier calls stay.
func (m *Manager) Configure(cfg *Config) error {
	if m == nil {
		return ErrNilManager
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !cfg.ConsoleLogging && !cfg.FileLogging {
		return ErrNoSinks
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("setting logging level: %w", err)
	}

	opts := SinkOptions{Level: level, Format: cfg.Format, NoColor: cfg.ConsoleNoColor}
	var sinks []Sink
	if cfg.FileLogging {
		fs, err := NewFileSink(FileOptions{
			Path:       cfg.FilePath,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}, opts)
		if err != nil {
			return err
		}
		sinks = append(sinks, fs)
	}
	if cfg.ConsoleLogging {
		sinks = append(sinks, NewConsoleSink(opts))
	}

	m.root.SetLevel(level)
	m.SetIndentWidth(cfg.IndentWidth)
	for _, s := range sinks {
		m.root.AddSink(s)
	}

	SetInfrastructureLogging(cfg.InfrastructureLogging)
	if cfg.AutoTrace {
		RegisterAutoLogEntryExit()
	}
	return nil
}

// Configure applies cfg to the default manager.
func Configure(cfg *Config) error {
	return defaultManager.Configure(cfg)
}
