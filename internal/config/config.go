package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/mark"
)

// Default values.
const (
	DefaultFlushDelay     = 250 * time.Millisecond
	DefaultPendingTimeout = time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// Config holds all keymarks settings.
type Config struct {
	Marks       MarksConfig       `toml:"marks"`
	Persistence PersistenceConfig `toml:"persistence"`
	Pending     PendingConfig     `toml:"pending"`
	Logging     LoggingConfig     `toml:"logging"`
}

// MarksConfig controls naming and coordinates.
type MarksConfig struct {
	// UpperCaseForLocal swaps the case policy: A-Z local, a-z global.
	UpperCaseForLocal bool `toml:"upper_case_for_local"`
	// ColumnUnit is how columns of reported positions are counted.
	ColumnUnit string `toml:"column_unit"`
}

// PersistenceConfig controls where and how often the mark tables are saved.
type PersistenceConfig struct {
	// Path of the snapshot file. Empty disables persistence.
	Path       string   `toml:"path"`
	FlushDelay Duration `toml:"flush_delay"`
}

// PendingConfig controls the single-keystroke gesture mode.
type PendingConfig struct {
	Timeout Duration `toml:"timeout"`
}

// LoggingConfig controls the logger built by the host.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Marks: MarksConfig{
			ColumnUnit: buffer.ColumnUTF16.String(),
		},
		Persistence: PersistenceConfig{
			FlushDelay: Duration{DefaultFlushDelay},
		},
		Pending: PendingConfig{
			Timeout: Duration{DefaultPendingTimeout},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := buffer.ParseColumnUnit(c.Marks.ColumnUnit); err != nil {
		return invalid("marks.column_unit", "%v", err)
	}
	if c.Persistence.FlushDelay.Duration < 0 {
		return invalid("persistence.flush_delay", "must not be negative, got %s", c.Persistence.FlushDelay)
	}
	if c.Pending.Timeout.Duration <= 0 {
		return invalid("pending.timeout", "must be positive, got %s", c.Pending.Timeout)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return invalid("logging.level", "%v", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return invalid("logging.format", "want console or json, got %q", c.Logging.Format)
	}
	return nil
}

// CasePolicy returns the mark case policy selected by the settings.
func (c Config) CasePolicy() mark.CasePolicy {
	return mark.PolicyFor(c.Marks.UpperCaseForLocal)
}

// ColumnUnit returns the configured column unit, falling back to UTF-16 for
// an invalid value.
func (c Config) ColumnUnit() buffer.ColumnUnit {
	u, err := buffer.ParseColumnUnit(c.Marks.ColumnUnit)
	if err != nil {
		return buffer.ColumnUTF16
	}
	return u
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// PersistenceEnabled reports whether a snapshot path is configured.
func (c Config) PersistenceEnabled() bool {
	return c.Persistence.Path != ""
}

// String renders the settings for debug logs.
func (c Config) String() string {
	return fmt.Sprintf("marks{upper_case_for_local=%t column_unit=%s} persistence{path=%q flush_delay=%s} pending{timeout=%s} logging{level=%s format=%s}",
		c.Marks.UpperCaseForLocal, c.Marks.ColumnUnit,
		c.Persistence.Path, c.Persistence.FlushDelay,
		c.Pending.Timeout,
		c.Logging.Level, c.Logging.Format)
}
