package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYMARKS_"

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads the TOML file at path (if any) over the defaults, applies
// KEYMARKS_* environment overrides and validates the result.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		switch {
		case err == nil:
			if err := cfg.decode(path, data); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	cfg.Persistence.Path = expandHome(cfg.Persistence.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Environment variables are not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode("<data>", data); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		msg := err.Error()
		switch {
		case errors.As(err, &derr):
			row, col := derr.Position()
			msg = fmt.Sprintf("line %d, column %d: %s", row, col, derr.Error())
		case errors.As(err, &serr):
			msg = strings.TrimSpace(serr.String())
		}
		return &ParseError{Path: source, Message: msg, Err: err}
	}
	return nil
}

// envBinding maps one environment variable onto a setting.
type envBinding struct {
	name string
	key  string
	set  func(c *Config, v string) error
}

func envBindings() []envBinding {
	return []envBinding{
		{EnvPrefix + "UPPER_CASE_FOR_LOCAL", "marks.upper_case_for_local", func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Marks.UpperCaseForLocal = b
			return nil
		}},
		{EnvPrefix + "COLUMN_UNIT", "marks.column_unit", func(c *Config, v string) error {
			c.Marks.ColumnUnit = v
			return nil
		}},
		{EnvPrefix + "PERSISTENCE_PATH", "persistence.path", func(c *Config, v string) error {
			c.Persistence.Path = v
			return nil
		}},
		{EnvPrefix + "FLUSH_DELAY", "persistence.flush_delay", func(c *Config, v string) error {
			return c.Persistence.FlushDelay.UnmarshalText([]byte(v))
		}},
		{EnvPrefix + "PENDING_TIMEOUT", "pending.timeout", func(c *Config, v string) error {
			return c.Pending.Timeout.UnmarshalText([]byte(v))
		}},
		{EnvPrefix + "LOG_LEVEL", "logging.level", func(c *Config, v string) error {
			c.Logging.Level = v
			return nil
		}},
		{EnvPrefix + "LOG_FORMAT", "logging.format", func(c *Config, v string) error {
			c.Logging.Format = v
			return nil
		}},
	}
}

// applyEnv overrides settings from the environment. Empty values count as
// set, so KEYMARKS_PERSISTENCE_PATH= disables persistence.
func (c *Config) applyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	for _, b := range envBindings() {
		v, ok := lookup(b.name)
		if !ok {
			continue
		}
		if err := b.set(c, strings.TrimSpace(v)); err != nil {
			return invalid(b.key, "%s=%q: %v", b.name, v, err)
		}
	}
	return nil
}

// EnvVars lists the recognized environment variables.
func EnvVars() []string {
	bs := envBindings()
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.name
	}
	return names
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
