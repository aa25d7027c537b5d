// Package config loads the TOML configuration with .env and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/javajack/sheetlive"
	"github.com/javajack/sheetlive/preset"
	"github.com/javajack/sheetlive/source"
)

// Config is the contents of a sheetlive TOML file.
type Config struct {
	Presets  []string                  `toml:"presets"`
	Sheet    SheetConfig               `toml:"sheet"`
	Poll     PollConfig                `toml:"poll"`
	Server   ServerConfig              `toml:"server"`
	Log      LogConfig                 `toml:"log"`
	Overlay  OverlayConfig             `toml:"overlay"`
	Settings map[string]map[string]any `toml:"settings"`
}

// SheetConfig selects the spreadsheet to poll.
type SheetConfig struct {
	Source        string `toml:"source" env:"SHEETLIVE_SOURCE"` // values | feed | xlsx
	SpreadsheetID string `toml:"spreadsheet_id" env:"SHEETLIVE_SPREADSHEET_ID"`
	Worksheet     string `toml:"worksheet" env:"SHEETLIVE_WORKSHEET"`
	APIKey        string `toml:"api_key" env:"SHEETLIVE_API_KEY"`
	BaseURL       string `toml:"base_url" env:"SHEETLIVE_BASE_URL"`
	File          string `toml:"file" env:"SHEETLIVE_FILE"`
}

// PollConfig controls the poll loop.
type PollConfig struct {
	IntervalMS int  `toml:"interval_ms" env:"SHEETLIVE_POLL_INTERVAL_MS"`
	TimeoutMS  int  `toml:"timeout_ms" env:"SHEETLIVE_POLL_TIMEOUT_MS"` // 0 means the interval
	AutoStart  bool `toml:"auto_start" env:"SHEETLIVE_AUTO_START"`
}

// ServerConfig controls the overlay HTTP server.
type ServerConfig struct {
	Addr    string `toml:"addr" env:"SHEETLIVE_ADDR"`
	DevMode bool   `toml:"dev_mode" env:"SHEETLIVE_DEV_MODE"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level      string `toml:"level" env:"SHEETLIVE_LOG_LEVEL"`
	Format     string `toml:"format" env:"SHEETLIVE_LOG_FORMAT"` // text | json
	File       string `toml:"file" env:"SHEETLIVE_LOG_FILE"`     // empty logs to stderr
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// OverlayConfig declares the display elements. With no elements the board
// accepts any id.
type OverlayConfig struct {
	Elements []string `toml:"elements"`
}

// DefaultConfig returns the configuration used for anything the file leaves out.
func DefaultConfig() *Config {
	return &Config{
		Sheet: SheetConfig{
			Source: source.KindValues,
		},
		Poll: PollConfig{
			IntervalMS: int(sheetlive.DefaultInterval / time.Millisecond),
			AutoStart:  true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads path on top of the defaults. A .env file next to it is loaded
// into the environment first (existing variables win), then SHEETLIVE_*
// variables override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals TOML into cfg, keeping any value the document leaves out.
func Decode(data []byte, cfg *Config) error {
	var decodeErr *toml.DecodeError
	if err := toml.Unmarshal(data, cfg); err != nil {
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("line %d column %d: %s", row, col, decodeErr.Error())
		}
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	for _, section := range []any{&c.Sheet, &c.Poll, &c.Server, &c.Log} {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("environment: %w", err)
		}
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := source.New(c.SourceConfig()); err != nil {
		result = multierror.Append(result, fmt.Errorf("sheet: %w", err))
	}
	if c.Poll.IntervalMS <= 0 {
		result = multierror.Append(result, fmt.Errorf("poll.interval_ms must be positive, got %d", c.Poll.IntervalMS))
	}
	if c.Poll.TimeoutMS < 0 {
		result = multierror.Append(result, fmt.Errorf("poll.timeout_ms must not be negative, got %d", c.Poll.TimeoutMS))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	for _, name := range c.Presets {
		if _, ok := preset.Lookup(name); !ok {
			result = multierror.Append(result, fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(preset.Names(), ", ")))
		}
	}
	if len(c.Settings) == 0 {
		result = multierror.Append(result, fmt.Errorf("settings: %w", sheetlive.ErrEmptyConfiguration))
	}

	return result.ErrorOrNil()
}

// SourceConfig returns the source.Config for the [sheet] section.
func (c *Config) SourceConfig() source.Config {
	return source.Config{
		Kind:          c.Sheet.Source,
		BaseURL:       c.Sheet.BaseURL,
		SpreadsheetID: c.Sheet.SpreadsheetID,
		Worksheet:     c.Sheet.Worksheet,
		APIKey:        c.Sheet.APIKey,
		File:          c.Sheet.File,
	}
}

// UpdaterSettings returns the [settings] tables in the shape Compile expects.
func (c *Config) UpdaterSettings() sheetlive.Settings {
	return sheetlive.Settings(c.Settings)
}

// Interval returns the poll interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// Timeout returns the per-request timeout, zero meaning "use the interval".
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Poll.TimeoutMS) * time.Millisecond
}

// Options converts the configuration into updater options, presets included.
func (c *Config) Options(log logrus.FieldLogger) []sheetlive.Option {
	opts := []sheetlive.Option{
		sheetlive.WithInterval(c.Interval()),
		sheetlive.WithTimeout(c.Timeout()),
		sheetlive.WithLogger(log),
	}
	for _, name := range c.Presets {
		if p, ok := preset.Lookup(name); ok {
			opts = append(opts, sheetlive.WithPreset(p))
		}
	}
	return opts
}
