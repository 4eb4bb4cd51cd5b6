// Package config loads the ralph-sol.toml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/harness"
	"github.com/raymyers/ralph-sol/pkg/parser"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "ralph-sol.toml"

// Config is the decoded project file.
type Config struct {
	Harness HarnessConfig `toml:"harness"`
	Output  OutputConfig  `toml:"output"`
	Log     LogConfig     `toml:"log"`
	Parser  ParserConfig  `toml:"parser"`
	Watch   WatchConfig   `toml:"watch"`
}

type HarnessConfig struct {
	Workers           int      `toml:"workers"`
	SourceMarker      string   `toml:"source_marker"`
	ExcludeCategories []string `toml:"exclude_categories"`
	Extensions        []string `toml:"extensions"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  bool   `toml:"color"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ParserConfig struct {
	ContractRestrictions bool `toml:"contract_restrictions"`
}

type WatchConfig struct {
	Debounce string `toml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	h := harness.DefaultConfig()
	return &Config{
		Harness: HarnessConfig{
			SourceMarker:      h.SourceMarker,
			ExcludeCategories: h.ExcludeCategories,
			Extensions:        h.Extensions,
		},
		Output: OutputConfig{Format: string(diag.FormatText)},
		Log:    LogConfig{Level: "warn"},
		Watch:  WatchConfig{Debounce: "200ms"},
	}
}

// Load reads path on top of the defaults. A missing file is not an error when
// path is the default file name; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Harness.Workers < 0 {
		return fmt.Errorf("harness.workers must not be negative, got %d", c.Harness.Workers)
	}
	if _, err := diag.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	return nil
}

// ParserOptions translates the [parser] section.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{parser.WithContractRestrictions(c.Parser.ContractRestrictions)}
}

// HarnessConfig translates the [harness] and [parser] sections.
func (c *Config) HarnessConfig() harness.Config {
	return harness.Config{
		SourceMarker:      c.Harness.SourceMarker,
		ExcludeCategories: c.Harness.ExcludeCategories,
		Extensions:        c.Harness.Extensions,
		ParserOptions:     c.ParserOptions(),
	}
}

// DebounceInterval returns the watch debounce, falling back to 200ms.
func (c *Config) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
