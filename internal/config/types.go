package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/flowtask/internal/store"
	"github.com/nibzard/flowtask/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir             = "~/.flowtask"
	DefaultStorage             = store.BackendFile
	DefaultBlobKey             = store.DefaultKey
	DefaultPriority            = string(todo.PriorityHigh)
	DefaultTheme               = ThemeDay
	DefaultQuoteTimeoutSeconds = 5
)

// Themes accepted by the theme setting.
const (
	ThemeDay   = "day"
	ThemeNight = "night"
)

// DefaultQuoteSources returns the quote endpoints tried in order.
func DefaultQuoteSources() []string {
	return []string{
		"https://api.quotable.io/random",
		"https://zenquotes.io/api/random",
		"https://stoic-quotes.com/api/quote",
	}
}

// Config holds the full configuration for flowtask.
type Config struct {
	// Storage
	DataDir     string `toml:"data_dir"`
	Storage     string `toml:"storage"`
	DatabaseURL string `toml:"database_url"`
	BlobKey     string `toml:"blob_key"`
	Seed        bool   `toml:"seed"`

	// Tasks
	DefaultPriority string `toml:"default_priority"`

	// Presentation
	Theme               string   `toml:"theme"`
	Quotes              bool     `toml:"quotes"`
	QuoteSources        []string `toml:"quote_sources"`
	QuoteTimeoutSeconds int      `toml:"quote_timeout_seconds"`

	// Activity journal
	Journal bool `toml:"journal"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// Priority returns the default priority for new tasks, falling back to high.
func (c *Config) Priority() todo.Priority {
	p, err := todo.ParsePriority(c.DefaultPriority)
	if err != nil {
		return todo.PriorityHigh
	}
	return p
}

// QuoteTimeout returns the per-source quote timeout.
func (c *Config) QuoteTimeout() time.Duration {
	if c.QuoteTimeoutSeconds <= 0 {
		return DefaultQuoteTimeoutSeconds * time.Second
	}
	return time.Duration(c.QuoteTimeoutSeconds) * time.Second
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case store.BackendFile, store.BackendMemory:
	case store.BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("storage: postgres requires database_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage: unknown backend %q, must be one of: file, memory, postgres", c.Storage))
	}

	if c.Storage == store.BackendFile && strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir: must not be empty"))
	}
	if strings.TrimSpace(c.BlobKey) == "" {
		errs = append(errs, errors.New("blob_key: must not be empty"))
	}
	if _, err := todo.ParsePriority(c.DefaultPriority); err != nil {
		errs = append(errs, fmt.Errorf("default_priority: %w", err))
	}
	switch c.Theme {
	case ThemeDay, ThemeNight:
	default:
		errs = append(errs, fmt.Errorf("theme: unknown theme %q, must be day or night", c.Theme))
	}
	if c.QuoteTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("quote_timeout_seconds: must not be negative, got %d", c.QuoteTimeoutSeconds))
	}

	return errors.Join(errs...)
}
