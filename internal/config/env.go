package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from FLOWTASK_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("FLOWTASK_DATA_DIR"); v != "" {
		cfg.DataDir = v
		mark("data_dir")
	}
	if v := os.Getenv("FLOWTASK_STORAGE"); v != "" {
		cfg.Storage = v
		mark("storage")
	}
	if v := os.Getenv("FLOWTASK_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
		mark("database_url")
	}
	if v := os.Getenv("FLOWTASK_BLOB_KEY"); v != "" {
		cfg.BlobKey = v
		mark("blob_key")
	}
	if v := os.Getenv("FLOWTASK_SEED"); v != "" {
		cfg.Seed = boolFromString(v)
		mark("seed")
	}
	if v := os.Getenv("FLOWTASK_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
		mark("default_priority")
	}
	if v := os.Getenv("FLOWTASK_THEME"); v != "" {
		cfg.Theme = v
		mark("theme")
	}
	if v := os.Getenv("FLOWTASK_QUOTES"); v != "" {
		cfg.Quotes = boolFromString(v)
		mark("quotes")
	}
	if v := os.Getenv("FLOWTASK_QUOTE_SOURCES"); v != "" {
		cfg.QuoteSources = splitAndTrim(v, ",")
		mark("quote_sources")
	}
	if v := os.Getenv("FLOWTASK_QUOTE_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.QuoteTimeoutSeconds = i
			mark("quote_timeout_seconds")
		}
	}
	if v := os.Getenv("FLOWTASK_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		mark("journal")
	}

	// Logging configuration
	if v := os.Getenv("FLOWTASK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("FLOWTASK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("FLOWTASK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
}

// boolFromString accepts 1/true/yes/on, case-insensitively.
func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
