package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args, and applies only the
// flags that were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("flowtask", flag.ContinueOnError)
	}

	var (
		dataDir     = cfg.DataDir
		storage     = cfg.Storage
		databaseURL = cfg.DatabaseURL
		seed        = cfg.Seed
		priority    = cfg.DefaultPriority
		theme       = cfg.Theme
		quotes      = cfg.Quotes
		logLevel    = cfg.LogLevel
		logFormat   = cfg.LogFormat
	)

	fs.StringVar(&dataDir, "data-dir", dataDir, "Data directory for the task store and journals")
	fs.StringVar(&storage, "storage", storage, "Storage backend (file, memory, postgres)")
	fs.StringVar(&databaseURL, "database-url", databaseURL, "PostgreSQL connection URL for the postgres backend")
	fs.BoolVar(&seed, "seed", seed, "Seed sample tasks when the list is empty")
	fs.StringVar(&priority, "priority", priority, "Default priority for new tasks (high, medium, low)")
	fs.StringVar(&theme, "theme", theme, "TUI palette (day, night)")
	fs.BoolVar(&quotes, "quotes", quotes, "Fetch motivational quotes from the network")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	apply := map[string]struct {
		field string
		set   func()
	}{
		"data-dir":     {"data_dir", func() { cfg.DataDir = dataDir }},
		"storage":      {"storage", func() { cfg.Storage = storage }},
		"database-url": {"database_url", func() { cfg.DatabaseURL = databaseURL }},
		"seed":         {"seed", func() { cfg.Seed = seed }},
		"priority":     {"default_priority", func() { cfg.DefaultPriority = priority }},
		"theme":        {"theme", func() { cfg.Theme = theme }},
		"quotes":       {"quotes", func() { cfg.Quotes = quotes }},
		"log-level":    {"log_level", func() { cfg.LogLevel = logLevel }},
		"log-format":   {"log_format", func() { cfg.LogFormat = logFormat }},
	}

	fs.Visit(func(f *flag.Flag) {
		binding, ok := apply[f.Name]
		if !ok {
			return
		}
		binding.set()
		if sources != nil {
			sources[binding.field] = SourceFlag
		}
	})

	return nil
}
