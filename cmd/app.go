package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/flowtask/internal/config"
	"github.com/nibzard/flowtask/internal/flowdir"
	"github.com/nibzard/flowtask/internal/logging"
	"github.com/nibzard/flowtask/internal/quote"
	"github.com/nibzard/flowtask/internal/store"
	"github.com/nibzard/flowtask/internal/tasklist"
)

// app bundles the opened runtime pieces a command works with.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	store   *store.Store
	list    *tasklist.List
	journal *logging.Journal
	logFile *os.File
}

type appOptions struct {
	// journal records mutations when the config enables it.
	journal bool
	// logToFile sends console logs to the data dir instead of stderr.
	logToFile bool
}

// openApp validates cfg, prepares the data directory, opens the configured
// store, and loads the task list.
func openApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	needDir := cfg.Storage == store.BackendFile || (opts.journal && cfg.Journal) || opts.logToFile
	if needDir {
		if err := flowdir.Ensure(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	a := &app{cfg: cfg}

	var logw io.Writer = stderr
	if opts.logToFile {
		f, err := os.OpenFile(flowdir.LogFilePath(cfg.DataDir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		logw = f
	}
	a.logger = logging.NewConsoleFromConfig(logw, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps || opts.logToFile)

	kv, err := store.OpenKV(ctx, cfg.Storage, flowdir.StorePath(cfg.DataDir), cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	a.store = store.New(kv, store.WithKey(cfg.BlobKey), store.WithLogger(a.logger))

	if opts.journal && cfg.Journal {
		j, err := logging.NewJournal(flowdir.LogsPath(cfg.DataDir))
		if err != nil {
			a.logger.Warn("Journal disabled", "err", err)
		} else {
			a.journal = j
		}
	}

	list, err := tasklist.Open(ctx, a.store,
		tasklist.WithLogger(a.logger),
		tasklist.WithJournal(a.journal),
		tasklist.WithSeed(cfg.Seed),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	a.list = list
	return a, nil
}

// Close releases the journal, store, and log file.
func (a *app) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.journal != nil {
		keep(a.journal.Close())
	}
	if a.store != nil {
		keep(a.store.Close())
	}
	if a.logFile != nil {
		keep(a.logFile.Close())
	}
	return firstErr
}

// newFetcher builds the quote fetcher for cfg. With quotes disabled it serves
// the built-in quotes only.
func newFetcher(cfg *config.Config, logger *log.Logger) *quote.Fetcher {
	var sources []quote.Source
	if cfg.Quotes {
		sources = quote.SourcesFromURLs(cfg.QuoteSources)
	}
	return quote.NewFetcher(sources,
		quote.WithTimeout(cfg.QuoteTimeout()),
		quote.WithLogger(logger),
	)
}
