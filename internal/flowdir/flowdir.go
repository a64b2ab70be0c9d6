// Package flowdir provides constants and utilities for the flowtask data directory layout.
package flowdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// Dir is the name of the default data directory under the user's home.
	Dir = ".flowtask"

	// StoreDir holds the file-backed blob store.
	StoreDir = "store"

	// LogsDir holds the per-run activity journals.
	LogsDir = "logs"

	// LogFile receives console logs while the terminal UI owns the screen.
	LogFile = "flowtask.log"

	// ConfigFile is the config file name inside the data directory.
	ConfigFile = "flowtask.toml"
)

// Default returns ~/.flowtask, or .flowtask when the home directory is unknown.
func Default() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// StorePath returns the blob store directory within dataDir.
func StorePath(dataDir string) string {
	return join(dataDir, StoreDir)
}

// LogsPath returns the journal directory within dataDir.
func LogsPath(dataDir string) string {
	return join(dataDir, LogsDir)
}

// LogFilePath returns the TUI log file within dataDir.
func LogFilePath(dataDir string) string {
	return join(dataDir, LogFile)
}

// ConfigPath returns the config file within dataDir.
func ConfigPath(dataDir string) string {
	return join(dataDir, ConfigFile)
}

// Ensure creates dataDir and its store and logs subdirectories.
func Ensure(dataDir string) error {
	for _, dir := range []string{StorePath(dataDir), LogsPath(dataDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func join(dataDir, name string) string {
	if strings.TrimSpace(dataDir) == "" {
		return filepath.Join(Dir, name)
	}
	return filepath.Join(dataDir, name)
}
