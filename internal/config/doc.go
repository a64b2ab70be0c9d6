// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.flowtask/flowtask.toml or OS-specific config directory)
// 3. Project config file (flowtask.toml or .flowtask.toml in the working directory)
// 4. Environment variables (FLOWTASK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.flowtask/flowtask.toml (preferred)
// - Windows: %APPDATA%\flowtask\flowtask.toml
// - macOS: ~/Library/Application Support/flowtask/flowtask.toml
// - Linux/BSD: $XDG_CONFIG_HOME/flowtask/flowtask.toml or ~/.config/flowtask/flowtask.toml
//
// Project-level config locations (overrides user config):
// - ./flowtask.toml (preferred)
// - ./.flowtask.toml
package config
