// Package cmd implements the CLI command structure for flowtask.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/flowtask/internal/config"
	"github.com/nibzard/flowtask/internal/tasklist"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the flowtask CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("flowtask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "quote":
		return quoteCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		// Task operations, with their aliases
		if op, err := tasklist.ParseOp(subcommand); err == nil {
			return taskCommand(ctx, cfg, op, remainingArgs)
		}
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "flowtask version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "FlowTask - a focused task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flowtask [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add [-p P] <text>   Add a task")
	fmt.Fprintln(w, "  ls                  List tasks in display order")
	fmt.Fprintln(w, "  toggle|done <id>    Toggle a task between pending and completed")
	fmt.Fprintln(w, "  edit <id> <text>    Change the text of a task")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  stats [-json]       Show task counts")
	fmt.Fprintln(w, "  quote               Print a motivational quote")
	fmt.Fprintln(w, "  doctor [-v]         Check config, storage, and stored tasks")
	fmt.Fprintln(w, "  init [-force]       Write an example config file to the data dir")
	fmt.Fprintln(w, "  tail                Show the latest activity journal")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -p string")
	fmt.Fprintln(w, "        Priority (high, medium, low; default from config)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (pending|done)")
	fmt.Fprintln(w, "  -v    Show creation dates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
