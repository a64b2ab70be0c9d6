package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nibzard/flowtask/internal/config"
	"github.com/nibzard/flowtask/internal/flowdir"
	"github.com/nibzard/flowtask/internal/logging"
	"github.com/nibzard/flowtask/internal/store"
	"github.com/nibzard/flowtask/internal/tasklist"
	"github.com/nibzard/flowtask/internal/todo"
	"github.com/nibzard/flowtask/internal/ui"
)

// emptyTextMessage is shown when an add is rejected for blank text.
const emptyTextMessage = "Please enter a task description!"

// taskCommand runs the task operation op.
func taskCommand(ctx context.Context, cfg *config.Config, op tasklist.Op, args []string) error {
	switch op {
	case tasklist.OpAdd:
		return addCommand(ctx, cfg, args)
	case tasklist.OpToggle:
		return toggleCommand(ctx, cfg, args)
	case tasklist.OpEdit:
		return editCommand(ctx, cfg, args)
	case tasklist.OpDelete:
		return rmCommand(ctx, cfg, args)
	case tasklist.OpList:
		return lsCommand(ctx, cfg, args)
	case tasklist.OpStats:
		return statsCommand(ctx, cfg, args)
	default:
		return fmt.Errorf("%w: %q", tasklist.ErrUnknownOp, op)
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flowtask tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(ctx, cfg, appOptions{journal: true, logToFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.RunTUI(ctx, a.list, newFetcher(cfg, a.logger),
		ui.WithTheme(cfg.Theme),
		ui.WithPriority(cfg.Priority()),
	)
}

// addCommand adds a task from the remaining arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flowtask add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	priorityFlag := fs.String("p", "", "Priority (high, medium, low)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priority := cfg.Priority()
	if *priorityFlag != "" {
		p, err := todo.ParsePriority(*priorityFlag)
		if err != nil {
			return err
		}
		priority = p
	}

	a, err := openApp(ctx, cfg, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.list.Dispatch(ctx, tasklist.Command{
		Op:       tasklist.OpAdd,
		Text:     strings.Join(fs.Args(), " "),
		Priority: priority,
	})
	if err != nil {
		if errors.Is(err, todo.ErrEmptyText) {
			fmt.Fprintln(stderr, emptyTextMessage)
		}
		return err
	}

	fmt.Fprintf(stdout, "Added task %d: %s (%s)\n", res.Task.ID, res.Task.Text, res.Task.Priority.Label())
	return nil
}

// lsCommand lists tasks in display order.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flowtask ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (pending|done)")
	verbose := fs.Bool("v", false, "Show creation dates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) >= 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	var keep func(todo.Task) bool
	switch strings.ToLower(*statusFilter) {
	case "":
	case "pending":
		keep = func(t todo.Task) bool { return !t.Completed }
	case "done", "completed":
		keep = func(t todo.Task) bool { return t.Completed }
	default:
		return fmt.Errorf("invalid status %q, must be one of: pending, done", *statusFilter)
	}

	a, err := openApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.list.Dispatch(ctx, tasklist.Command{Op: tasklist.OpList})
	if err != nil {
		return err
	}

	tasks := res.Tasks
	if keep != nil {
		var filtered []todo.Task
		for _, t := range tasks {
			if keep(t) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	printTaskList(tasks, *verbose)
	return nil
}

// toggleCommand flips the completion state of a task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, _, err := parseIDArgs("toggle", args, false)
	if err != nil {
		return err
	}
	return mutate(ctx, cfg, tasklist.Command{Op: tasklist.OpToggle, ID: id}, func(t todo.Task) string {
		if t.Completed {
			return fmt.Sprintf("Task %d completed!", t.ID)
		}
		return fmt.Sprintf("Task %d marked as pending!", t.ID)
	})
}

// editCommand replaces the text of a task.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, text, err := parseIDArgs("edit", args, true)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(stderr, emptyTextMessage)
		return &todo.ValidationError{Field: "text", Err: todo.ErrEmptyText}
	}
	return mutate(ctx, cfg, tasklist.Command{Op: tasklist.OpEdit, ID: id, Text: text}, func(t todo.Task) string {
		return fmt.Sprintf("Task %d updated: %s", t.ID, t.Text)
	})
}

// rmCommand deletes a task.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, _, err := parseIDArgs("rm", args, false)
	if err != nil {
		return err
	}
	return mutate(ctx, cfg, tasklist.Command{Op: tasklist.OpDelete, ID: id}, func(t todo.Task) string {
		return fmt.Sprintf("Task %d deleted!", t.ID)
	})
}

// mutate opens the list, dispatches c, and reports the changed task.
func mutate(ctx context.Context, cfg *config.Config, c tasklist.Command, describe func(todo.Task) string) error {
	a, err := openApp(ctx, cfg, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.list.Dispatch(ctx, c)
	if err != nil {
		return err
	}
	if res.Task.IsZero() {
		if a.list.Find(c.ID) == nil {
			return fmt.Errorf("task %d not found", c.ID)
		}
		fmt.Fprintf(stdout, "Task %d unchanged\n", c.ID)
		return nil
	}
	fmt.Fprintln(stdout, describe(res.Task))
	return nil
}

// parseIDArgs parses "<id>" or "<id> <text...>" for a subcommand.
func parseIDArgs(name string, args []string, wantText bool) (int, string, error) {
	usage := fmt.Sprintf("usage: flowtask %s <id>", name)
	if wantText {
		usage += " <text>"
	}
	if len(args) == 0 {
		return 0, "", errors.New(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, "", fmt.Errorf("invalid task id %q", args[0])
	}
	rest := args[1:]
	if !wantText {
		if len(rest) > 0 {
			return 0, "", fmt.Errorf("unexpected arguments: %v", rest)
		}
		return id, "", nil
	}
	if len(rest) == 0 {
		return 0, "", errors.New(usage)
	}
	return id, strings.Join(rest, " "), nil
}

// statsCommand prints task counts.
func statsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flowtask stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print counts as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.list.Dispatch(ctx, tasklist.Command{Op: tasklist.OpStats})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		return enc.Encode(res.Stats)
	}
	fmt.Fprintf(stdout, "Total: %d\n", res.Stats.Total)
	fmt.Fprintf(stdout, "Completed: %d\n", res.Stats.Completed)
	fmt.Fprintf(stdout, "Pending: %d\n", res.Stats.Pending)
	if res.Stats.AllDone() {
		fmt.Fprintln(stdout, "🎉 All Tasks Completed!")
	}
	return nil
}

// quoteCommand prints one motivational quote.
func quoteCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	fmt.Fprintln(stdout, newFetcher(cfg, logger).Fetch(ctx).String())
	return nil
}

// doctorCommand checks config, storage, and the stored tasks.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("flowtask doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "FlowTask Doctor")
	fmt.Fprintln(stdout, "===============")
	fmt.Fprintln(stdout)

	allOK := true

	// Check config
	fmt.Fprintln(stdout, "Config:")
	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "  File: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "  File: (none, using defaults)")
	}
	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(stdout, "  ❌ %s\n", line)
		}
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	if *verbose {
		keys := make([]string, 0, len(cws.Sources))
		for k := range cws.Sources {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(stdout, "     %s: %s\n", k, cws.Sources[k])
		}
	}
	fmt.Fprintln(stdout)

	// Check data dir
	fmt.Fprintf(stdout, "Data dir: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not created yet (created on first write)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Not a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	// Check storage
	fmt.Fprintf(stdout, "Storage: %s\n", cfg.Storage)
	kv, err := store.OpenKV(ctx, cfg.Storage, flowdir.StorePath(cfg.DataDir), cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
		s := store.New(kv, store.WithKey(cfg.BlobKey), store.WithLogger(logging.Discard()))
		defer s.Close()
		fmt.Fprintln(stdout)

		report := s.Inspect(ctx)
		fmt.Fprintf(stdout, "Tasks (%s):\n", report.Key)
		switch {
		case !report.Valid():
			fmt.Fprintf(stdout, "  ❌ Stored tasks are invalid and will load as empty (%d problems)\n", len(report.Errors))
			for _, e := range report.Errors {
				fmt.Fprintf(stdout, "     - %v\n", e)
			}
			allOK = false
		case !report.Found:
			fmt.Fprintln(stdout, "  ⚠️  No saved tasks (sample tasks are added on first run)")
		default:
			stats := todo.ComputeStats(report.Tasks)
			fmt.Fprintf(stdout, "  ✅ %d tasks (%d completed, %d pending), next id %d\n",
				stats.Total, stats.Completed, stats.Pending, todo.NextID(report.Tasks))
			if *verbose {
				for _, t := range todo.SortForDisplay(report.Tasks) {
					printTask(t, false)
				}
			}
		}
	}
	fmt.Fprintln(stdout)

	// Check journal
	logsDir := flowdir.LogsPath(cfg.DataDir)
	fmt.Fprintf(stdout, "Journal: %s\n", logsDir)
	if !cfg.Journal {
		fmt.Fprintln(stdout, "  ⚠️  Disabled")
	} else if latest, err := logging.FindLatest(logsDir); err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else if latest == "" {
		fmt.Fprintln(stdout, "  ✅ OK (no runs yet)")
	} else {
		fmt.Fprintf(stdout, "  ✅ OK (latest: %s)\n", latest)
	}
	fmt.Fprintln(stdout)

	// Overall status
	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. FlowTask may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// initCommand writes an example config file to the data dir.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flowtask init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	path := flowdir.ConfigPath(cfg.DataDir)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config file already exists: %s (use -force to overwrite)", path)
	}
	if err := flowdir.Ensure(cfg.DataDir); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

// tailCommand shows the latest activity journal.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	// Parse tail-specific flags
	fs := flag.NewFlagSet("flowtask tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatest(flowdir.LogsPath(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("finding latest journal: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.Tail(ctx, stdout, logPath, *n, *follow)
}

// printTaskList prints tasks in the given order.
func printTaskList(tasks []todo.Task, verbose bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return
	}
	for _, t := range tasks {
		printTask(t, verbose)
	}
}

// printTask prints a single task.
func printTask(t todo.Task, verbose bool) {
	statusIcon := "[ ]"
	if t.Completed {
		statusIcon = "[x]"
	}

	fmt.Fprintf(stdout, "  %s %3d  %-6s  %s\n", statusIcon, t.ID, t.Priority, t.Text)

	if verbose {
		fmt.Fprintf(stdout, "           Created: %s\n", t.CreatedAt.Local().Format("Mon, Jan 2 2006 15:04"))
	}
}
