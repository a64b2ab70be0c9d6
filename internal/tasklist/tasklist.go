// Package tasklist owns the live task collection: it loads it from a store,
// applies operations, and persists after every effective change.
//
// Ids come from a counter started at one past the largest stored id. They never
// repeat within one List, but a new List (each CLI invocation opens one)
// starts from the stored tasks again, so the id of a deleted newest task can
// be handed out once more.
//
// A List is not safe for concurrent use.
package tasklist

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/flowtask/internal/logging"
	"github.com/nibzard/flowtask/internal/todo"
)

// Store is the persistence the list needs.
type Store interface {
	Load(ctx context.Context) []todo.Task
	Save(ctx context.Context, tasks []todo.Task) error
}

// rejecter is implemented by stores that can tell a discarded blob apart from
// a missing one.
type rejecter interface {
	Rejected() bool
}

// Result describes the state after an operation.
type Result struct {
	Tasks   []todo.Task // post-operation collection in storage order
	Task    todo.Task   // task that was added or changed, zero otherwise
	Changed bool
	Stats   todo.Stats
}

// List is the task list state.
type List struct {
	tasks   []todo.Task
	ids     *todo.Counter
	store   Store
	now     func() time.Time
	logger  *log.Logger
	journal *logging.Journal
	seed    bool
	seeded  bool
}

// Option configures a List.
type Option func(*List)

// WithClock sets the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithJournal records every effective change to j.
func WithJournal(j *logging.Journal) Option {
	return func(l *List) {
		l.journal = j
	}
}

// WithSeed controls whether an empty list is seeded with sample tasks.
// Seeding is on by default.
func WithSeed(seed bool) Option {
	return func(l *List) {
		l.seed = seed
	}
}

// Open loads the collection from store and initializes the id counter.
// An empty collection is seeded and saved unless seeding is disabled or the
// store discarded an unreadable blob.
func Open(ctx context.Context, store Store, opts ...Option) (*List, error) {
	l := &List{
		store:  store,
		now:    time.Now,
		logger: log.New(io.Discard),
		seed:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.tasks = store.Load(ctx)
	l.ids = todo.NewCounter(l.tasks)
	l.logger.Debug("Loaded tasks", "count", len(l.tasks), "next_id", l.ids.Peek())

	if r, ok := store.(rejecter); ok && r.Rejected() {
		l.logger.Warn("Stored tasks could not be read; not seeding")
	} else if l.seed {
		seeded, ok := todo.SeedIfEmpty(l.tasks, l.ids, l.now())
		if ok {
			l.tasks = seeded
			l.seeded = true
			l.logger.Info("Seeded sample tasks", "count", len(seeded))
			l.persist(ctx)
		}
	}
	return l, nil
}

// Seeded reports whether Open seeded the sample tasks.
func (l *List) Seeded() bool {
	return l.seeded
}

// NextID returns the id the next added task will get.
func (l *List) NextID() int {
	return l.ids.Peek()
}

// Tasks returns a copy of the collection in storage order.
func (l *List) Tasks() []todo.Task {
	out := make([]todo.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Sorted returns the collection in display order.
func (l *List) Sorted() []todo.Task {
	return todo.SortForDisplay(l.tasks)
}

// Stats returns the current counts.
func (l *List) Stats() todo.Stats {
	return todo.ComputeStats(l.tasks)
}

// Find returns the task with id, or nil.
func (l *List) Find(id int) *todo.Task {
	return todo.Find(l.tasks, id)
}

// Add creates a task. A *todo.ValidationError leaves the list untouched.
func (l *List) Add(ctx context.Context, text string, priority todo.Priority) (Result, error) {
	tasks, task, err := todo.Add(l.tasks, text, priority, l.ids, l.now())
	if err != nil {
		return l.result(todo.Task{}, false), err
	}
	l.commit(ctx, tasks)
	l.record("add", task)
	return l.result(task, true), nil
}

// Toggle flips the completion flag of task id.
func (l *List) Toggle(ctx context.Context, id int) Result {
	tasks, ok := todo.Toggle(l.tasks, id)
	return l.apply(ctx, "toggle", id, tasks, ok)
}

// Edit replaces the text of task id.
func (l *List) Edit(ctx context.Context, id int, text string) Result {
	tasks, ok := todo.Edit(l.tasks, id, text)
	return l.apply(ctx, "edit", id, tasks, ok)
}

// Delete removes task id.
func (l *List) Delete(ctx context.Context, id int) Result {
	removed := todo.Find(l.tasks, id)
	tasks, ok := todo.Delete(l.tasks, id)
	if !ok {
		return l.result(todo.Task{}, false)
	}
	l.commit(ctx, tasks)
	l.record("delete", *removed)
	return l.result(*removed, true)
}

func (l *List) apply(ctx context.Context, op string, id int, tasks []todo.Task, ok bool) Result {
	if !ok {
		l.logger.Debug("No-op", "op", op, "id", id)
		return l.result(todo.Task{}, false)
	}
	l.commit(ctx, tasks)
	task := todo.Find(l.tasks, id)
	l.record(op, *task)
	return l.result(*task, true)
}

func (l *List) commit(ctx context.Context, tasks []todo.Task) {
	l.tasks = tasks
	l.persist(ctx)
}

// persist saves the collection. Failures are logged; the in-memory list stays
// authoritative.
func (l *List) persist(ctx context.Context) {
	if err := l.store.Save(ctx, l.tasks); err != nil {
		l.logger.Error("Failed to save tasks", "err", err)
	}
}

func (l *List) record(op string, task todo.Task) {
	err := l.journal.Record(logging.Event{
		Time:      l.now().UTC(),
		Op:        op,
		ID:        task.ID,
		Text:      task.Text,
		Priority:  string(task.Priority),
		Completed: task.Completed,
	})
	if err != nil {
		l.logger.Warn("Failed to write journal", "err", err)
	}
}

func (l *List) result(task todo.Task, changed bool) Result {
	return Result{
		Tasks:   l.Tasks(),
		Task:    task,
		Changed: changed,
		Stats:   l.Stats(),
	}
}
