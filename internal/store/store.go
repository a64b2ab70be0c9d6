package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/flowtask/internal/todo"
)

// DefaultKey is the blob name the task collection is stored under.
const DefaultKey = "flowTasks"

// BackupSuffix is appended to the key to name the copy of a rejected blob.
const BackupSuffix = ".bak"

//go:embed tasks.schema.json
var tasksSchema string

const schemaURL = "tasks.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func taskSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(tasksSchema)); err != nil {
			compileErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Store loads and saves the task collection through a KV.
type Store struct {
	kv     KV
	key    string
	logger *log.Logger

	// rejected is set when Load discarded a blob. raw holds that blob until
	// the next Save backs it up.
	rejected bool
	raw      string
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the blob name. Blank keys are ignored.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report discarded blobs.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store over kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the blob name.
func (s *Store) Key() string {
	return s.key
}

// Load reads the persisted collection. A missing, unreadable, or malformed
// blob yields an empty collection; the reason is logged, never returned.
func (s *Store) Load(ctx context.Context) []todo.Task {
	report := s.Inspect(ctx)
	s.rejected, s.raw = false, ""
	if len(report.Errors) > 0 {
		s.logger.Warn("Discarding persisted tasks", "key", s.key, "err", errors.Join(report.Errors...))
		s.rejected, s.raw = true, report.Raw
		return []todo.Task{}
	}
	if report.Tasks == nil {
		return []todo.Task{}
	}
	return report.Tasks
}

// Rejected reports whether the last Load found a blob it could not read or
// decode.
func (s *Store) Rejected() bool {
	return s.rejected
}

// BackupKey returns the name a rejected blob is copied to before it is
// overwritten.
func (s *Store) BackupKey() string {
	return s.key + BackupSuffix
}

// Save serializes the full collection and overwrites the blob. A blob the
// last Load rejected is first copied to BackupKey.
func (s *Store) Save(ctx context.Context, tasks []todo.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if s.raw != "" {
		if err := s.kv.Set(ctx, s.BackupKey(), s.raw); err != nil {
			return fmt.Errorf("back up rejected tasks: %w", err)
		}
		s.logger.Warn("Backed up rejected tasks", "key", s.BackupKey())
		s.raw = ""
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Report describes the persisted blob as Load sees it.
type Report struct {
	Key    string
	Found  bool
	Raw    string
	Tasks  []todo.Task
	Errors []error
}

// Valid reports whether the blob, if present, decoded cleanly.
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

// Inspect reads and validates the blob, returning every problem found.
func (s *Store) Inspect(ctx context.Context) Report {
	report := Report{Key: s.key}

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report
	}
	if !ok {
		return report
	}
	report.Found = true
	report.Raw = raw

	tasks, errs := Decode([]byte(raw))
	if len(errs) > 0 {
		report.Errors = errs
		return report
	}
	report.Tasks = tasks
	return report
}

// Encode renders tasks as the persisted JSON array with 2-space indentation
// and a trailing newline.
func Encode(tasks []todo.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a persisted blob.
func Decode(data []byte) ([]todo.Task, []error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []error{fmt.Errorf("parse tasks: %w", err)}
	}

	schema, err := taskSchema()
	if err != nil {
		return nil, []error{err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaErrors(err)
	}

	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, []error{fmt.Errorf("decode tasks: %w", err)}
	}

	seen := make(map[int]int, len(tasks))
	var errs []error
	for i, t := range tasks {
		if first, dup := seen[t.ID]; dup {
			errs = append(errs, &todo.ValidationError{
				Field: fmt.Sprintf("[%d].id", i),
				Err:   fmt.Errorf("duplicate id %d, first used at [%d]", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return tasks, nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, &todo.ValidationError{
			Field: jsonPointerToPath(err.InstanceLocation),
			Err:   errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath converts "/2/priority" into "[2].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
