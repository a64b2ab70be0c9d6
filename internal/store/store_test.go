package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/flowtask/internal/todo"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func testTasks() []todo.Task {
	return []todo.Task{
		{ID: 4, Text: "Water the plants", Priority: todo.PriorityMedium, CreatedAt: testNow},
		{ID: 2, Text: "Pay rent", Completed: true, Priority: todo.PriorityHigh, CreatedAt: testNow.Add(-time.Hour)},
		{ID: 1, Text: "Stretch", Priority: todo.PriorityLow, CreatedAt: testNow.Add(-48 * time.Hour)},
	}
}

func TestLoadAndSave(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	s := New(kv)

	original := testTasks()
	if err := s.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := s.Load(ctx)
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("Load(Save(tasks)) = %+v, want %+v", loaded, original)
	}
}

func TestLoadMissingBlob(t *testing.T) {
	s := New(NewMemoryKV())
	loaded := s.Load(context.Background())
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", loaded)
	}
}

func TestLoadMalformedBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{not json`},
		{"null", `null`},
		{"object", `{"id": 1}`},
		{"missing field", `[{"id": 1, "text": "a", "completed": false, "priority": "high"}]`},
		{"bad priority", `[{"id": 1, "text": "a", "completed": false, "priority": "urgent", "createdAt": "2024-01-01T00:00:00Z"}]`},
		{"blank text", `[{"id": 1, "text": "   ", "completed": false, "priority": "low", "createdAt": "2024-01-01T00:00:00Z"}]`},
		{"zero id", `[{"id": 0, "text": "a", "completed": false, "priority": "low", "createdAt": "2024-01-01T00:00:00Z"}]`},
		{"bad timestamp", `[{"id": 1, "text": "a", "completed": false, "priority": "low", "createdAt": "yesterday"}]`},
		{"duplicate ids", `[
			{"id": 1, "text": "a", "completed": false, "priority": "low", "createdAt": "2024-01-01T00:00:00Z"},
			{"id": 1, "text": "b", "completed": true, "priority": "high", "createdAt": "2024-01-01T00:00:00Z"}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			if err := kv.Set(ctx, DefaultKey, tt.blob); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
			s := New(kv, WithLogger(logger))

			loaded := s.Load(ctx)
			if len(loaded) != 0 {
				t.Errorf("Load() = %+v, want empty", loaded)
			}
			if !strings.Contains(buf.String(), "Discarding persisted tasks") {
				t.Errorf("expected warning to be logged, got %q", buf.String())
			}

			report := s.Inspect(ctx)
			if report.Valid() || !report.Found {
				t.Errorf("Inspect() = %+v, want found and invalid", report)
			}
		})
	}
}

func TestSaveBacksUpRejectedBlob(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	blob := `[{"id": 7, "text": "real user task", "completed": false, "priority": "urgent", "createdAt": "2024-01-01T00:00:00Z"}]`
	if err := kv.Set(ctx, DefaultKey, blob); err != nil {
		t.Fatal(err)
	}

	s := New(kv)
	if loaded := s.Load(ctx); len(loaded) != 0 {
		t.Fatalf("Load() = %+v, want empty", loaded)
	}
	if !s.Rejected() {
		t.Fatal("Rejected() = false after discarding a blob")
	}

	if err := s.Save(ctx, testTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	backup, ok, err := kv.Get(ctx, s.BackupKey())
	if err != nil || !ok {
		t.Fatalf("backup Get = %v, %v", ok, err)
	}
	if backup != blob {
		t.Errorf("backup = %q, want the rejected blob", backup)
	}

	// Later saves leave the backup alone.
	if err := kv.Set(ctx, s.BackupKey(), "kept"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := kv.Get(ctx, s.BackupKey()); got != "kept" {
		t.Errorf("backup overwritten by a second save: %q", got)
	}
}

func TestRejectedClearedByValidLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := New(kv)

	if s.Load(ctx); s.Rejected() {
		t.Error("missing blob reported as rejected")
	}
	if err := kv.Set(ctx, DefaultKey, `{not json`); err != nil {
		t.Fatal(err)
	}
	if s.Load(ctx); !s.Rejected() {
		t.Error("malformed blob not reported as rejected")
	}
	if err := kv.Set(ctx, DefaultKey, `[]`); err != nil {
		t.Fatal(err)
	}
	if s.Load(ctx); s.Rejected() {
		t.Error("valid blob reported as rejected")
	}
	if err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(ctx, s.BackupKey()); ok {
		t.Error("backup written for a valid blob")
	}
}

func TestLoadMillisecondTimestamps(t *testing.T) {
	// Browser-style ISO timestamps carry milliseconds.
	blob := `[{"id":7,"text":"Ship it","completed":false,"priority":"high","createdAt":"2024-05-02T10:11:12.345Z"}]`
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Set(ctx, DefaultKey, blob); err != nil {
		t.Fatal(err)
	}

	loaded := New(kv).Load(ctx)
	if len(loaded) != 1 {
		t.Fatalf("Load() = %+v, want one task", loaded)
	}
	want := time.Date(2024, 5, 2, 10, 11, 12, 345000000, time.UTC)
	if !loaded[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", loaded[0].CreatedAt, want)
	}
}

func TestInspectReportsPaths(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	blob := `[{"id": 1, "text": "a", "completed": false, "priority": "urgent", "createdAt": "2024-01-01T00:00:00Z"}]`
	if err := kv.Set(ctx, DefaultKey, blob); err != nil {
		t.Fatal(err)
	}

	report := New(kv).Inspect(ctx)
	if len(report.Errors) == 0 {
		t.Fatal("expected validation errors")
	}
	var ve *todo.ValidationError
	if !errors.As(report.Errors[0], &ve) {
		t.Fatalf("expected *todo.ValidationError, got %T", report.Errors[0])
	}
	if ve.Field != "[0].priority" {
		t.Errorf("Field = %q, want [0].priority", ve.Field)
	}
}

func TestSaveFormat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv, _ := NewFileKV(dir)
	s := New(kv)

	if err := s.Save(ctx, testTasks()[:1]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(kv.Path(DefaultKey))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := `[
  {
    "id": 4,
    "text": "Water the plants",
    "completed": false,
    "priority": "medium",
    "createdAt": "2024-03-01T09:30:00Z"
  }
]
`
	if string(data) != want {
		t.Errorf("saved blob:\n%s\nwant:\n%s", data, want)
	}
}

func TestSaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := New(kv).Save(ctx, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	v, ok, _ := kv.Get(ctx, DefaultKey)
	if !ok || v != "[]\n" {
		t.Errorf("blob = %q, want %q", v, "[]\n")
	}
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := New(kv, WithKey("otherTasks"), WithKey("  "))
	if s.Key() != "otherTasks" {
		t.Fatalf("Key() = %q, want otherTasks", s.Key())
	}
	if err := s.Save(ctx, testTasks()); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(ctx, "otherTasks"); !ok {
		t.Error("expected blob under otherTasks")
	}
	if _, ok, _ := kv.Get(ctx, DefaultKey); ok {
		t.Error("did not expect blob under default key")
	}
}

type failingKV struct {
	MemoryKV
	err error
}

func (f *failingKV) Set(ctx context.Context, name, value string) error {
	return f.err
}

func (f *failingKV) Get(ctx context.Context, name string) (string, bool, error) {
	return "", false, f.err
}

func TestSaveError(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := New(&failingKV{err: boom})
	err := s.Save(context.Background(), testTasks())
	if !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want wrapping %v", err, boom)
	}
}

func TestLoadReadErrorIsEmpty(t *testing.T) {
	s := New(&failingKV{err: errors.New("disk gone")})
	if loaded := s.Load(context.Background()); len(loaded) != 0 {
		t.Errorf("Load() = %+v, want empty", loaded)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/3/priority", "[3].priority"},
		{"#/1/text", "[1].text"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}

	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
