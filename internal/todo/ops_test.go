package todo

import (
	"errors"
	"reflect"
	"testing"
)

func sampleTasks() []Task {
	return []Task{
		{ID: 3, Text: "Third", Priority: PriorityLow, CreatedAt: testNow},
		{ID: 2, Text: "Second", Completed: true, Priority: PriorityHigh, CreatedAt: testNow},
		{ID: 1, Text: "First", Priority: PriorityMedium, CreatedAt: testNow},
	}
}

func TestAddToEmpty(t *testing.T) {
	for _, p := range Priorities {
		t.Run(string(p), func(t *testing.T) {
			ids := NewCounter(nil)
			tasks, task, err := Add(nil, "Write report", p, ids, testNow)
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if len(tasks) != 1 {
				t.Fatalf("len(tasks) = %d, want 1", len(tasks))
			}
			want := Task{ID: 1, Text: "Write report", Completed: false, Priority: p, CreatedAt: testNow}
			if !reflect.DeepEqual(tasks[0], want) {
				t.Errorf("tasks[0] = %+v, want %+v", tasks[0], want)
			}
			if !reflect.DeepEqual(task, want) {
				t.Errorf("returned task = %+v, want %+v", task, want)
			}
		})
	}
}

func TestAddTrimsAndPrepends(t *testing.T) {
	existing := sampleTasks()
	ids := NewCounter(existing)

	tasks, task, err := Add(existing, "  Fourth  ", PriorityHigh, ids, testNow)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.Text != "Fourth" {
		t.Errorf("Text = %q, want Fourth", task.Text)
	}
	if task.ID != 4 {
		t.Errorf("ID = %d, want 4", task.ID)
	}
	if tasks[0].ID != 4 || len(tasks) != 4 {
		t.Errorf("expected new task prepended, got %+v", tasks)
	}
	if len(existing) != 3 || existing[0].ID != 3 {
		t.Error("Add modified its input")
	}
}

func TestAddRejectsBlankText(t *testing.T) {
	tests := []string{"", " ", "\t\n  "}

	for _, text := range tests {
		t.Run("blank", func(t *testing.T) {
			existing := sampleTasks()
			ids := NewCounter(existing)

			tasks, task, err := Add(existing, text, PriorityHigh, ids, testNow)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != "text" || !errors.Is(err, ErrEmptyText) {
				t.Errorf("unexpected validation error: %v", err)
			}
			if !reflect.DeepEqual(tasks, existing) {
				t.Error("collection changed on validation error")
			}
			if !task.IsZero() {
				t.Errorf("expected zero task, got %+v", task)
			}
			if ids.Peek() != 4 {
				t.Errorf("id consumed on validation error: counter = %d", ids.Peek())
			}
		})
	}
}

func TestAddRejectsUnknownPriority(t *testing.T) {
	ids := NewCounter(nil)
	tasks, _, err := Add(nil, "Task", Priority("urgent"), ids, testNow)
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks = %+v, want empty", tasks)
	}
}

func TestIDsNeverReused(t *testing.T) {
	ids := NewCounter(nil)
	var tasks []Task

	tasks, first, _ := Add(tasks, "one", PriorityHigh, ids, testNow)
	tasks, second, _ := Add(tasks, "two", PriorityHigh, ids, testNow)
	tasks, _ = Delete(tasks, first.ID)
	tasks, third, _ := Add(tasks, "three", PriorityHigh, ids, testNow)

	if first.ID != 1 || second.ID != 2 || third.ID != 3 {
		t.Errorf("ids = %d, %d, %d; want 1, 2, 3", first.ID, second.ID, third.ID)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
}

func TestToggle(t *testing.T) {
	tasks := sampleTasks()

	toggled, ok := Toggle(tasks, 3)
	if !ok {
		t.Fatal("Toggle(3) reported not found")
	}
	if !toggled[0].Completed {
		t.Error("task 3 should be completed after toggle")
	}
	if tasks[0].Completed {
		t.Error("Toggle modified its input")
	}

	back, ok := Toggle(toggled, 3)
	if !ok {
		t.Fatal("second Toggle(3) reported not found")
	}
	if !reflect.DeepEqual(back, tasks) {
		t.Errorf("toggle twice = %+v, want %+v", back, tasks)
	}
}

func TestToggleIsOwnInverse(t *testing.T) {
	tasks := sampleTasks()
	for _, task := range tasks {
		once, _ := Toggle(tasks, task.ID)
		twice, _ := Toggle(once, task.ID)
		if !reflect.DeepEqual(twice, tasks) {
			t.Errorf("Toggle(Toggle(tasks, %d)) != tasks", task.ID)
		}
	}
}

func TestToggleUnknownID(t *testing.T) {
	tasks := sampleTasks()
	got, ok := Toggle(tasks, 99)
	if ok {
		t.Error("Toggle(99) should report not found")
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Error("Toggle(99) changed the collection")
	}
}

func TestEdit(t *testing.T) {
	tests := []struct {
		name        string
		id          int
		text        string
		wantChanged bool
		wantText    string
	}{
		{"updates text", 1, "First, revised", true, "First, revised"},
		{"trims text", 1, "  Padded  ", true, "Padded"},
		{"whitespace only", 1, "  ", false, "First"},
		{"empty", 1, "", false, "First"},
		{"identical text", 1, "First", false, "First"},
		{"identical after trim", 1, " First ", false, "First"},
		{"unknown id", 42, "Anything", false, "First"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := sampleTasks()
			got, changed := Edit(tasks, tt.id, tt.text)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			edited := Find(got, 1)
			if edited == nil {
				t.Fatal("task 1 missing")
			}
			if edited.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", edited.Text, tt.wantText)
			}
			if !changed && !reflect.DeepEqual(got, tasks) {
				t.Error("no-op edit changed the collection")
			}
		})
	}
}

func TestEditLeavesOtherFields(t *testing.T) {
	tasks := sampleTasks()
	got, _ := Edit(tasks, 2, "Renamed")
	before := tasks[1]
	after := got[1]

	if after.ID != before.ID || after.Completed != before.Completed ||
		after.Priority != before.Priority || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("Edit touched more than text: before %+v, after %+v", before, after)
	}
	if tasks[1].Text != "Second" {
		t.Error("Edit modified its input")
	}
}

func TestDelete(t *testing.T) {
	tasks := sampleTasks()
	got, ok := Delete(tasks, 2)
	if !ok {
		t.Fatal("Delete(2) reported not found")
	}
	if len(got) != 2 || Find(got, 2) != nil {
		t.Errorf("task 2 still present: %+v", got)
	}
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("storage order not preserved: %+v", got)
	}
	if len(tasks) != 3 {
		t.Error("Delete modified its input")
	}
}

func TestDeleteUnknownID(t *testing.T) {
	tasks := sampleTasks()
	got, ok := Delete(tasks, 99)
	if ok {
		t.Error("Delete(99) should report not found")
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Error("Delete(99) changed the collection")
	}
}

func TestFind(t *testing.T) {
	tasks := sampleTasks()

	task := Find(tasks, 2)
	if task == nil {
		t.Fatal("Find(2) returned nil")
	}
	if task.Text != "Second" {
		t.Errorf("Text: got %s, want Second", task.Text)
	}

	task.Text = "mutated"
	if tasks[1].Text != "Second" {
		t.Error("Find returned a pointer into the collection")
	}

	if Find(tasks, 99) != nil {
		t.Error("Find(99) should return nil")
	}
}
