package todo

import (
	"fmt"
	"strings"
	"time"
)

// Operations never modify the slice they are given. Each returns a fresh
// slice holding the post-mutation collection, or the input itself when
// nothing changed.

// Add validates text and priority, then prepends a new task built with the
// next id from ids. On a validation error tasks is returned unchanged and no
// id is consumed.
func Add(tasks []Task, text string, priority Priority, ids IDSource, now time.Time) ([]Task, Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, Task{}, &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	if !priority.Valid() {
		return tasks, Task{}, &ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("%w: %q", ErrInvalidPriority, priority),
		}
	}

	task := Task{
		ID:        ids.Next(),
		Text:      text,
		Completed: false,
		Priority:  priority,
		CreatedAt: now.UTC(),
	}

	out := make([]Task, 0, len(tasks)+1)
	out = append(out, task)
	out = append(out, tasks...)
	return out, task, nil
}

// Toggle flips the completed flag of the task with the given id.
// It reports false, returning tasks unchanged, when no task has that id.
func Toggle(tasks []Task, id int) ([]Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := clone(tasks)
	out[i].Completed = !out[i].Completed
	return out, true
}

// Edit replaces the text of the task with the given id. Blank text, text equal
// to the current text, and unknown ids are no-ops and report false.
func Edit(tasks []Task, id int, text string) ([]Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, false
	}
	i := indexOf(tasks, id)
	if i < 0 || tasks[i].Text == text {
		return tasks, false
	}
	out := clone(tasks)
	out[i].Text = text
	return out, true
}

// Delete removes the task with the given id. Unknown ids are a silent no-op
// and report false.
func Delete(tasks []Task, id int) ([]Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	out = append(out, tasks[i+1:]...)
	return out, true
}

// Find returns the task with the given id, or nil if not found.
func Find(tasks []Task, id int) *Task {
	i := indexOf(tasks, id)
	if i < 0 {
		return nil
	}
	t := tasks[i]
	return &t
}

func indexOf(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
