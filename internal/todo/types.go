// Package todo holds the task model and the pure operations over a task collection.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority represents a task priority tag.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every valid priority in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the display rank of the priority: high=1, medium=2, low=3.
// Unknown priorities rank after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return p.Rank() <= 3
}

// Label returns the human-readable form, e.g. "High Priority".
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High Priority"
	case PriorityMedium:
		return "Medium Priority"
	default:
		return "Low Priority"
	}
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("%w: %q, must be one of: high, medium, low", ErrInvalidPriority, s),
		}
	}
	return p, nil
}

// Task represents a single task in the list.
type Task struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Stats aggregates counts over a task collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// AllDone reports whether there is at least one task and every task is completed.
func (s Stats) AllDone() bool {
	return s.Total > 0 && s.Completed == s.Total
}

var (
	// ErrEmptyText is wrapped by a ValidationError when task text is blank.
	ErrEmptyText = errors.New("task text is empty")
	// ErrInvalidPriority is wrapped by a ValidationError for an unknown priority.
	ErrInvalidPriority = errors.New("invalid priority")
)

// ValidationError represents a rejected input with the offending field.
type ValidationError struct {
	Field string // Task field the error refers to
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
