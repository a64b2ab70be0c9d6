package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/flowtask/internal/todo"
)

// Op names a dispatchable operation.
type Op string

const (
	OpAdd    Op = "add"
	OpToggle Op = "toggle"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"
	OpList   Op = "list"
	OpStats  Op = "stats"
)

// ErrUnknownOp is returned by Dispatch for an unrecognized op.
var ErrUnknownOp = errors.New("unknown operation")

// Command is a request from a presentation layer. Fields an op does not use
// are ignored.
type Command struct {
	Op       Op
	ID       int
	Text     string
	Priority todo.Priority
}

// ParseOp normalizes s into an Op. Aliases: done for toggle, rm for delete,
// ls for list.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return OpAdd, nil
	case "toggle", "done":
		return OpToggle, nil
	case "edit":
		return OpEdit, nil
	case "delete", "rm":
		return OpDelete, nil
	case "list", "ls":
		return OpList, nil
	case "stats":
		return OpStats, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}
}

// Dispatch routes cmd to the matching operation. list and stats never change
// the list. Only add can return a domain error; an unknown op is a caller bug
// reported as ErrUnknownOp.
func (l *List) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	switch cmd.Op {
	case OpAdd:
		return l.Add(ctx, cmd.Text, cmd.Priority)
	case OpToggle:
		return l.Toggle(ctx, cmd.ID), nil
	case OpEdit:
		return l.Edit(ctx, cmd.ID, cmd.Text), nil
	case OpDelete:
		return l.Delete(ctx, cmd.ID), nil
	case OpList:
		res := l.result(todo.Task{}, false)
		res.Tasks = l.Sorted()
		return res, nil
	case OpStats:
		return l.result(todo.Task{}, false), nil
	default:
		return l.result(todo.Task{}, false), fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}
