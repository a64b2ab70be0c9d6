package ui

import (
	"fmt"

	"github.com/nibzard/flowtask/internal/tasklist"
	"github.com/nibzard/flowtask/internal/todo"
)

// Milestone is an achievement earned by a change to the list.
type Milestone struct {
	Title string
	// RefreshQuote asks for a new quote to celebrate.
	RefreshQuote bool
}

// Milestones returns the achievements earned by an effective op moving the
// list from before to after. The all-done milestone comes first so an
// op-specific one is shown last.
func Milestones(before, after todo.Stats, op tasklist.Op) []Milestone {
	switch op {
	case tasklist.OpAdd, tasklist.OpToggle, tasklist.OpEdit, tasklist.OpDelete:
	default:
		return nil
	}

	var out []Milestone
	if after.AllDone() {
		out = append(out, Milestone{Title: "All Tasks Completed!", RefreshQuote: true})
	}

	switch op {
	case tasklist.OpAdd:
		if after.Total == 5 && before.Total != 5 {
			out = append(out, Milestone{Title: "5 Tasks Added!", RefreshQuote: true})
		}
	case tasklist.OpToggle:
		if after.Completed <= before.Completed {
			break
		}
		switch n := after.Completed; {
		case n == 3:
			out = append(out, Milestone{Title: "3 Tasks Completed!"})
		case n == 10:
			out = append(out, Milestone{Title: "10 Tasks Completed!", RefreshQuote: true})
		case n%5 == 0:
			out = append(out, Milestone{Title: fmt.Sprintf("%d Tasks Done!", n)})
		}
	}
	return out
}
