package todo

import "sort"

// SortForDisplay returns a new slice ordered for display: incomplete tasks
// before completed ones, then by priority rank (high, medium, low). Tasks that
// tie on both keys keep their storage order.
func SortForDisplay(tasks []Task) []Task {
	sorted := clone(tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Completed != sorted[j].Completed {
			return !sorted[i].Completed
		}
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}

// ComputeStats counts total, completed, and pending tasks.
func ComputeStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
