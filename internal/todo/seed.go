package todo

import "time"

// SeedIfEmpty returns the fixed sample set and moves ids past it when tasks is
// empty. A non-empty collection is returned unchanged and reports false.
func SeedIfEmpty(tasks []Task, ids *Counter, now time.Time) ([]Task, bool) {
	if len(tasks) > 0 {
		return tasks, false
	}
	seeded := SampleTasks(now)
	if ids != nil {
		ids.Reset(NextID(seeded))
	}
	return seeded, true
}

// SampleTasks returns the five first-run tasks. One is completed and dated a
// day before now.
func SampleTasks(now time.Time) []Task {
	now = now.UTC()
	yesterday := now.Add(-24 * time.Hour)
	return []Task{
		{ID: 1, Text: "Complete project proposal", Priority: PriorityHigh, CreatedAt: now},
		{ID: 2, Text: "Buy groceries for the week", Priority: PriorityMedium, CreatedAt: now},
		{ID: 3, Text: "Call mom for her birthday", Completed: true, Priority: PriorityHigh, CreatedAt: yesterday},
		{ID: 4, Text: "Schedule dentist appointment", Priority: PriorityLow, CreatedAt: now},
		{ID: 5, Text: "Read 30 pages of current book", Priority: PriorityMedium, CreatedAt: now},
	}
}
