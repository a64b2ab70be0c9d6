package todo

// IDSource hands out task ids.
type IDSource interface {
	Next() int
}

// NextID returns 1 + the largest id in tasks, or 1 if tasks is empty.
func NextID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Counter is a monotonically increasing IDSource. It is initialized once from
// the loaded collection and never recomputed, so ids of deleted tasks are not
// handed out again.
type Counter struct {
	next int
}

// NewCounter returns a counter starting at NextID(tasks).
func NewCounter(tasks []Task) *Counter {
	return &Counter{next: NextID(tasks)}
}

// Next returns the current id and advances the counter.
func (c *Counter) Next() int {
	if c.next < 1 {
		c.next = 1
	}
	id := c.next
	c.next++
	return id
}

// Peek returns the id the next call to Next will return.
func (c *Counter) Peek() int {
	if c.next < 1 {
		return 1
	}
	return c.next
}

// Reset moves the counter to n.
func (c *Counter) Reset(n int) {
	c.next = n
}
