// Package todo holds the task model and the pure operations over a task collection.
//
// A collection is a []Task in storage order: the most recently added task
// comes first. Display order is derived separately by SortForDisplay.
//
// The persisted form of a collection is a JSON array:
//
//	[
//	  {
//	    "id": 6,
//	    "text": "Water the plants",
//	    "completed": false,
//	    "priority": "medium",
//	    "createdAt": "2024-01-01T09:30:00Z"
//	  }
//	]
//
// # Operations
//
// Add, Toggle, Edit, and Delete take the current collection and return the
// post-mutation collection. They never modify their input, and the clock and
// id source are explicit arguments, so every operation is deterministic.
//
//   - Add rejects blank text and unknown priorities with a *ValidationError.
//   - Toggle, Edit, and Delete report false for unknown ids and leave the
//     collection as it was.
//   - Edit also treats blank text and unchanged text as no-ops.
//
// # Ids
//
// NextID computes 1 + the largest id. A Counter is initialized from it once at
// startup and only ever moves forward, so ids are never reused after deletes.
//
// # Priority Rank
//
//   - high: 1
//   - medium: 2
//   - low: 3
package todo
