// Package task holds the task list model: the ordered collection, the
// operations that mutate it and the filtered views derived from it.
package task

import "errors"

var (
	// ErrInvalidInput is returned by Add when the text is blank.
	ErrInvalidInput = errors.New("task text cannot be empty")

	// ErrInvalidOrder is returned by Reorder when the proposed ids are not
	// an exact permutation of the current collection.
	ErrInvalidOrder = errors.New("invalid task order")
)

type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Persister stores the whole collection. Load never fails: unreadable data
// comes back as an empty collection.
type Persister interface {
	Load() []Task
	Save(tasks []Task) error
}

func IDs(tasks []Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
