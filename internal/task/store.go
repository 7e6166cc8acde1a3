package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Store owns the ordered task collection. Every mutation writes the whole
// collection through the Persister before it becomes visible; a failed write
// leaves the in-memory collection untouched.
type Store struct {
	tasks     []Task
	persister Persister
	now       func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used to assign ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore builds a Store from whatever the persister currently holds.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = slices.Clone(p.Load())
	return s
}

func (s *Store) All() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Add trims text and stores it as a new active task. Invalid UTF-8 is replaced
// with U+FFFD so the stored text matches what a reload returns.
func (s *Store) Add(text string, insertAtFront bool) (Task, error) {
	text = strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
	if text == "" {
		return Task{}, ErrInvalidInput
	}
	t := Task{ID: s.nextID(), Text: text}

	next := make([]Task, 0, len(s.tasks)+1)
	if insertAtFront {
		next = append(next, t)
		next = append(next, s.tasks...)
	} else {
		next = append(next, s.tasks...)
		next = append(next, t)
	}
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Toggle flips the completed flag. An unknown id changes nothing.
func (s *Store) Toggle(id int64) error {
	next := slices.Clone(s.tasks)
	if i := s.index(id); i >= 0 {
		next[i].Completed = !next[i].Completed
	}
	return s.commit(next)
}

// Remove deletes the task if present. An unknown id changes nothing.
func (s *Store) Remove(id int64) error {
	next := slices.DeleteFunc(slices.Clone(s.tasks), func(t Task) bool {
		return t.ID == id
	})
	return s.commit(next)
}

// Reorder replaces the collection order. ids must name every task exactly once.
func (s *Store) Reorder(ids []int64) error {
	if len(ids) != len(s.tasks) {
		return fmt.Errorf("%w: got %d ids for %d tasks", ErrInvalidOrder, len(ids), len(s.tasks))
	}
	byID := make(map[int64]Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}
	next := make([]Task, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown id %d", ErrInvalidOrder, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}
		next = append(next, t)
	}
	return s.commit(next)
}

func (s *Store) commit(next []Task) error {
	if err := s.persister.Save(next); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// nextID uses the creation time in milliseconds, bumped past the largest
// existing id so ids stay unique when the clock stalls or goes backwards.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}
