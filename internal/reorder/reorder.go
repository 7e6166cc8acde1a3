// Package reorder turns a drag gesture over a rendered list into a new task
// order. While a drag is in progress the engine only rearranges its own
// tentative copy of the visible ids; the store sees a single Reorder call when
// the drag ends.
package reorder

import (
	"slices"

	"taskpad/internal/task"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Row is the on-screen box of a rendered task. Placeholder rows (such as the
// empty-list message) are never drop targets.
type Row struct {
	ID          int64
	Top         float64
	Height      float64
	Placeholder bool
}

// Pointer is one movement sample. Row is nil when nothing identifiable is
// under the pointer.
type Pointer struct {
	Row *Row
	Y   float64
}

// Store is the part of task.Store the engine commits to.
type Store interface {
	All() []task.Task
	Reorder(ids []int64) error
}

type Engine struct {
	store   Store
	state   State
	dragged int64
	source  int
	order   []int64
}

func New(store Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) State() State { return e.state }

// Dragged reports the task being moved and the visible index it started from.
func (e *Engine) Dragged() (id int64, source int, ok bool) {
	if e.state != Dragging {
		return 0, 0, false
	}
	return e.dragged, e.source, true
}

// Order returns the tentative visible order, or nil when idle.
func (e *Engine) Order() []int64 {
	if e.state != Dragging {
		return nil
	}
	return slices.Clone(e.order)
}

// Start grabs id out of the currently rendered order. A drag that never saw
// its end event is committed first. Starting on an id that is not rendered
// leaves the engine idle.
func (e *Engine) Start(id int64, visible []int64) error {
	var err error
	if e.state == Dragging {
		err = e.End()
	}
	i := slices.Index(visible, id)
	if i < 0 {
		return err
	}
	e.state = Dragging
	e.dragged = id
	e.source = i
	e.order = slices.Clone(visible)
	return err
}

// Move places the dragged row before or after the row under the pointer,
// depending on which half of that row the pointer is in. It reports whether
// the tentative order changed.
func (e *Engine) Move(p Pointer) bool {
	if e.state != Dragging || p.Row == nil || p.Row.Placeholder || p.Row.ID == e.dragged {
		return false
	}
	if !slices.Contains(e.order, p.Row.ID) {
		return false
	}

	from := slices.Index(e.order, e.dragged)
	next := slices.Delete(slices.Clone(e.order), from, from+1)
	to := slices.Index(next, p.Row.ID)
	if p.Y >= p.Row.Top+p.Row.Height/2 {
		to++
	}
	next = slices.Insert(next, to, e.dragged)

	changed := !slices.Equal(next, e.order)
	e.order = next
	return changed
}

// End commits the tentative order and returns to Idle. Ending while idle
// does nothing.
func (e *Engine) End() error {
	if e.state != Dragging {
		return nil
	}
	visible := e.order
	e.reset()
	return e.store.Reorder(Merge(task.IDs(e.store.All()), visible))
}

// Cancel drops the drag without touching the store.
func (e *Engine) Cancel() {
	e.reset()
}

func (e *Engine) reset() {
	e.state = Idle
	e.dragged = 0
	e.source = 0
	e.order = nil
}

// Merge writes the visible ids back into the slots they occupy in full,
// leaving ids that were not rendered (filtered out) where they were.
func Merge(full, visible []int64) []int64 {
	shown := make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		shown[id] = struct{}{}
	}
	out := slices.Clone(full)
	j := 0
	for i, id := range full {
		if _, ok := shown[id]; !ok {
			continue
		}
		if j < len(visible) {
			out[i] = visible[j]
			j++
		}
	}
	return out
}
