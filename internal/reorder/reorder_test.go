package reorder_test

import (
	"errors"
	"slices"
	"testing"

	"taskpad/internal/reorder"
	"taskpad/internal/task"
)

type memPersister struct {
	tasks []task.Task
	saves int
}

func (m *memPersister) Load() []task.Task { return m.tasks }

func (m *memPersister) Save(tasks []task.Task) error {
	m.tasks = slices.Clone(tasks)
	m.saves++
	return nil
}

func newEngine(t *testing.T, tasks ...task.Task) (*reorder.Engine, *task.Store, *memPersister) {
	t.Helper()
	p := &memPersister{tasks: tasks}
	s := task.NewStore(p)
	return reorder.New(s), s, p
}

func abcd() []task.Task {
	return []task.Task{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b", Completed: true},
		{ID: 3, Text: "c"},
		{ID: 4, Text: "d"},
	}
}

// rowAt lays rows out two units high, in order, starting at 0.
func rowAt(order []int64, id int64) *reorder.Row {
	i := slices.Index(order, id)
	return &reorder.Row{ID: id, Top: float64(i * 2), Height: 2}
}

func upperHalf(r *reorder.Row) reorder.Pointer { return reorder.Pointer{Row: r, Y: r.Top} }
func lowerHalf(r *reorder.Row) reorder.Pointer { return reorder.Pointer{Row: r, Y: r.Top + 1.5} }

func TestStartEntersDragging(t *testing.T) {
	e, _, _ := newEngine(t, abcd()...)

	if e.State() != reorder.Idle {
		t.Fatalf("expected idle, got %v", e.State())
	}
	if err := e.Start(3, []int64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	id, source, ok := e.Dragged()
	if !ok || id != 3 || source != 2 {
		t.Errorf("expected dragging 3 from 2, got id=%d source=%d ok=%v", id, source, ok)
	}
	if e.State() != reorder.Dragging {
		t.Errorf("expected dragging, got %v", e.State())
	}
}

func TestStartOnUnknownRowStaysIdle(t *testing.T) {
	e, _, _ := newEngine(t, abcd()...)

	if err := e.Start(42, []int64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if e.State() != reorder.Idle {
		t.Errorf("expected idle, got %v", e.State())
	}
	if e.Order() != nil {
		t.Errorf("expected no tentative order, got %v", e.Order())
	}
}

func TestMoveUsesMidpoint(t *testing.T) {
	visible := []int64{1, 2, 3, 4}
	tests := []struct {
		name    string
		pointer func() reorder.Pointer
		want    []int64
	}{
		{"upper half inserts before", func() reorder.Pointer { return upperHalf(rowAt(visible, 2)) }, []int64{1, 4, 2, 3}},
		{"lower half inserts after", func() reorder.Pointer { return lowerHalf(rowAt(visible, 2)) }, []int64{1, 2, 4, 3}},
		{"exact midpoint inserts after", func() reorder.Pointer {
			r := rowAt(visible, 1)
			return reorder.Pointer{Row: r, Y: r.Top + r.Height/2}
		}, []int64{1, 4, 2, 3}},
		{"just above midpoint inserts before", func() reorder.Pointer {
			r := rowAt(visible, 1)
			return reorder.Pointer{Row: r, Y: r.Top + r.Height/2 - 0.01}
		}, []int64{4, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newEngine(t, abcd()...)
			if err := e.Start(4, visible); err != nil {
				t.Fatal(err)
			}
			e.Move(tt.pointer())
			if got := e.Order(); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMoveIgnoresUnusableTargets(t *testing.T) {
	visible := []int64{1, 2, 3, 4}
	pointers := map[string]reorder.Pointer{
		"no row":      {Row: nil, Y: 3},
		"dragged row": lowerHalf(rowAt(visible, 2)),
		"placeholder": {Row: &reorder.Row{ID: 0, Top: 0, Height: 2, Placeholder: true}, Y: 0},
		"unknown row": {Row: &reorder.Row{ID: 99, Top: 20, Height: 2}, Y: 21},
	}
	for name, p := range pointers {
		t.Run(name, func(t *testing.T) {
			e, _, _ := newEngine(t, abcd()...)
			if err := e.Start(2, visible); err != nil {
				t.Fatal(err)
			}
			if e.Move(p) {
				t.Error("expected move to be ignored")
			}
			if got := e.Order(); !slices.Equal(got, visible) {
				t.Errorf("order changed to %v", got)
			}
		})
	}
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	e, s, _ := newEngine(t, abcd()...)

	if e.Move(upperHalf(rowAt([]int64{1, 2, 3, 4}, 1))) {
		t.Error("idle engine should ignore moves")
	}
	if got := task.IDs(s.All()); !slices.Equal(got, []int64{1, 2, 3, 4}) {
		t.Errorf("store changed: %v", got)
	}
}

func TestMoveDoesNotCommitUntilEnd(t *testing.T) {
	e, s, p := newEngine(t, abcd()...)
	visible := []int64{1, 2, 3, 4}

	if err := e.Start(1, visible); err != nil {
		t.Fatal(err)
	}
	e.Move(lowerHalf(rowAt(visible, 3)))
	e.Move(lowerHalf(rowAt(visible, 4)))

	if p.saves != 0 {
		t.Fatalf("store written during drag (%d saves)", p.saves)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, visible) {
		t.Fatalf("store order changed during drag: %v", got)
	}

	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, []int64{2, 3, 4, 1}) {
		t.Errorf("expected final order [2 3 4 1], got %v", got)
	}
	if e.State() != reorder.Idle {
		t.Errorf("expected idle after end, got %v", e.State())
	}
}

func TestEndReflectsFinalPointerPosition(t *testing.T) {
	e, s, _ := newEngine(t, abcd()...)
	visible := []int64{1, 2, 3, 4}

	if err := e.Start(1, visible); err != nil {
		t.Fatal(err)
	}
	e.Move(lowerHalf(rowAt(visible, 4)))
	order := e.Order()
	e.Move(upperHalf(rowAt(order, 3)))

	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, []int64{2, 1, 3, 4}) {
		t.Errorf("expected [2 1 3 4], got %v", got)
	}
}

func TestEndWithoutMovementStillCommits(t *testing.T) {
	e, s, p := newEngine(t, abcd()...)

	if err := e.Start(2, []int64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if p.saves != 1 {
		t.Errorf("expected one save, got %d", p.saves)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, []int64{1, 2, 3, 4}) {
		t.Errorf("order changed: %v", got)
	}
}

func TestEndWhileIdleIsNoop(t *testing.T) {
	e, _, p := newEngine(t, abcd()...)

	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if p.saves != 0 {
		t.Errorf("expected no save, got %d", p.saves)
	}
}

func TestCancelDropsTentativeOrder(t *testing.T) {
	e, s, p := newEngine(t, abcd()...)
	visible := []int64{1, 2, 3, 4}

	if err := e.Start(1, visible); err != nil {
		t.Fatal(err)
	}
	e.Move(lowerHalf(rowAt(visible, 4)))
	e.Cancel()

	if e.State() != reorder.Idle {
		t.Errorf("expected idle, got %v", e.State())
	}
	if p.saves != 0 {
		t.Errorf("cancel should not save")
	}
	if got := task.IDs(s.All()); !slices.Equal(got, visible) {
		t.Errorf("order changed: %v", got)
	}
}

func TestStartWhileDraggingCommitsPreviousDrag(t *testing.T) {
	e, s, _ := newEngine(t, abcd()...)
	visible := []int64{1, 2, 3, 4}

	if err := e.Start(1, visible); err != nil {
		t.Fatal(err)
	}
	e.Move(lowerHalf(rowAt(visible, 2)))

	// The end event never arrived; the next grab starts from the committed order.
	committed := []int64{2, 1, 3, 4}
	if err := e.Start(4, committed); err != nil {
		t.Fatal(err)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, committed) {
		t.Errorf("expected implicit commit %v, got %v", committed, got)
	}
	id, source, ok := e.Dragged()
	if !ok || id != 4 || source != 3 {
		t.Errorf("expected new drag of 4 from 3, got id=%d source=%d ok=%v", id, source, ok)
	}
}

func TestDragUnderFilterKeepsHiddenTasksInPlace(t *testing.T) {
	e, s, _ := newEngine(t, abcd()...)
	// Task 2 is completed and hidden by the active filter.
	visible := task.IDs(task.Project(s.All(), task.FilterActive))
	if !slices.Equal(visible, []int64{1, 3, 4}) {
		t.Fatalf("unexpected visible order %v", visible)
	}

	if err := e.Start(4, visible); err != nil {
		t.Fatal(err)
	}
	e.Move(upperHalf(rowAt(visible, 1)))
	if err := e.End(); err != nil {
		t.Fatal(err)
	}

	got := s.All()
	if ids := task.IDs(got); !slices.Equal(ids, []int64{4, 2, 1, 3}) {
		t.Errorf("expected [4 2 1 3], got %v", ids)
	}
	for _, tk := range got {
		orig := abcd()[slices.IndexFunc(abcd(), func(o task.Task) bool { return o.ID == tk.ID })]
		if tk != orig {
			t.Errorf("reorder changed task contents: %+v vs %+v", tk, orig)
		}
	}
}

func TestEndWithStaleRowsIsRejected(t *testing.T) {
	e, s, _ := newEngine(t, abcd()...)

	// Task 4 was removed after the list was rendered.
	if err := s.Remove(4); err != nil {
		t.Fatal(err)
	}
	stale := []int64{1, 2, 3, 4}
	if err := e.Start(4, stale); err != nil {
		t.Fatal(err)
	}
	e.Move(upperHalf(rowAt(stale, 1)))

	err := e.End()
	if !errors.Is(err, task.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
	if got := task.IDs(s.All()); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("store order changed: %v", got)
	}
	if e.State() != reorder.Idle {
		t.Errorf("engine should be idle after a rejected commit")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name          string
		full, visible []int64
		want          []int64
	}{
		{"all visible", []int64{1, 2, 3}, []int64{3, 1, 2}, []int64{3, 1, 2}},
		{"hidden middle", []int64{1, 2, 3}, []int64{3, 1}, []int64{3, 2, 1}},
		{"nothing visible", []int64{1, 2}, nil, []int64{1, 2}},
		{"empty", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reorder.Merge(tt.full, tt.visible); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
