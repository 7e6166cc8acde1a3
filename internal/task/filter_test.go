package task

import (
	"slices"
	"testing"
)

func sampleTasks() []Task {
	return []Task{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b", Completed: true},
		{ID: 3, Text: "c"},
		{ID: 4, Text: "d", Completed: true},
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		filter Filter
		want   []int64
	}{
		{FilterAll, []int64{1, 2, 3, 4}},
		{FilterActive, []int64{1, 3}},
		{FilterCompleted, []int64{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			got := Project(sampleTasks(), tt.filter)
			if ids := IDs(got); !slices.Equal(ids, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ids)
			}
			for _, task := range got {
				if !tt.filter.Match(task) {
					t.Errorf("task %+v does not satisfy %s", task, tt.filter)
				}
			}
		})
	}
}

func TestProjectActiveAndCompletedCoverAll(t *testing.T) {
	tasks := sampleTasks()

	union := map[int64]bool{}
	for _, task := range Project(tasks, FilterActive) {
		union[task.ID] = true
	}
	for _, task := range Project(tasks, FilterCompleted) {
		if union[task.ID] {
			t.Errorf("task %d in both active and completed", task.ID)
		}
		union[task.ID] = true
	}

	all := Project(tasks, FilterAll)
	if len(union) != len(all) {
		t.Fatalf("union has %d tasks, all has %d", len(union), len(all))
	}
	for _, task := range all {
		if !union[task.ID] {
			t.Errorf("task %d missing from union", task.ID)
		}
	}
}

func TestProjectEmptyResult(t *testing.T) {
	got := Project([]Task{{ID: 1, Text: "a"}}, FilterCompleted)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if got := Project(nil, FilterAll); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice for nil input, got %#v", got)
	}
}

func TestProjectDoesNotAlias(t *testing.T) {
	tasks := sampleTasks()
	got := Project(tasks, FilterAll)
	got[0].Text = "changed"
	if tasks[0].Text != "a" {
		t.Error("projection aliases the input slice")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{" Active ", FilterActive, false},
		{"COMPLETED", FilterCompleted, false},
		{"done", FilterAll, true},
		{"", FilterAll, true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	var seen []string
	for i := 0; i < 4; i++ {
		seen = append(seen, f.String())
		f = f.Next()
	}
	want := []string{"all", "active", "completed", "all"}
	if !slices.Equal(seen, want) {
		t.Errorf("expected %v, got %v", want, seen)
	}
}
