package task

import (
	"fmt"
	"strings"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

var filterNames = [...]string{
	FilterAll:       "all",
	FilterActive:    "active",
	FilterCompleted: "completed",
}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filterNames))
}

func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range filterNames {
		if s == name {
			return Filter(i), nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Project returns the tasks matching f in collection order. The result never
// aliases tasks and is empty, not nil, when nothing matches.
func Project(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
