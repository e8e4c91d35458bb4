// Package filter derives read-only filtered views of a task collection.
package filter

import "taskdeck/internal/model"

// All is the sentinel that disables one filter axis.
const All = "All"

// Filter selects tasks by exact equality on status and importance.
// The zero value selects nothing; use None for the pass-through filter.
type Filter struct {
	Status     string
	Importance string
}

// None matches every task.
var None = Filter{Status: All, Importance: All}

// Match reports whether t satisfies both axes of f.
func (f Filter) Match(t model.Task) bool {
	if f.Status != All && string(t.Status) != f.Status {
		return false
	}
	if f.Importance != All && string(t.Importance) != f.Importance {
		return false
	}
	return true
}

// Active reports whether either axis is narrower than All.
func (f Filter) Active() bool {
	return f.Status != All || f.Importance != All
}

// Project returns the tasks matching f, preserving insertion order.
// Pure: it never mutates tasks and holds no memory of prior results.
func Project(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
