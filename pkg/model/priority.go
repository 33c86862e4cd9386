package model

import (
	"fmt"
	"strings"
)

// Priority of a task. The zero value is not valid; use Medium as default.
type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

// ParsePriority maps a user supplied name onto a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, true
	case Medium:
		return Medium, true
	case Low:
		return Low, true
	}
	return "", false
}

// PriorityOrDefault returns the parsed priority, or Medium when s is not a
// valid name.
func PriorityOrDefault(s string) Priority {
	if p, ok := ParsePriority(s); ok {
		return p
	}
	return Medium
}

// Rank orders priorities: high=1, medium=2, low=3. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 1
	case Medium:
		return 2
	case Low:
		return 3
	}
	return 4
}

func (p Priority) Valid() bool {
	return p.Rank() < 4
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterCompleted, FilterPending:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, completed or pending)", s)
}

// Keep reports whether a task with the given completion state passes f.
func (f Filter) Keep(completed bool) bool {
	switch f {
	case FilterCompleted:
		return completed
	case FilterPending:
		return !completed
	}
	return true
}
