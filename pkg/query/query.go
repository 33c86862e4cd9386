// Package query turns the task collection into the ordered, filtered list
// shown to the user.
package query

import (
	"sort"

	"github.com/harrisonrobin/todo/pkg/model"
)

// Item is one row of a view.
type Item struct {
	Task    model.Task
	Overdue bool
}

// View filters tasks by f, orders them and marks the ones overdue at ref.
// The input slice is not modified.
func View(tasks []model.Task, f model.Filter, ref model.Date) []Item {
	items := make([]Item, 0, len(tasks))
	for _, t := range tasks {
		if !f.Keep(t.Completed) {
			continue
		}
		items = append(items, Item{Task: t, Overdue: t.IsOverdue(ref)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i].Task, items[j].Task)
	})
	return items
}

// Less orders by priority rank, then dated before undated, then by due date.
func Less(a, b model.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Before(*b.DueDate)
	case a.DueDate != nil:
		return true
	}
	return false
}

// Counts are totals over the unfiltered collection.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}
