package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/query"
)

var priorityIcons = map[model.Priority]string{
	model.High:   "!",
	model.Medium: "-",
	model.Low:    ".",
}

// Render writes the numbered view followed by the counters. The row at
// cursor is marked; pass -1 for none.
func Render(w io.Writer, items []query.Item, f model.Filter, c query.Counts, cursor int) {
	fmt.Fprintf(w, "\n[%s]\n", f)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (no tasks)")
	}
	for i, it := range items {
		marker := " "
		if i == cursor {
			marker = ">"
		}
		fmt.Fprintf(w, "%s%3d. %s\n", marker, i+1, FormatItem(it))
	}
	fmt.Fprintf(w, "%d pending %s | total %d, pending %d, completed %d\n",
		c.Pending, plural(c.Pending, "task"), c.Total, c.Pending, c.Completed)
}

// FormatItem renders one row: checkbox, priority badge, text and due date.
func FormatItem(it query.Item) string {
	var b strings.Builder
	if it.Task.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	fmt.Fprintf(&b, "%s %-6s %s", priorityIcons[it.Task.Priority], it.Task.Priority, it.Task.Text)
	if it.Task.DueDate != nil {
		fmt.Fprintf(&b, "  due %s", it.Task.DueDate)
		if it.Overdue {
			b.WriteString(" (Overdue)")
		}
	}
	return b.String()
}
