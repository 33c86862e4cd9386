package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
)

// Statuses the importer distinguishes. Anything else (pending, waiting,
// recurring) imports as an open task.
const (
	COMPLETED = "completed"
	DELETED   = "deleted"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, UTC

func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// Task is the subset of a `task export` record the importer reads.
type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority,omitempty"`
	Due         *CustomTime `json:"due,omitempty"`
}

var twPriorities = map[string]model.Priority{
	"H": model.High,
	"M": model.Medium,
	"L": model.Low,
}

// ToTask converts a Taskwarrior record. Deleted tasks are skipped (ok=false).
// The due timestamp becomes a date in loc.
func (t Task) ToTask(loc *time.Location) (model.Task, bool) {
	if t.Status == DELETED || strings.TrimSpace(t.Description) == "" {
		return model.Task{}, false
	}
	out := model.Task{
		ID:        model.ID(t.UUID),
		Text:      strings.TrimSpace(t.Description),
		Completed: t.Status == COMPLETED,
		Priority:  model.Medium,
	}
	if p, ok := twPriorities[strings.ToUpper(t.Priority)]; ok {
		out.Priority = p
	}
	if t.Due != nil && !t.Due.IsZero() {
		d := model.DateOf(t.Due.In(loc))
		out.DueDate = &d
	}
	return out, true
}

// ToTasks converts every importable record.
func ToTasks(tasks []Task, loc *time.Location) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if mt, ok := t.ToTask(loc); ok {
			out = append(out, mt)
		}
	}
	return out
}
