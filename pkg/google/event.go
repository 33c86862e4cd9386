package google

import (
	"fmt"

	"github.com/harrisonrobin/todo/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// Calendar color ids per priority: Tomato, Banana, Sage.
var priorityColors = map[model.Priority]string{
	model.High:   "11",
	model.Medium: "5",
	model.Low:    "2",
}

// EventForTask builds the all-day event for a dated task.
func EventForTask(task model.Task, today model.Date) (*calendar.Event, error) {
	if task.DueDate == nil {
		return nil, fmt.Errorf("task %s has no due date", task.ID)
	}

	summary := task.Text
	if task.IsOverdue(today) {
		summary = "! " + summary
	}

	return &calendar.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Priority: %s\nID: %s\n", task.Priority, task.ID),
		ColorId:     priorityColors[task.Priority],
		Start:       &calendar.EventDateTime{Date: task.DueDate.String()},
		End:         &calendar.EventDateTime{Date: task.DueDate.AddDays(1).String()},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: string(task.ID)},
		},
	}, nil
}

// EventPatch returns the fields of target that differ from existing, or nil
// when the event is already up to date.
func EventPatch(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}
