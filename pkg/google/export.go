package google

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/harrisonrobin/todo/pkg/index"
	"github.com/harrisonrobin/todo/pkg/model"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// Events is the subset of the calendar API the exporter needs.
type Events interface {
	Get(ctx context.Context, eventID string) (*calendar.Event, error)
	FindByTaskID(ctx context.Context, taskID string) (*calendar.Event, error)
	Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
	Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// Result summarises one export run.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

// Exporter mirrors dated, pending tasks onto a calendar, one way.
type Exporter struct {
	events Events
	index  *index.EventIndex
}

func NewExporter(events Events, idx *index.EventIndex) *Exporter {
	return &Exporter{events: events, index: idx}
}

// Export creates or patches an event for every pending task with a due date
// and deletes the events of tasks that no longer qualify. Failures on single
// tasks are logged and counted; the error is only set when the index cannot
// be saved.
func (e *Exporter) Export(ctx context.Context, tasks []model.Task, today model.Date) (Result, error) {
	var res Result
	wanted := make(map[string]bool)

	for _, task := range tasks {
		if task.Completed || task.DueDate == nil {
			continue
		}
		wanted[string(task.ID)] = true
		if err := ctx.Err(); err != nil {
			return res, err
		}
		e.exportTask(ctx, task, today, &res)
	}

	for _, taskID := range e.index.TaskIDs() {
		if wanted[taskID] {
			continue
		}
		eventID := e.index.Get(taskID)
		err := e.events.Delete(ctx, eventID)
		switch {
		case err == nil:
			res.Deleted++
			e.index.Remove(taskID)
		case isGone(err):
			e.index.Remove(taskID)
		default:
			log.Printf("Error deleting event %s for task %s: %v", eventID, taskID, err)
			res.Failed++
		}
	}

	return res, e.index.Save()
}

func (e *Exporter) exportTask(ctx context.Context, task model.Task, today model.Date, res *Result) {
	target, err := EventForTask(task, today)
	if err != nil {
		log.Printf("Error converting task %s: %v", task.ID, err)
		res.Failed++
		return
	}
	taskID := string(task.ID)

	var existing *calendar.Event
	if eventID := e.index.Get(taskID); eventID != "" {
		existing, err = e.events.Get(ctx, eventID)
		if err != nil || existing == nil || existing.Status == "cancelled" {
			existing = nil
		}
	}
	if existing == nil {
		existing, err = e.events.FindByTaskID(ctx, taskID)
		if err != nil {
			log.Printf("Error searching for event of task %s: %v", taskID, err)
			res.Failed++
			return
		}
	}

	if existing == nil {
		created, err := e.events.Insert(ctx, target)
		if err != nil {
			log.Printf("Error creating event for task %s: %v", taskID, err)
			res.Failed++
			return
		}
		e.index.Set(taskID, created.Id)
		res.Created++
		return
	}

	e.index.Set(taskID, existing.Id)
	patch := EventPatch(existing, target)
	if patch == nil {
		res.Unchanged++
		return
	}
	if _, err := e.events.Patch(ctx, existing.Id, patch); err != nil {
		log.Printf("Error patching event %s for task %s: %v", existing.Id, taskID, err)
		res.Failed++
		return
	}
	res.Updated++
}

func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}
