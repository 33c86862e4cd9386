package storage

import (
	"errors"

	"github.com/harrisonrobin/todo/pkg/model"
)

// ErrUnavailable wraps every failure to read or write persisted state.
var ErrUnavailable = errors.New("storage unavailable")

// Gateway loads and saves the whole task collection.
type Gateway interface {
	// Load never fails: missing or unreadable state yields an empty list.
	Load() []model.Task
	// Save overwrites the persisted collection.
	Save(tasks []model.Task) error
}

// MemoryGateway keeps the collection in memory. Setting FailSaves makes
// every Save return ErrUnavailable.
type MemoryGateway struct {
	Tasks     []model.Task
	Saves     int
	FailSaves bool
}

func (m *MemoryGateway) Load() []model.Task {
	return cloneTasks(m.Tasks)
}

func (m *MemoryGateway) Save(tasks []model.Task) error {
	if m.FailSaves {
		return ErrUnavailable
	}
	m.Tasks = cloneTasks(tasks)
	m.Saves++
	return nil
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		out[i] = t
	}
	return out
}
