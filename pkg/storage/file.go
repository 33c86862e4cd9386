package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/todo/pkg/model"
)

const (
	xdgAppName = "todo"
	dataFile   = "tasks.json"
)

// record is the persisted form of a task.
type record struct {
	ID        model.ID `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	DueDate   *string  `json:"dueDate"`
	Priority  string   `json:"priority"`
}

// document is the single well-known slot holding the collection.
type document struct {
	Tasks []record `json:"tasks"`
}

// FileGateway persists the collection as a JSON document on disk.
type FileGateway struct {
	Path string
}

// DefaultPath returns ~/.config/todo/tasks.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, dataFile), nil
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{Path: path}
}

// Load reads the collection. A missing file is an empty list; an
// unreadable or corrupt file is logged and also treated as empty.
func (g *FileGateway) Load() []model.Task {
	b, err := os.ReadFile(g.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not read task file %s: %v", g.Path, err)
		}
		return []model.Task{}
	}
	tasks, err := decode(b)
	if err != nil {
		log.Printf("Warning: ignoring corrupt task file %s: %v", g.Path, err)
		return []model.Task{}
	}
	return tasks
}

// Save writes the collection to a temporary file next to Path and renames it
// into place.
func (g *FileGateway) Save(tasks []model.Task) error {
	dir := filepath.Dir(g.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %v", ErrUnavailable, err)
	}

	b, err := encode(tasks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	f, err := os.CreateTemp(dir, "."+dataFile+".*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", ErrUnavailable, err)
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to write tasks: %v", ErrUnavailable, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to write tasks: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, g.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %v", ErrUnavailable, g.Path, err)
	}
	return nil
}

func encode(tasks []model.Task) ([]byte, error) {
	doc := document{Tasks: make([]record, 0, len(tasks))}
	for _, t := range tasks {
		r := record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Priority:  string(t.Priority),
		}
		if t.DueDate != nil {
			s := t.DueDate.String()
			r.DueDate = &s
		}
		doc.Tasks = append(doc.Tasks, r)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// decode accepts the {"tasks": [...]} document as well as a bare array, the
// layout used by the browser version of the list.
func decode(b []byte) ([]model.Task, error) {
	var raw []json.RawMessage
	var doc struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(b, &doc); err == nil {
		raw = doc.Tasks
	} else if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(raw))
	seen := make(map[model.ID]bool, len(raw))
	for i, m := range raw {
		var r record
		if err := json.Unmarshal(m, &r); err != nil {
			log.Printf("Warning: skipping malformed task record %d: %v", i, err)
			continue
		}
		r.Text = strings.TrimSpace(r.Text)
		if r.ID == "" || r.Text == "" {
			log.Printf("Warning: skipping task record without id or text")
			continue
		}
		if seen[r.ID] {
			log.Printf("Warning: skipping duplicate task id %s", r.ID)
			continue
		}
		seen[r.ID] = true

		t := model.Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			Priority:  model.PriorityOrDefault(r.Priority),
		}
		if r.DueDate != nil && *r.DueDate != "" {
			d, err := model.ParseDate(*r.DueDate)
			if err != nil {
				log.Printf("Warning: task %s: dropping due date: %v", r.ID, err)
			} else {
				t.DueDate = &d
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
