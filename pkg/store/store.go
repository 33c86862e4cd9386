// Package store owns the task collection. Every mutation is followed by a
// save through the storage gateway.
package store

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/query"
	"github.com/harrisonrobin/todo/pkg/storage"
)

// Store is the only writer of the task collection. It is not safe for
// concurrent use; callers drive it from a single loop.
type Store struct {
	gw      storage.Gateway
	tasks   []model.Task
	newID   func() model.ID
	saveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() model.ID) Option {
	return func(s *Store) { s.newID = gen }
}

// New loads the collection from gw.
func New(gw storage.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:    gw,
		newID: func() model.ID { return model.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = gw.Load()
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	return s
}

// Create adds a task. An empty dueDate means no deadline; an unknown
// priority falls back to medium.
func (s *Store) Create(text, dueDate, priority string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, &model.ValidationError{Field: "text", Msg: "task text must not be empty"}
	}
	due, err := parseDue(dueDate)
	if err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		ID:       s.freshID(),
		Text:     text,
		DueDate:  due,
		Priority: model.PriorityOrDefault(priority),
	}
	s.tasks = append(s.tasks, t)
	s.save()
	return detach(t), nil
}

// Delete removes the task with id. Absent ids are ignored.
func (s *Store) Delete(id model.ID) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.save()
}

// ToggleCompleted flips the completion state of the task with id.
func (s *Store) ToggleCompleted(id model.ID) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.save()
}

// Edit applies the supplied fields of e to the task with id. Empty text or a
// malformed date rejects the whole edit. An invalid priority is ignored and
// the previous value kept. ok is false when no such task exists.
func (s *Store) Edit(id model.ID, e model.Edit) (t model.Task, ok bool, err error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	next := s.tasks[i]

	if e.Text != nil {
		text := strings.TrimSpace(*e.Text)
		if text == "" {
			return detach(s.tasks[i]), true, &model.ValidationError{Field: "text", Msg: "task text must not be empty"}
		}
		next.Text = text
	}
	if e.DueDate != nil {
		due, err := parseDue(*e.DueDate)
		if err != nil {
			return detach(s.tasks[i]), true, err
		}
		next.DueDate = due
	}
	if e.Priority != nil {
		if p, valid := model.ParsePriority(*e.Priority); valid {
			next.Priority = p
		} else {
			log.Printf("Warning: task %s: ignoring invalid priority %q", id, *e.Priority)
		}
	}

	s.tasks[i] = next
	s.save()
	return detach(next), true, nil
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted() int {
	return s.removeWhere(func(t model.Task) bool { return t.Completed })
}

// DeleteOverdue removes pending tasks due strictly before ref.
func (s *Store) DeleteOverdue(ref model.Date) int {
	return s.removeWhere(func(t model.Task) bool { return t.IsOverdue(ref) })
}

// Import appends already-built tasks, e.g. from an importer. Tasks with
// empty text are skipped; missing or clashing ids are replaced and invalid
// priorities default to medium. The collection is saved once.
func (s *Store) Import(tasks []model.Task) int {
	added := 0
	for _, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if t.ID == "" || s.indexOf(t.ID) >= 0 {
			t.ID = s.freshID()
		}
		if !t.Priority.Valid() {
			t.Priority = model.Medium
		}
		s.tasks = append(s.tasks, t)
		added++
	}
	if added > 0 {
		s.save()
	}
	return added
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = detach(t)
	}
	return out
}

// Get returns the task with id.
func (s *Store) Get(id model.ID) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return detach(s.tasks[i]), true
	}
	return model.Task{}, false
}

// detach copies the due date so callers cannot mutate the stored task.
func detach(t model.Task) model.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// Counts summarises the whole, unfiltered collection.
func (s *Store) Counts() query.Counts {
	return query.Count(s.tasks)
}

// SaveErr returns the error of the most recent save, or nil if it landed.
func (s *Store) SaveErr() error {
	return s.saveErr
}

func (s *Store) removeWhere(drop func(model.Task) bool) int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if drop(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.save()
	return removed
}

func (s *Store) save() {
	s.saveErr = s.gw.Save(s.tasks)
	if s.saveErr != nil {
		log.Printf("Warning: could not save tasks: %v", s.saveErr)
	}
}

func (s *Store) indexOf(id model.ID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshID() model.ID {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func parseDue(s string) (*model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, &model.ValidationError{Field: "dueDate", Msg: err.Error()}
	}
	return &d, nil
}
