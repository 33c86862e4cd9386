package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const indexFile = "events.json"

// EventIndex maps task ids to the calendar event created for them.
type EventIndex struct {
	Mappings map[string]string `json:"mappings"`
	Path     string            `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex opens the index stored in dir, creating an empty one when
// the file does not exist yet.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]string),
		Path:     filepath.Join(dir, indexFile),
	}

	if _, err := os.Stat(idx.Path); err == nil {
		if err := idx.Load(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	f, err := os.Open(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	m := make(map[string]string)
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return err
	}
	idx.Mappings = m
	idx.dirty = false
	return nil
}

// Save writes the index if it changed since the last load or save.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx.Mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(taskID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[taskID]
}

func (idx *EventIndex) Set(taskID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[taskID] != eventID {
		idx.Mappings[taskID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(taskID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[taskID]; exists {
		delete(idx.Mappings, taskID)
		idx.dirty = true
	}
}

// TaskIDs lists every indexed task id in sorted order.
func (idx *EventIndex) TaskIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, 0, len(idx.Mappings))
	for id := range idx.Mappings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
