package index

import (
	"os"
	"testing"
)

func TestEventIndexPersists(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewEventIndex(dir)
	if err != nil {
		t.Fatalf("NewEventIndex failed: %v", err)
	}
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(idx.Path); !os.IsNotExist(err) {
		t.Error("Expected a clean index not to be written")
	}

	idx.Set("task-b", "evt-2")
	idx.Set("task-a", "evt-1")
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := NewEventIndex(dir)
	if err != nil {
		t.Fatalf("NewEventIndex failed: %v", err)
	}
	if reopened.Get("task-a") != "evt-1" || reopened.Get("task-b") != "evt-2" {
		t.Errorf("unexpected mappings %v", reopened.Mappings)
	}
	ids := reopened.TaskIDs()
	if len(ids) != 2 || ids[0] != "task-a" || ids[1] != "task-b" {
		t.Errorf("Expected sorted ids, got %v", ids)
	}

	reopened.Remove("task-a")
	reopened.Remove("missing")
	if reopened.Get("task-a") != "" || len(reopened.TaskIDs()) != 1 {
		t.Errorf("Expected task-a to be removed, got %v", reopened.Mappings)
	}
}

func TestEventIndexCorrupt(t *testing.T) {
	dir := t.TempDir()
	idx, _ := NewEventIndex(dir)
	if err := os.WriteFile(idx.Path, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEventIndex(dir); err == nil {
		t.Error("Expected error for a corrupt index")
	}
}
