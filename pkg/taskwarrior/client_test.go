package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
)

const exportArray = `[
{"uuid":"f45a05b3-c12e-42e5-9c9c-333333333333","description":"Buy milk","status":"pending","priority":"H","due":"20230101T120000Z","project":"Groceries","tags":["buy","food"]},
{"uuid":"a1","description":"Old thing","status":"deleted"},
{"uuid":"a2","description":"Done thing","status":"completed","priority":"L"}
]`

func TestParseTasksArray(t *testing.T) {
	tasks, err := NewClient().ParseTasks(strings.NewReader(exportArray))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" || tasks[0].Priority != "H" {
		t.Errorf("unexpected first task %+v", tasks[0])
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !tasks[0].Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, tasks[0].Due.Time)
	}
}

func TestParseTasksStream(t *testing.T) {
	input := "\n{\"uuid\":\"1\",\"description\":\"a\",\"status\":\"pending\"}\n{\"uuid\":\"2\",\"description\":\"b\",\"status\":\"waiting\"}\n"
	tasks, err := NewClient().ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Status != "waiting" {
		t.Errorf("unexpected tasks %+v", tasks)
	}

	if tasks, err := NewClient().ParseTasks(strings.NewReader("  ")); err != nil || len(tasks) != 0 {
		t.Errorf("Expected no tasks for blank input, got %v, %v", tasks, err)
	}
	if _, err := NewClient().ParseTasks(strings.NewReader(`{"due":"yesterday"}`)); err == nil {
		t.Error("Expected error for a bad timestamp")
	}
}

func TestToTasks(t *testing.T) {
	tasks, err := NewClient().ParseTasks(strings.NewReader(exportArray))
	if err != nil {
		t.Fatal(err)
	}
	out := ToTasks(tasks, time.UTC)
	if len(out) != 2 {
		t.Fatalf("Expected deleted task to be skipped, got %d tasks", len(out))
	}
	if out[0].Priority != model.High || out[0].DueDate == nil || out[0].DueDate.String() != "2023-01-01" {
		t.Errorf("unexpected first task %+v", out[0])
	}
	if out[0].ID != "f45a05b3-c12e-42e5-9c9c-333333333333" || out[0].Text != "Buy milk" {
		t.Errorf("unexpected first task %+v", out[0])
	}
	if !out[1].Completed || out[1].Priority != model.Low || out[1].DueDate != nil {
		t.Errorf("unexpected second task %+v", out[1])
	}
}

func TestWaitingImportsAsOpen(t *testing.T) {
	input := `{"uuid":"w1","description":"later","status":"waiting","due":"0"}`
	tasks, err := NewClient().ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	out := ToTasks(tasks, time.UTC)
	if len(out) != 1 {
		t.Fatalf("Expected waiting task to import, got %+v", out)
	}
	if out[0].Completed || out[0].DueDate != nil || out[0].Priority != model.Medium {
		t.Errorf("unexpected waiting task %+v", out[0])
	}
}
