package query

import (
	"testing"

	"github.com/harrisonrobin/todo/pkg/model"
)

func date(s string) *model.Date {
	d := model.MustDate(s)
	return &d
}

func ids(items []Item) []model.ID {
	out := make([]model.ID, len(items))
	for i, it := range items {
		out[i] = it.Task.ID
	}
	return out
}

func sample() []model.Task {
	return []model.Task{
		{ID: "1", Text: "low", Priority: model.Low},
		{ID: "2", Text: "high late", Priority: model.High, DueDate: date("2024-02-01")},
		{ID: "3", Text: "medium done", Priority: model.Medium, Completed: true, DueDate: date("2024-01-01")},
		{ID: "4", Text: "high early", Priority: model.High, DueDate: date("2024-01-01")},
		{ID: "5", Text: "high undated", Priority: model.High},
		{ID: "6", Text: "medium undated", Priority: model.Medium},
	}
}

func TestViewOrder(t *testing.T) {
	got := ids(View(sample(), model.FilterAll, model.MustDate("2023-12-01")))
	want := []model.ID{"4", "2", "5", "3", "6", "1"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestViewPriorityOnly(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: model.Low},
		{ID: "b", Priority: model.High},
		{ID: "c", Priority: model.Medium},
		{ID: "d", Priority: model.High},
	}
	got := ids(View(tasks, model.FilterAll, model.MustDate("2024-01-01")))
	want := []model.ID{"b", "d", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestViewFilterPartitions(t *testing.T) {
	ref := model.MustDate("2024-06-01")
	all := View(sample(), model.FilterAll, ref)
	pending := View(sample(), model.FilterPending, ref)
	completed := View(sample(), model.FilterCompleted, ref)

	seen := make(map[model.ID]int)
	for _, it := range pending {
		if it.Task.Completed {
			t.Errorf("pending view contains completed task %s", it.Task.ID)
		}
		seen[it.Task.ID]++
	}
	for _, it := range completed {
		if !it.Task.Completed {
			t.Errorf("completed view contains pending task %s", it.Task.ID)
		}
		seen[it.Task.ID]++
	}
	if len(seen) != len(all) {
		t.Fatalf("Expected %d ids across pending and completed, got %d", len(all), len(seen))
	}
	for _, it := range all {
		if seen[it.Task.ID] != 1 {
			t.Errorf("task %s appears %d times across the partitions", it.Task.ID, seen[it.Task.ID])
		}
	}
}

func TestViewOverdue(t *testing.T) {
	items := View(sample(), model.FilterAll, model.MustDate("2024-01-15"))
	overdue := make(map[model.ID]bool)
	for _, it := range items {
		overdue[it.Task.ID] = it.Overdue
	}
	if !overdue["4"] {
		t.Error("Expected task 4 (due 2024-01-01, pending) to be overdue")
	}
	if overdue["3"] {
		t.Error("Completed task 3 must not be overdue")
	}
	if overdue["2"] || overdue["5"] {
		t.Error("Tasks due later or undated must not be overdue")
	}
}

func TestViewDoesNotMutateInput(t *testing.T) {
	tasks := sample()
	View(tasks, model.FilterAll, model.MustDate("2024-01-01"))
	if tasks[0].ID != "1" || tasks[5].ID != "6" {
		t.Errorf("View reordered its input: %v", tasks)
	}
}

func TestViewEmpty(t *testing.T) {
	if got := View(nil, model.FilterPending, model.MustDate("2024-01-01")); len(got) != 0 {
		t.Errorf("Expected empty view, got %v", got)
	}
}

func TestCount(t *testing.T) {
	c := Count(sample())
	if c.Total != 6 || c.Pending != 5 || c.Completed != 1 {
		t.Errorf("unexpected counts %+v", c)
	}
}
