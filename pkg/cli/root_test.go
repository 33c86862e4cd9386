package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/storage"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSessionQuitsAndListPrints(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	file := filepath.Join(t.TempDir(), "tasks.json")
	due := model.MustDate("2024-01-01")
	if err := storage.NewFileGateway(file).Save([]model.Task{
		{ID: "a", Text: "milk", Priority: model.High},
		{ID: "b", Text: "rent", Priority: model.Low, Completed: true, DueDate: &due},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "q", "--file", file, "--filter", "completed"); err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if tasks := storage.NewFileGateway(file).Load(); len(tasks) != 2 {
		t.Errorf("Expected quitting to leave the file alone, got %+v", tasks)
	}

	out, err := run(t, "", "list", "--file", file, "--filter", "completed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "[completed]") || !strings.Contains(out, "[x] . low    rent  due 2024-01-01") {
		t.Errorf("Expected the completed task, got:\n%s", out)
	}
	if strings.Contains(out, "milk") || !strings.Contains(out, "1 pending task | total 2, pending 1, completed 1") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	out, err = run(t, "", "list", "--file", empty)
	if err != nil || !strings.Contains(out, "(no tasks)") {
		t.Errorf("Expected an empty list, got %v:\n%s", err, out)
	}
}

func TestSessionRejectsBadFilter(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := run(t, "", "--file", filepath.Join(t.TempDir(), "t.json"), "--filter", "soon"); err == nil {
		t.Error("Expected error for unknown filter")
	}
}

func TestConfigCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := run(t, "", "config", "--calendar", "Work", "--default-filter", "pending"); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	cfg, err := config.LoadFile(filepath.Join(home, ".config", "todo", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Calendar != "Work" || cfg.DefaultFilter != "pending" {
		t.Errorf("unexpected config %+v", cfg)
	}

	out, err := run(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "calendar:       Work") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "", "config", "--default-filter", "later"); err == nil {
		t.Error("Expected error for invalid default filter")
	}
}

func TestImportOrg(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	org := filepath.Join(dir, "inbox.org")
	if err := os.WriteFile(org, []byte("* TODO [#A] Renew passport\n  DEADLINE: <2024-05-01 Wed>\n* DONE Water plants\n"), 0600); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "tasks.json")

	out, err := run(t, "", "--file", file, "import", "org", org)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 of 2 tasks") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if tasks := storage.NewFileGateway(file).Load(); len(tasks) != 2 {
		t.Errorf("Expected 2 persisted tasks, got %d", len(tasks))
	}
}

func TestImportTaskwarriorStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	file := filepath.Join(t.TempDir(), "tasks.json")
	input := `[{"uuid":"u1","description":"Buy milk","status":"pending","priority":"L"}]`

	out, err := run(t, input, "--file", file, "import", "taskwarrior", "-")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 1 of 1 tasks") {
		t.Errorf("unexpected output:\n%s", out)
	}
	tasks := storage.NewFileGateway(file).Load()
	if len(tasks) != 1 || tasks[0].ID != "u1" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}
