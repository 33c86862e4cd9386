package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/orgmode"
	"github.com/harrisonrobin/todo/pkg/taskwarrior"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add tasks from other tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "org FILE...",
		Short: "Import TODO and DONE headings from Org-mode files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := orgmode.ParseFiles(args)
			if err != nil {
				return fmt.Errorf("failed to parse org files: %w", err)
			}
			return importTasks(cmd, tasks)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "taskwarrior [FILE|-]",
		Short: "Import a `task export` dump, or run task export when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()
			var twTasks []taskwarrior.Task
			var err error
			switch {
			case len(args) == 0:
				twTasks, err = client.GetTasks(cmd.Context(), nil)
			case args[0] == "-":
				twTasks, err = client.ParseTasks(cmd.InOrStdin())
			default:
				twTasks, err = parseTaskwarriorFile(client, args[0])
			}
			if err != nil {
				return err
			}
			return importTasks(cmd, taskwarrior.ToTasks(twTasks, time.Local))
		},
	})
	return cmd
}

func parseTaskwarriorFile(client *taskwarrior.Client, path string) ([]taskwarrior.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return client.ParseTasks(io.Reader(f))
}

func importTasks(cmd *cobra.Command, tasks []model.Task) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	n := st.Import(tasks)
	if err := st.SaveErr(); err != nil {
		return fmt.Errorf("imported tasks could not be saved: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tasks\n", n, len(tasks))
	return nil
}
