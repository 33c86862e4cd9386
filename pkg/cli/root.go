package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/query"
	"github.com/harrisonrobin/todo/pkg/storage"
	"github.com/harrisonrobin/todo/pkg/store"
	"github.com/harrisonrobin/todo/pkg/ui"
	"github.com/spf13/cobra"
)

var (
	dataFile   string
	filterFlag string
	verbose    bool
)

// NewRootCmd builds the command tree. The bare command opens the
// interactive list.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "A local task list with priorities and due dates",
		Version:       version,
		RunE:          runSession,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetPrefix("todo: ")
			log.SetFlags(0)
			if verbose {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
		},
	}

	root.PersistentFlags().StringVar(&dataFile, "file", "", "task list file (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&filterFlag, "filter", "", "filter: all, completed or pending")

	root.AddCommand(newListCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, version string) error {
	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, filter, err := loadConfigAndFilter()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	// Log lines would tear the full-screen view; send them to a file or drop them.
	restore := redirectLog()
	defer restore()

	return ui.Run(cmd.Context(), st, cmd.InOrStdin(), cmd.OutOrStdout(), ui.WithFilter(filter))
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the task list without opening the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, filter, err := loadConfigAndFilter()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			items := query.View(st.All(), filter, model.Today(time.Now()))
			ui.Render(cmd.OutOrStdout(), items, filter, st.Counts(), -1)
			return nil
		},
	}
}

func loadConfigAndFilter() (*config.Config, model.Filter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	filter, err := model.ParseFilter(firstNonEmpty(filterFlag, cfg.DefaultFilter, string(model.FilterAll)))
	if err != nil {
		return nil, "", err
	}
	return cfg, filter, nil
}

// redirectLog points the standard logger at todo.log in the config directory
// when --verbose is set, and discards it otherwise. The returned func undoes
// the change.
func redirectLog() func() {
	prev := log.Writer()
	restore := func() { log.SetOutput(prev) }
	if !verbose {
		log.SetOutput(io.Discard)
		return restore
	}
	dir, err := config.Dir()
	if err == nil {
		err = os.MkdirAll(dir, 0700)
	}
	if err != nil {
		log.SetOutput(io.Discard)
		return restore
	}
	f, err := tea.LogToFile(filepath.Join(dir, "todo.log"), "todo")
	if err != nil {
		log.SetOutput(io.Discard)
		return restore
	}
	return func() {
		f.Close()
		restore()
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: could not load config, using defaults: %v", err)
		return config.Default(), nil
	}
	return cfg, nil
}

// dataPath resolves the task file: --file, then config, then the default.
func dataPath(cfg *config.Config) (string, error) {
	if p := firstNonEmpty(dataFile, cfg.DataFile); p != "" {
		return p, nil
	}
	return storage.DefaultPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path, err := dataPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not locate task file: %w", err)
	}
	return store.New(storage.NewFileGateway(path)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
