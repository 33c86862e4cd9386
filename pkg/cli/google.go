package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/harrisonrobin/todo/pkg/auth"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/google"
	"github.com/harrisonrobin/todo/pkg/index"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return fmt.Errorf("could not find configuration directory: %w", err)
			}
			if err := auth.Reset(dir); err != nil {
				return err
			}
			if _, err := auth.GetCalendarService(cmd.Context(), dir); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved in %s\n", dir)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var calendarName string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Mirror pending tasks with a due date onto Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir, err := config.Dir()
			if err != nil {
				return fmt.Errorf("could not find configuration directory: %w", err)
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			name := firstNonEmpty(calendarName, cfg.Calendar, config.DefaultCalendar)
			client, err := google.NewClient(cmd.Context(), dir, name)
			if err != nil {
				return err
			}
			idx, err := index.NewEventIndex(dir)
			if err != nil {
				return fmt.Errorf("could not open event index: %w", err)
			}

			res, err := google.NewExporter(client, idx).Export(cmd.Context(), st.All(), model.Today(time.Now()))
			if err != nil {
				log.Printf("Warning: failed to save event index: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calendar %q: %d created, %d updated, %d unchanged, %d deleted, %d failed\n",
				name, res.Created, res.Updated, res.Unchanged, res.Deleted, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d calendar operations failed", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	return cmd
}
