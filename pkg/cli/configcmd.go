package cli

import (
	"fmt"

	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var calendarName, file, filter string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("calendar") && !flags.Changed("data-file") && !flags.Changed("default-filter") {
				path, _ := config.GetConfigPath()
				fmt.Fprintf(cmd.OutOrStdout(), "config:         %s\ndata_file:      %s\ncalendar:       %s\ndefault_filter: %s\n",
					path, cfg.DataFile, cfg.Calendar, cfg.DefaultFilter)
				return nil
			}

			if flags.Changed("calendar") {
				cfg.Calendar = calendarName
			}
			if flags.Changed("data-file") {
				cfg.DataFile = file
			}
			if flags.Changed("default-filter") {
				f, err := model.ParseFilter(filter)
				if err != nil {
					return err
				}
				cfg.DefaultFilter = string(f)
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "default Google Calendar name")
	cmd.Flags().StringVar(&file, "data-file", "", "task list file")
	cmd.Flags().StringVar(&filter, "default-filter", "", "filter shown at start: all, completed or pending")
	return cmd
}
