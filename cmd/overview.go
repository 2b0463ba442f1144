package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/view"
	"github.com/nordwind-labs/taskdeck/internal/watcher"
)

var overviewCmd = &cobra.Command{
	Use:     "overview",
	Aliases: []string{"summary"},
	Short:   "Show a summary of active tasks",
	Long: `Counts active tasks by status, priority and project, with overdue and
due-today totals. With --watch the summary re-renders whenever the
config directory changes.`,
	Args: cobra.NoArgs,
	RunE: runOverview,
}

func init() {
	overviewCmd.Flags().Bool("watch", false, "re-render when the config directory changes")
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, _ []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	render := func() error {
		s := view.Summarize(r.Tasks(), r.Today())
		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, s)
		case output.FormatCompact:
			output.OverviewCompact(os.Stdout, cfg.Store.Spreadsheet, s, cfg.Statuses)
		default:
			output.OverviewTable(os.Stdout, cfg.Store.Spreadsheet, s, cfg.Statuses, cfg.Priorities)
		}
		return nil
	}

	if err := render(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	// Watch mode: refresh the cache and re-render when the config
	// directory changes; a failed refresh keeps the last summary.
	watchCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{cfg.Dir()}, func() {
		refreshCtx, refreshCancel := commandContext()
		defer refreshCancel()
		if err := r.Refresh(refreshCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: refresh failed, keeping cached data: %v\n", err)
		}
		_ = render()
	})
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck // best-effort close on exit

	w.Run(watchCtx, func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: watch error: %v\n", err)
	})
	return nil
}
