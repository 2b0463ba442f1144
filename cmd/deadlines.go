package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

var deadlinesCmd = &cobra.Command{
	Use:     "deadlines",
	Aliases: []string{"due"},
	Short:   "Show overdue and upcoming tasks",
	Long: `Shows active tasks whose deadline has passed or falls within the next
N days (default 7), soonest first. Completed and deleted tasks are
excluded.`,
	Args: cobra.NoArgs,
	RunE: runDeadlines,
}

func init() {
	deadlinesCmd.Flags().Int("days", 7, "how many days ahead to look") //nolint:mnd // one week default
	rootCmd.AddCommand(deadlinesCmd)
}

func runDeadlines(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days < 0 {
		return clierr.Newf(clierr.InvalidInput, "--days must be >= 0, got %d", days)
	}

	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	tasks := view.DueWithin(r.Tasks(), r.Today(), days)
	view.Sort(tasks, view.ByDeadline, false, cfg)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks)
	}
	return nil
}
