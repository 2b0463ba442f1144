package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks from the cached tables. Deleted tasks are hidden unless
--all is given. Filters combine with AND logic.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("category", "", "filter by category name")
	listCmd.Flags().String("project", "", "filter by project name")
	listCmd.Flags().String("search", "", "case-insensitive substring match on name and notes")
	listCmd.Flags().Bool("all", false, "include deleted tasks")
	listCmd.Flags().String("sort", view.ByID, "sort field (id, name, deadline, priority, status, project)")
	listCmd.Flags().Bool("reverse", false, "reverse sort order")
	listCmd.Flags().Int("limit", 0, "show at most N tasks (0 means all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	sortField, _ := cmd.Flags().GetString("sort")
	if !validSortField(sortField) {
		return clierr.Newf(clierr.InvalidInput, "invalid sort field %q", sortField).
			WithDetails(map[string]any{"allowed": view.SortFields})
	}

	statuses, _ := cmd.Flags().GetStringSlice("status")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	category, _ := cmd.Flags().GetString("category")
	project, _ := cmd.Flags().GetString("project")
	search, _ := cmd.Flags().GetString("search")
	all, _ := cmd.Flags().GetBool("all")
	reverse, _ := cmd.Flags().GetBool("reverse")

	tasks := view.Filter(r.Tasks(), view.FilterOptions{
		Statuses:       statuses,
		Priorities:     priorities,
		Category:       category,
		Project:        project,
		Search:         search,
		IncludeDeleted: all,
	})
	view.Sort(tasks, sortField, reverse, cfg)

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}

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

func validSortField(field string) bool {
	for _, f := range view.SortFields {
		if f == field {
			return true
		}
	}
	return false
}
