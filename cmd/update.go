package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/filelock"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/repo"
)

var updateCmd = &cobra.Command{
	Use:     "update ID[,ID,...]",
	Aliases: []string{"edit"},
	Short:   "Update fields of a task",
	Long: `Updates one or more fields of a task. Only name, deadline, priority,
status, category, project and notes can change; ids and create dates
are immutable. Multiple IDs apply the same changes to each task.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// updateFlagFields maps flag names to repository field names, in the
// order the changes are applied.
var updateFlagFields = []string{
	repo.FieldName, repo.FieldDeadline, repo.FieldPriority,
	repo.FieldStatus, repo.FieldCategory, repo.FieldProject, repo.FieldNotes,
}

func init() {
	updateCmd.Flags().String("name", "", "new task name")
	updateCmd.Flags().String("deadline", "", "new deadline (YYYY-MM-DD)")
	updateCmd.Flags().String("priority", "", "new priority")
	updateCmd.Flags().String("status", "", "new status")
	updateCmd.Flags().String("category", "", "new category name")
	updateCmd.Flags().String("project", "", "new project name")
	updateCmd.Flags().String("notes", "", "new notes (truncated at 250 characters)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	changes := make(map[string]string)
	for _, field := range updateFlagFields {
		if cmd.Flags().Changed(field) {
			v, _ := cmd.Flags().GetString(field)
			changes[field] = v
		}
	}
	if len(changes) == 0 {
		return clierr.New(clierr.NoChanges, "no fields to update; pass at least one field flag")
	}

	dir, err := resolveDir()
	if err != nil {
		return err
	}
	unlock, err := filelock.Guard(dir)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	applyOne := func(id string) error {
		for _, field := range updateFlagFields {
			value, ok := changes[field]
			if !ok {
				continue
			}
			if err := r.UpdateField(ctx, id, field, value); err != nil {
				return err
			}
			logActivity(cfg, "update", id, field+"="+value)
		}
		return nil
	}

	if len(ids) > 1 {
		return runBatch(ids, applyOne)
	}

	if err := applyOne(ids[0]); err != nil {
		return err
	}

	t, err := r.Get(ids[0])
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Updated task #%s: %s", t.ID, t.Name)
	return nil
}
