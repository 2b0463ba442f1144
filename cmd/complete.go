package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/filelock"
	"github.com/nordwind-labs/taskdeck/internal/output"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Mark tasks as completed",
	Long: `Sets the status to Completed and stamps today's date as the
completion date. Completing an already-completed task changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(_ *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
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

	if len(ids) > 1 {
		return runBatch(ids, func(id string) error {
			changed, err := r.MarkCompleted(ctx, id)
			if err != nil {
				return err
			}
			if changed {
				logActivity(cfg, "complete", id, "")
			}
			return nil
		})
	}

	id := ids[0]
	changed, err := r.MarkCompleted(ctx, id)
	if err != nil {
		return err
	}
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	if changed {
		logActivity(cfg, "complete", id, t.Name)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%s is already completed", t.ID)
		return nil
	}
	output.Messagef(os.Stdout, "Completed task #%s: %s", t.ID, t.Name)
	return nil
}
