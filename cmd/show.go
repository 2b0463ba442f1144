package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/output"
)

var showCmd = &cobra.Command{
	Use:     "show ID",
	Aliases: []string{"get"},
	Short:   "Show one task in full detail",
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	r, _, err := openRepo(ctx)
	if err != nil {
		return err
	}

	t, err := r.Get(ids[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
	default:
		output.TaskDetail(os.Stdout, t)
	}
	return nil
}
