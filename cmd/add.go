package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/filelock"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add [NAME]",
	Aliases: []string{"create"},
	Short:   "Add a new task",
	Long: `Adds a task to the remote tasks table. The name can be given as a
positional argument or via --name. A deadline is required and must not
be in the past.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("name", "", "task name (alternative to positional argument)")
	addCmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD, required)")
	addCmd.Flags().String("priority", "", "task priority (High, Medium, Low)")
	addCmd.Flags().String("category", "", "category name")
	addCmd.Flags().String("project", "", "project name")
	addCmd.Flags().String("notes", "", "free-form notes (markdown, truncated at 250 characters)")
	addCmd.Flags().String("created", "", "creation date override (YYYY-MM-DD, defaults to today)")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "note":
			name = "notes"
		case "due":
			name = "deadline"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Hold the mutation lock so two local invocations cannot read the
	// same id ceiling and append duplicate ids.
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

	name, err := resolveAddName(cmd, args)
	if err != nil {
		return err
	}
	deadline, _ := cmd.Flags().GetString("deadline")
	if deadline == "" {
		return clierr.New(clierr.InvalidDate, "deadline is required (YYYY-MM-DD)")
	}
	priority, _ := cmd.Flags().GetString("priority")
	category, _ := cmd.Flags().GetString("category")
	project, _ := cmd.Flags().GetString("project")
	notes, _ := cmd.Flags().GetString("notes")

	t, err := r.NewTask(name, deadline, priority, category, project, notes)
	if err != nil {
		return err
	}
	if created, _ := cmd.Flags().GetString("created"); created != "" {
		d, err := date.Parse(created)
		if err != nil {
			return clierr.Newf(clierr.InvalidDate, "invalid creation date %q: expected YYYY-MM-DD", created)
		}
		t.CreateDate = d
	}
	if _, truncated := task.ClampNotes(notes); truncated {
		fmt.Fprintf(os.Stderr, "Warning: notes truncated to %d characters\n", task.MaxNotesLength)
	}
	if err := r.Add(ctx, t); err != nil {
		return err
	}

	logActivity(cfg, "add", t.ID, t.Name)
	return outputAddResult(t)
}

func outputAddResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Added task #%s: %s", t.ID, t.Name)
	output.Messagef(os.Stdout, "  Deadline: %s", t.Deadline)
	if t.Priority != "" {
		output.Messagef(os.Stdout, "  Priority: %s", t.Priority)
	}
	if t.Category.Name != task.UnknownCategory {
		output.Messagef(os.Stdout, "  Category: %s", t.Category.Name)
	}
	if t.Project.Name != task.NoProject {
		output.Messagef(os.Stdout, "  Project: %s", t.Project.Name)
	}
	return nil
}

// resolveAddName returns the task name from either the positional arg or --name flag.
func resolveAddName(cmd *cobra.Command, args []string) (string, error) {
	flagName, _ := cmd.Flags().GetString("name")
	hasPositional := len(args) > 0
	hasFlag := flagName != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"name provided both as argument and --name flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagName, nil
	default:
		return "", errors.New("name is required: provide it as an argument or with --name")
	}
}
