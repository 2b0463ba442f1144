package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/filelock"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/repo"
)

var archiveCmd = &cobra.Command{
	Use:     "archive ID[,ID,...]",
	Aliases: []string{"delete", "rm"},
	Short:   "Archive (soft-delete) tasks",
	Long: `Flips a task's status to Deleted. The row stays in the table and is
hidden from active views. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch archive requires --yes")
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

	if len(ids) == 1 {
		return archiveSingle(ctx, r, cfg, ids[0], yes)
	}

	// Batch mode (yes is guaranteed true here).
	return runBatch(ids, func(id string) error {
		changed, err := r.Archive(ctx, id)
		if err != nil {
			return err
		}
		if changed {
			logActivity(cfg, "archive", id, "")
		}
		return nil
	})
}

func archiveSingle(ctx context.Context, r *repo.Repository, cfg *config.Config, id string, yes bool) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Archive task #%s %q? [y/N] ", t.ID, t.Name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	changed, err := r.Archive(ctx, id)
	if err != nil {
		return err
	}
	if changed {
		logActivity(cfg, "archive", id, t.Name)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "archived",
			"id":     t.ID,
			"name":   t.Name,
		})
	}

	if !changed {
		output.Messagef(os.Stdout, "Task #%s is already archived", t.ID)
		return nil
	}
	output.Messagef(os.Stdout, "Archived task #%s: %s", t.ID, t.Name)
	return nil
}
