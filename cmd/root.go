// Package cmd implements the taskdeck CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/repo"
	"github.com/nordwind-labs/taskdeck/internal/retry"
	"github.com/nordwind-labs/taskdeck/internal/sheet"
	"github.com/nordwind-labs/taskdeck/internal/task"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Track tasks stored in a remote spreadsheet",
	Long: `taskdeck manages tasks, categories and projects kept in a remote
spreadsheet. All writes go to the spreadsheet first; a local cache keeps
reads fast between refreshes.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" ||
			termenv.NewOutput(os.Stdout).ColorProfile() == termenv.Ascii {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "config-dir", "", "path to the taskdeck config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("TASKDECK_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the config directory: the flag if set, the
// TASKDECK_DIR env var, otherwise ~/.taskdeck.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env := os.Getenv("TASKDECK_DIR"); env != "" {
		return env, nil
	}
	return config.DefaultDir()
}

// loadConfig loads the config from the resolved directory.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// newStore builds the remote store for a config, wrapped in the
// configured retry policy.
func newStore(cfg *config.Config) (sheet.Store, error) {
	creds, err := sheet.LoadCredentials(cfg.CredentialsPath())
	if err != nil {
		return nil, err
	}
	base := sheet.NewHTTPStore(cfg.Store.BaseURL, cfg.Store.Spreadsheet, creds)
	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.BaseDelayDuration(),
		Notify: func(attempt int, delay time.Duration) {
			fmt.Fprintf(os.Stderr, "Rate limited, retrying in %s (attempt %d/%d)...\n",
				delay, attempt, cfg.Retry.MaxAttempts)
		},
	}
	return sheet.WithRetry(base, policy), nil
}

// openRepo loads the config, builds the store and refreshes the cache.
func openRepo(ctx context.Context) (*repo.Repository, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	r := repo.New(store, cfg)
	if err := r.Refresh(ctx); err != nil {
		return nil, nil, err
	}
	printWarnings(r.Warnings())
	return r, cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes row warnings from the last refresh to stderr.
func printWarnings(warnings []repo.RowWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed row %d in %s: %v\n", w.Row, w.Table, w.Err)
	}
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	if !cfg.ActivityLog {
		return
	}
	view.LogMutation(cfg.Dir(), action, taskID, detail)
}

// parseIDs splits a comma-separated ID string into deduplicated ids.
// Every id must be a positive digit string.
func parseIDs(arg string) ([]string, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[string]bool, len(parts))
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := task.NumericID(p); !ok {
			return nil, task.ValidateTaskID(p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		ids = append(ids, p)
	}
	if len(ids) == 0 {
		return nil, task.ValidateTaskID(arg)
	}
	return ids, nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []string, fn func(string) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: id, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// commandContext returns a context with the standard command timeout.
func commandContext() (context.Context, context.CancelFunc) {
	const commandTimeout = 2 * time.Minute
	return context.WithTimeout(context.Background(), commandTimeout)
}
