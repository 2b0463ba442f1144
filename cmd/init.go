package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/output"
	"github.com/nordwind-labs/taskdeck/internal/repo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a taskdeck config and the remote tables",
	Long: `Writes a default config file to the config directory and, when a
credentials file is already in place, creates the tasks, categories and
projects tables in the spreadsheet.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("spreadsheet", "", "spreadsheet name (default \"Task Manager\")")
	initCmd.Flags().String("base-url", "", "sheet service base URL")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	spreadsheet, _ := cmd.Flags().GetString("spreadsheet")
	cfg, err := config.Init(dir, spreadsheet)
	if err != nil {
		return clierr.Wrap(clierr.ConfigExists, err, "%v", err)
	}
	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.Store.BaseURL = baseURL
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	output.Messagef(os.Stdout, "Created config at %s", cfg.ConfigPath())

	// Table creation needs credentials; skip with a hint when absent.
	if _, statErr := os.Stat(cfg.CredentialsPath()); statErr != nil {
		output.Messagef(os.Stdout, "Place credentials at %s and run 'taskdeck init-tables' to create the remote tables.", cfg.CredentialsPath())
		return nil
	}

	return ensureTables(cfg)
}

var initTablesCmd = &cobra.Command{
	Use:   "init-tables",
	Short: "Create the remote tables for an existing config",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return ensureTables(cfg)
	},
}

func init() {
	rootCmd.AddCommand(initTablesCmd)
}

func ensureTables(cfg *config.Config) error {
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	r := repo.New(store, cfg)
	if err := r.EnsureTables(ctx); err != nil {
		return err
	}
	output.Messagef(os.Stdout, "Tables ready in spreadsheet %q", cfg.Store.Spreadsheet)
	return nil
}
