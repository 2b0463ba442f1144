package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify the configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"store.base_url": {
			get:      func(c *config.Config) any { return c.Store.BaseURL },
			set:      func(c *config.Config, v string) error { c.Store.BaseURL = v; return nil },
			writable: true,
		},
		"store.spreadsheet": {
			get:      func(c *config.Config) any { return c.Store.Spreadsheet },
			set:      func(c *config.Config, v string) error { c.Store.Spreadsheet = v; return nil },
			writable: true,
		},
		"store.credentials": {
			get:      func(c *config.Config) any { return c.Store.Credentials },
			set:      func(c *config.Config, v string) error { c.Store.Credentials = v; return nil },
			writable: true,
		},
		"tables.tasks": {
			get: func(c *config.Config) any { return c.Tables.Tasks },
		},
		"tables.categories": {
			get: func(c *config.Config) any { return c.Tables.Categories },
		},
		"tables.projects": {
			get: func(c *config.Config) any { return c.Tables.Projects },
		},
		"retry.max_attempts": {
			get: func(c *config.Config) any { return c.Retry.MaxAttempts },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid retry.max_attempts %q: must be an integer", v)
				}
				c.Retry.MaxAttempts = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"retry.base_delay": {
			get: func(c *config.Config) any { return c.Retry.BaseDelay },
			set: func(c *config.Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid retry.base_delay %q: %v", v, err)
				}
				c.Retry.BaseDelay = v
				return nil
			},
			writable: true,
		},
		"statuses": {
			get: func(c *config.Config) any { return c.Statuses },
		},
		"priorities": {
			get: func(c *config.Config) any { return c.Priorities },
		},
		"defaults.status": {
			get: func(c *config.Config) any { return c.Defaults.Status },
			set: func(c *config.Config, v string) error {
				if config.IndexOf(c.Statuses, v) < 0 {
					return clierr.Newf(clierr.InvalidInput,
						"invalid default status %q; allowed: %s", v, strings.Join(c.Statuses, ", "))
				}
				c.Defaults.Status = v
				return nil
			},
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if v != "" && config.IndexOf(c.Priorities, v) < 0 {
					return clierr.Newf(clierr.InvalidInput,
						"invalid default priority %q; allowed: %s", v, strings.Join(c.Priorities, ", "))
				}
				c.Defaults.Priority = v
				return nil
			},
			writable: true,
		},
		"activity_log": {
			get: func(c *config.Config) any { return c.ActivityLog },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid activity_log %q: must be true or false", v)
				}
				c.ActivityLog = b
				return nil
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"store.base_url",
		"store.spreadsheet",
		"store.credentials",
		"tables.tasks",
		"tables.categories",
		"tables.projects",
		"retry.max_attempts",
		"retry.base_delay",
		"statuses",
		"priorities",
		"defaults.status",
		"defaults.priority",
		"activity_log",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
