package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskdeck config found (run 'taskdeck init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the taskdeck configuration.
type Config struct {
	Version     int          `yaml:"version"`
	Store       StoreConfig  `yaml:"store"`
	Tables      TablesConfig `yaml:"tables"`
	Retry       RetryConfig  `yaml:"retry"`
	Statuses    []string     `yaml:"statuses"`
	Priorities  []string     `yaml:"priorities"`
	Defaults    Defaults     `yaml:"defaults"`
	ActivityLog bool         `yaml:"activity_log,omitempty"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// StoreConfig identifies the remote sheet service and spreadsheet.
type StoreConfig struct {
	BaseURL     string `yaml:"base_url"`
	Spreadsheet string `yaml:"spreadsheet"`
	Credentials string `yaml:"credentials"`
}

// TablesConfig names the three tables within the spreadsheet.
type TablesConfig struct {
	Tasks      string `yaml:"tasks"`
	Categories string `yaml:"categories"`
	Projects   string `yaml:"projects"`
}

// RetryConfig controls the backoff applied to remote calls.
type RetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	BaseDelay   string `yaml:"base_delay"`
}

// Defaults holds default values for new tasks.
type Defaults struct {
	Status   string `yaml:"status"`
	Priority string `yaml:"priority,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault(spreadsheet string) *Config {
	if spreadsheet == "" {
		spreadsheet = DefaultSpreadsheet
	}
	return &Config{
		Version: CurrentVersion,
		Store: StoreConfig{
			Spreadsheet: spreadsheet,
			Credentials: DefaultCredentialsFile,
		},
		Tables: TablesConfig{
			Tasks:      "tasks",
			Categories: "categories",
			Projects:   "projects",
		},
		Retry: RetryConfig{
			MaxAttempts: DefaultRetryMaxAttempts,
			BaseDelay:   DefaultRetryBaseDelay,
		},
		Statuses:   append([]string{}, DefaultStatuses...),
		Priorities: append([]string{}, DefaultPriorities...),
		Defaults: Defaults{
			Status:   DefaultStatus,
			Priority: DefaultPriority,
		},
	}
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// CredentialsPath resolves the credentials file path. Relative paths
// are resolved against the config directory.
func (c *Config) CredentialsPath() string {
	if filepath.IsAbs(c.Store.Credentials) {
		return c.Store.Credentials
	}
	return filepath.Join(c.dir, c.Store.Credentials)
}

// BaseDelayDuration parses retry.base_delay. Returns 1s on empty or
// unparseable input.
func (c *Config) BaseDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Retry.BaseDelay)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// PriorityIndex returns the index of a priority in the configured
// order, or len(Priorities) for the empty priority (sorts last), or -1.
func (c *Config) PriorityIndex(priority string) int {
	if priority == "" {
		return len(c.Priorities)
	}
	return IndexOf(c.Priorities, priority)
}

// StatusIndex returns the index of a status in the configured order, or -1.
func (c *Config) StatusIndex(status string) int {
	return IndexOf(c.Statuses, status)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Store.Spreadsheet == "" {
		return fmt.Errorf("%w: store.spreadsheet is required", ErrInvalid)
	}
	if c.Store.Credentials == "" {
		return fmt.Errorf("%w: store.credentials is required", ErrInvalid)
	}
	if c.Tables.Tasks == "" || c.Tables.Categories == "" || c.Tables.Projects == "" {
		return fmt.Errorf("%w: all three table names are required", ErrInvalid)
	}
	if len(c.Statuses) < 2 { //nolint:mnd // need at least an active and a terminal status
		return fmt.Errorf("%w: at least 2 statuses are required", ErrInvalid)
	}
	if hasDuplicates(c.Statuses) {
		return fmt.Errorf("%w: statuses contain duplicates", ErrInvalid)
	}
	if len(c.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority is required", ErrInvalid)
	}
	if hasDuplicates(c.Priorities) {
		return fmt.Errorf("%w: priorities contain duplicates", ErrInvalid)
	}
	if !contains(c.Statuses, c.Defaults.Status) {
		return fmt.Errorf("%w: default status %q not in statuses list", ErrInvalid, c.Defaults.Status)
	}
	if c.Defaults.Priority != "" && !contains(c.Priorities, c.Defaults.Priority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Defaults.Priority)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be >= 1", ErrInvalid)
	}
	if c.Retry.BaseDelay != "" {
		if _, err := time.ParseDuration(c.Retry.BaseDelay); err != nil {
			return fmt.Errorf("%w: invalid retry.base_delay %q: %w", ErrInvalid, c.Retry.BaseDelay, err)
		}
	}
	return nil
}

// Init creates a new config directory with default settings.
// Fails if a config file already exists there.
func Init(dir, spreadsheet string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(spreadsheet)
	cfg.SetDir(absDir)

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		return nil, fmt.Errorf("config already exists at %s", cfg.ConfigPath())
	}

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultDir returns the default config directory under the user home.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
