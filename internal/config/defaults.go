// Package config handles the taskdeck configuration file.
package config

const (
	// DefaultDirName is the config directory name under the user home.
	DefaultDirName = ".taskdeck"
	// ConfigFileName is the name of the config file within the directory.
	ConfigFileName = "config.yml"
	// DefaultCredentialsFile is the default credentials file name.
	DefaultCredentialsFile = "creds.json"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultSpreadsheet is the spreadsheet name used by init.
	DefaultSpreadsheet = "Task Manager"
	// DefaultStatus is the status new tasks start in.
	DefaultStatus = "Pending"
	// DefaultPriority is the priority assigned when none is given.
	DefaultPriority = ""

	// DefaultRetryMaxAttempts and DefaultRetryBaseDelay mirror the
	// retry package defaults; the config can override them.
	DefaultRetryMaxAttempts = 5
	DefaultRetryBaseDelay   = "1s"
)

// Default slice values for a new config (slices cannot be const).
var (
	DefaultStatuses = []string{
		"Pending",
		"In Progress",
		"Completed",
		"Deleted",
	}

	// DefaultPriorities are ordered highest first. The empty priority is
	// legal on tasks but never listed; it sorts after everything.
	DefaultPriorities = []string{
		"High",
		"Medium",
		"Low",
	}
)
