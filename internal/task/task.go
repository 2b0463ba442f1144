// Package task defines the task model and its validation rules.
package task

import (
	"strconv"

	"github.com/nordwind-labs/taskdeck/internal/date"
)

// Sentinel names for tasks without a real category or project assignment.
const (
	UnknownCategory = "Unknown Category"
	NoProject       = "none"
)

// Ref links a task to a category or project row by id and display name.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task represents one row of the tasks table.
type Task struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CreateDate   date.Date  `json:"create_date"`
	Deadline     date.Date  `json:"deadline"`
	CompleteDate *date.Date `json:"complete_date,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Category     Ref        `json:"category"`
	Project      Ref        `json:"project"`
	Notes        string     `json:"notes,omitempty"`

	// Row is the 1-based sheet row this task was read from (not serialized).
	Row int `json:"-"`
}

// Category represents one row of the categories table.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project represents one row of the projects table.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NumericID returns the task id as an int. IDs are digit strings; rows
// holding anything else are rejected at parse time.
func NumericID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
