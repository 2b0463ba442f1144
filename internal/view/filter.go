// Package view provides read-side operations on task collections:
// filtering, sorting and summaries.
package view

import (
	"strings"

	"github.com/nordwind-labs/taskdeck/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses       []string
	Priorities     []string
	Category       string // category name
	Project        string // project name
	Search         string // case-insensitive substring match across name and notes
	IncludeDeleted bool   // deleted tasks are excluded unless set
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if !opts.IncludeDeleted && !task.IsActive(t) {
		return false
	}
	if len(opts.Statuses) > 0 && !containsStr(opts.Statuses, t.Status) {
		return false
	}
	if len(opts.Priorities) > 0 && !containsStr(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Category != "" && t.Category.Name != opts.Category {
		return false
	}
	if opts.Project != "" && t.Project.Name != opts.Project {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across name and notes.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Name), q) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Notes), q)
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
