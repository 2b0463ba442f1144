package view

import (
	"sort"

	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

// Sort fields accepted by the list commands.
const (
	ByID       = "id"
	ByName     = "name"
	ByDeadline = "deadline"
	ByPriority = "priority"
	ByStatus   = "status"
	ByProject  = "project"
)

// SortFields lists the accepted sort fields in display order.
var SortFields = []string{ByID, ByName, ByDeadline, ByPriority, ByStatus, ByProject}

// Sort sorts tasks in place by the given field. Priority and status use
// the configured order, not alphabetical; the empty priority sorts
// after every named one. Sorts are stable so equal keys keep their row
// order.
func Sort(tasks []*task.Task, field string, reverse bool, cfg *config.Config) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field, cfg)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b *task.Task, field string, cfg *config.Config) bool {
	switch field {
	case ByName:
		return a.Name < b.Name
	case ByDeadline:
		return compareDeadline(a, b)
	case ByPriority:
		return cfg.PriorityIndex(a.Priority) < cfg.PriorityIndex(b.Priority)
	case ByStatus:
		return cfg.StatusIndex(a.Status) < cfg.StatusIndex(b.Status)
	case ByProject:
		return a.Project.Name < b.Project.Name
	default:
		return compareID(a, b)
	}
}

func compareID(a, b *task.Task) bool {
	na, aok := task.NumericID(a.ID)
	nb, bok := task.NumericID(b.ID)
	if aok && bok {
		return na < nb
	}
	return a.ID < b.ID
}

func compareDeadline(a, b *task.Task) bool {
	if a.Deadline.IsZero() && b.Deadline.IsZero() {
		return false
	}
	if a.Deadline.IsZero() {
		return false // unset sorts last
	}
	if b.Deadline.IsZero() {
		return true
	}
	return a.Deadline.Before(b.Deadline.Time)
}
