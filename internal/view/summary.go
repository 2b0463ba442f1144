package view

import (
	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

// Summary aggregates active tasks for the overview command.
type Summary struct {
	Total      int            `json:"total"`
	Overdue    int            `json:"overdue"`
	DueToday   int            `json:"due_today"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	ByProject  map[string]int `json:"by_project"`
}

// Summarize counts active tasks by status, priority and project, plus
// overdue and due-today buckets. Completed tasks never count as
// overdue.
func Summarize(tasks []*task.Task, today date.Date) Summary {
	s := Summary{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		ByProject:  make(map[string]int),
	}
	for _, t := range tasks {
		if !task.IsActive(t) {
			continue
		}
		s.Total++
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
		s.ByProject[t.Project.Name]++
		if t.Status == task.StatusCompleted || t.Deadline.IsZero() {
			continue
		}
		switch {
		case t.Deadline.Before(today.Time):
			s.Overdue++
		case t.Deadline.Equal(today.Time):
			s.DueToday++
		}
	}
	return s
}

// DueWithin returns active, uncompleted tasks whose deadline falls
// between today and today+days inclusive, plus everything already
// overdue. Results keep their input order.
func DueWithin(tasks []*task.Task, today date.Date, days int) []*task.Task {
	cutoff := today.AddDate(0, 0, days)
	var result []*task.Task
	for _, t := range tasks {
		if !task.IsActive(t) || t.Status == task.StatusCompleted || t.Deadline.IsZero() {
			continue
		}
		if !t.Deadline.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}
