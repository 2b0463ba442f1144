package task

import "github.com/nordwind-labs/taskdeck/internal/date"

// StatusCompleted and StatusDeleted are the two statuses the lifecycle
// helpers care about. The full allowed list lives in config.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusDeleted    = "Deleted"
)

// MarkCompleted sets the task's status to Completed and stamps the
// completion date. A second call is a no-op: the original completion
// date is never overwritten.
func MarkCompleted(t *Task, today date.Date) bool {
	if t.Status == StatusCompleted && t.CompleteDate != nil {
		return false
	}
	t.Status = StatusCompleted
	if t.CompleteDate == nil {
		t.CompleteDate = &today
	}
	return true
}

// MarkDeleted flips the task's status to Deleted. The row stays in the
// table; active views filter it out.
func MarkDeleted(t *Task) bool {
	if t.Status == StatusDeleted {
		return false
	}
	t.Status = StatusDeleted
	return true
}

// IsActive reports whether a task should appear in active views.
func IsActive(t *Task) bool {
	return t.Status != StatusDeleted
}
