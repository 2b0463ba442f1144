package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nordwind-labs/taskdeck/internal/task"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	// Dates line.
	ds := "  created:" + t.CreateDate.String()
	if t.CompleteDate != nil {
		ds += " completed:" + t.CompleteDate.String()
	}
	fmt.Fprintln(w, ds)

	if t.Notes != "" {
		for _, noteLine := range strings.Split(t.Notes, "\n") {
			fmt.Fprintln(w, "  "+noteLine)
		}
	}
}

// OverviewCompact renders a task summary in compact format.
func OverviewCompact(w io.Writer, spreadsheet string, s view.Summary, statusOrder []string) {
	fmt.Fprintf(w, "%s (%d tasks)\n", spreadsheet, s.Total)

	for _, st := range statusOrder {
		fmt.Fprintln(w, "  "+st+": "+strconv.Itoa(s.ByStatus[st]))
	}

	var annotations []string
	if s.Overdue > 0 {
		annotations = append(annotations, strconv.Itoa(s.Overdue)+" overdue")
	}
	if s.DueToday > 0 {
		annotations = append(annotations, strconv.Itoa(s.DueToday)+" due today")
	}
	if len(annotations) > 0 {
		fmt.Fprintln(w, strings.Join(annotations, ", "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	prio := t.Priority
	if prio == "" {
		prio = "-"
	}
	line := "#" + t.ID + " [" + t.Status + "/" + prio + "] " + t.Name

	if t.Project.Name != "" && t.Project.Name != task.NoProject {
		line += " (" + t.Project.Name + ")"
	}
	if !t.Deadline.IsZero() {
		line += " due:" + t.Deadline.String()
	}

	return line
}
