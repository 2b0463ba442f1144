package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nordwind-labs/taskdeck/internal/task"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		"Pending":     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"In Progress": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"Completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"Deleted":     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// useMarkdown controls whether TaskDetail renders notes through glamour.
var useMarkdown = true

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	overdueStyle = lipgloss.NewStyle()
	projectStyle = lipgloss.NewStyle()
	useMarkdown = false
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, deadlineW, prioW, statusW, projW, nameW := 4, 12, 10, 8, 9, 6
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		projW = max(projW, min(len(t.Project.Name)+pad, 24)) //nolint:mnd // max project column width
		nameW = max(nameW, min(len(t.Name)+pad, 52))         //nolint:mnd // max name column width
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", deadlineW, "DEADLINE", prioW, "PRIORITY",
		statusW, "STATUS", projW, "PROJECT", nameW, "NAME")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		name := t.Name
		const maxName = 50
		if len(name) > maxName {
			name = name[:maxName-3] + "..."
		}
		deadline := "--"
		if !t.Deadline.IsZero() {
			deadline = t.Deadline.String()
		} else {
			deadline = dimStyle.Render(deadline)
		}
		prio := t.Priority
		if prio == "" {
			prio = dimStyle.Render("--")
		} else {
			prio = styledValue(prio, priorityStyles)
		}
		proj := t.Project.Name
		if proj == task.NoProject || proj == "" {
			proj = dimStyle.Render("--")
		} else {
			proj = projectStyle.Render(proj)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s %s",
			idW, t.ID,
			padRight(deadline, deadlineW),
			padRight(prio, prioW),
			padRight(styledValue(t.Status, statusStyles), statusW),
			padRight(proj, projW),
			name)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. Notes are rendered
// as markdown when color output is on.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task #%s: %s", t.ID, t.Name)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledValue(t.Status, statusStyles))
	if t.Priority != "" {
		printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	} else {
		printField(w, "Priority", dimStyle.Render("--"))
	}
	printField(w, "Category", stringOrDash(refDisplay(t.Category, task.UnknownCategory)))
	printField(w, "Project", stringOrDash(refDisplay(t.Project, task.NoProject)))
	if !t.Deadline.IsZero() {
		printField(w, "Deadline", t.Deadline.String())
	} else {
		printField(w, "Deadline", dimStyle.Render("--"))
	}
	if !t.CreateDate.IsZero() {
		printField(w, "Created", t.CreateDate.String())
	}
	if t.CompleteDate != nil {
		printField(w, "Completed", t.CompleteDate.String())
	}

	if t.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderNotes(t.Notes))
	}
}

// renderNotes renders the notes text through glamour when markdown
// output is enabled, falling back to plain text on any failure.
func renderNotes(notes string) string {
	if !useMarkdown {
		return notes + "\n"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80), //nolint:mnd // detail view wrap width
	)
	if err != nil {
		return notes + "\n"
	}
	out, err := r.Render(notes)
	if err != nil {
		return notes + "\n"
	}
	return out
}

// OverviewTable renders a task summary as a formatted dashboard.
func OverviewTable(w io.Writer, spreadsheet string, s view.Summary, statusOrder, priorityOrder []string) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(spreadsheet))
	fmt.Fprintf(w, "Total: %d tasks\n", s.Total)
	if s.Overdue > 0 {
		fmt.Fprintln(w, overdueStyle.Render(fmt.Sprintf("Overdue: %d", s.Overdue)))
	}
	if s.DueToday > 0 {
		fmt.Fprintf(w, "Due today: %d\n", s.DueToday)
	}
	fmt.Fprintln(w)

	header := fmt.Sprintf("%-16s %6s", "STATUS", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, st := range statusOrder {
		const statusColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(st, statusStyles), statusColW), s.ByStatus[st])
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))
	for _, p := range priorityOrder {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(p, priorityStyles), prioColW), s.ByPriority[p])
	}
	if n := s.ByPriority[""]; n > 0 {
		fmt.Fprintf(w, "%-16s %6d\n", "(none)", n)
	}

	if len(s.ByProject) > 0 {
		fmt.Fprintln(w)
		projHeader := fmt.Sprintf("%-24s %6s", "PROJECT", "COUNT")
		fmt.Fprintln(w, headerStyle.Render(projHeader))
		for _, name := range sortedKeys(s.ByProject) {
			const projColW = 24
			fmt.Fprintf(w, "%-*s %6d\n", projColW, name, s.ByProject[name])
		}
	}
}

// RefTable renders an id/name listing for categories or projects.
func RefTable(w io.Writer, kind string, ids, names []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "No %s found.\n", kind)
		return
	}
	header := fmt.Sprintf("%-6s %s", "ID", "NAME")
	fmt.Fprintln(w, headerStyle.Render(header))
	for i := range ids {
		fmt.Fprintf(w, "%-6s %s\n", ids[i], names[i])
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// refDisplay hides the sentinel names behind an empty string so they
// render as a dash.
func refDisplay(r task.Ref, sentinel string) string {
	if r.Name == sentinel {
		return ""
	}
	return r.Name
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
