package view

import (
	"testing"

	"github.com/nordwind-labs/taskdeck/internal/task"
)

func sampleTasks() []*task.Task {
	return []*task.Task{
		{ID: "1", Name: "Write report", Status: "Pending", Priority: "High",
			Category: task.Ref{ID: "1", Name: "Work"}, Project: task.Ref{ID: "1", Name: "Quarterly"},
			Notes: "draft the outline"},
		{ID: "2", Name: "Buy groceries", Status: "Pending", Priority: "Low",
			Category: task.Ref{ID: "2", Name: "Home"}, Project: task.Ref{Name: task.NoProject}},
		{ID: "3", Name: "Fix the sink", Status: "In Progress", Priority: "Medium",
			Category: task.Ref{ID: "2", Name: "Home"}, Project: task.Ref{Name: task.NoProject},
			Notes: "needs a new washer"},
		{ID: "4", Name: "Old chore", Status: "Deleted", Priority: "Low",
			Category: task.Ref{Name: task.UnknownCategory}, Project: task.Ref{Name: task.NoProject}},
		{ID: "5", Name: "Ship release", Status: "Completed", Priority: "High",
			Category: task.Ref{ID: "1", Name: "Work"}, Project: task.Ref{ID: "1", Name: "Quarterly"}},
	}
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*task.Task, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, want)
		}
	}
}

func TestFilterHidesDeletedByDefault(t *testing.T) {
	got := Filter(sampleTasks(), FilterOptions{})
	assertIDs(t, got, "1", "2", "3", "5")

	got = Filter(sampleTasks(), FilterOptions{IncludeDeleted: true})
	assertIDs(t, got, "1", "2", "3", "4", "5")
}

func TestFilterCombinesCriteria(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{name: "by status", opts: FilterOptions{Statuses: []string{"Pending"}}, want: []string{"1", "2"}},
		{name: "by two statuses", opts: FilterOptions{Statuses: []string{"Pending", "In Progress"}}, want: []string{"1", "2", "3"}},
		{name: "by priority", opts: FilterOptions{Priorities: []string{"High"}}, want: []string{"1", "5"}},
		{name: "by category", opts: FilterOptions{Category: "Home"}, want: []string{"2", "3"}},
		{name: "by project", opts: FilterOptions{Project: "Quarterly"}, want: []string{"1", "5"}},
		{name: "status and category", opts: FilterOptions{Statuses: []string{"Pending"}, Category: "Home"}, want: []string{"2"}},
		{name: "no match", opts: FilterOptions{Statuses: []string{"Pending"}, Priorities: []string{"Medium"}}, want: nil},
		{name: "deleted status needs include", opts: FilterOptions{Statuses: []string{"Deleted"}}, want: nil},
		{name: "deleted status with include", opts: FilterOptions{Statuses: []string{"Deleted"}, IncludeDeleted: true}, want: []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleTasks(), tt.opts)
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestFilterSearch(t *testing.T) {
	// Matches name, case-insensitively.
	got := Filter(sampleTasks(), FilterOptions{Search: "REPORT"})
	assertIDs(t, got, "1")

	// Matches notes too.
	got = Filter(sampleTasks(), FilterOptions{Search: "washer"})
	assertIDs(t, got, "3")

	got = Filter(sampleTasks(), FilterOptions{Search: "nothing here"})
	assertIDs(t, got)
}
