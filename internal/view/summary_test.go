package view

import (
	"testing"
	"time"

	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

func TestSummarize(t *testing.T) {
	today := date.New(2026, time.August, 23)
	tasks := []*task.Task{
		{ID: "1", Status: "Pending", Priority: "High",
			Deadline: date.New(2026, time.August, 20),
			Project:  task.Ref{Name: "Quarterly"}},
		{ID: "2", Status: "Pending", Priority: "Low",
			Deadline: date.New(2026, time.August, 23),
			Project:  task.Ref{Name: task.NoProject}},
		{ID: "3", Status: "In Progress", Priority: "",
			Deadline: date.New(2026, time.September, 5),
			Project:  task.Ref{Name: "Quarterly"}},
		// Completed with a past deadline: counted, never overdue.
		{ID: "4", Status: "Completed", Priority: "High",
			Deadline: date.New(2026, time.August, 1),
			Project:  task.Ref{Name: task.NoProject}},
		// Deleted: invisible to the summary entirely.
		{ID: "5", Status: "Deleted", Priority: "High",
			Deadline: date.New(2026, time.August, 1),
			Project:  task.Ref{Name: task.NoProject}},
	}

	s := Summarize(tasks, today)

	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", s.Overdue)
	}
	if s.DueToday != 1 {
		t.Errorf("DueToday = %d, want 1", s.DueToday)
	}
	if s.ByStatus["Pending"] != 2 || s.ByStatus["Completed"] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
	if s.ByStatus["Deleted"] != 0 {
		t.Errorf("deleted task counted: %v", s.ByStatus)
	}
	if s.ByPriority[""] != 1 || s.ByPriority["High"] != 2 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.ByProject["Quarterly"] != 2 {
		t.Errorf("ByProject = %v", s.ByProject)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, date.New(2026, time.August, 23))
	if s.Total != 0 || s.Overdue != 0 || s.DueToday != 0 {
		t.Errorf("summary of nothing = %+v", s)
	}
}

func TestDueWithin(t *testing.T) {
	today := date.New(2026, time.August, 23)
	tasks := []*task.Task{
		{ID: "1", Status: "Pending", Deadline: date.New(2026, time.August, 10)},  // overdue
		{ID: "2", Status: "Pending", Deadline: date.New(2026, time.August, 23)},  // today
		{ID: "3", Status: "Pending", Deadline: date.New(2026, time.August, 30)},  // inside the window
		{ID: "4", Status: "Pending", Deadline: date.New(2026, time.September, 5)}, // outside
		{ID: "5", Status: "Completed", Deadline: date.New(2026, time.August, 24)},
		{ID: "6", Status: "Deleted", Deadline: date.New(2026, time.August, 24)},
		{ID: "7", Status: "Pending"}, // no deadline
	}

	got := DueWithin(tasks, today, 7)
	assertIDs(t, got, "1", "2", "3")

	// The boundary day is inclusive.
	got = DueWithin(tasks, today, 13)
	assertIDs(t, got, "1", "2", "3", "4")

	got = DueWithin(tasks, today, 0)
	assertIDs(t, got, "1", "2")
}
