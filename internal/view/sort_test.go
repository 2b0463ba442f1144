package view

import (
	"testing"
	"time"

	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

func TestSortByPriorityConfiguredOrder(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "1", Priority: "Low"},
		{ID: "2", Priority: ""},
		{ID: "3", Priority: "High"},
		{ID: "4", Priority: "Medium"},
	}

	Sort(tasks, ByPriority, false, cfg)
	assertIDs(t, tasks, "3", "4", "1", "2")
}

func TestSortByPriorityReverse(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "1", Priority: ""},
		{ID: "2", Priority: "High"},
		{ID: "3", Priority: "Low"},
	}

	Sort(tasks, ByPriority, true, cfg)
	assertIDs(t, tasks, "1", "3", "2")
}

func TestSortByDeadlineUnsetSortsLast(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "1"},
		{ID: "2", Deadline: date.New(2026, time.September, 10)},
		{ID: "3", Deadline: date.New(2026, time.September, 1)},
		{ID: "4"},
	}

	Sort(tasks, ByDeadline, false, cfg)
	assertIDs(t, tasks, "3", "2", "1", "4")
}

func TestSortByIDNumeric(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "10"},
		{ID: "2"},
		{ID: "1"},
	}

	Sort(tasks, ByID, false, cfg)
	assertIDs(t, tasks, "1", "2", "10")

	Sort(tasks, ByID, true, cfg)
	assertIDs(t, tasks, "10", "2", "1")
}

func TestSortByStatusConfiguredOrder(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "1", Status: "Completed"},
		{ID: "2", Status: "Pending"},
		{ID: "3", Status: "In Progress"},
	}

	Sort(tasks, ByStatus, false, cfg)
	assertIDs(t, tasks, "2", "3", "1")
}

func TestSortIsStable(t *testing.T) {
	cfg := config.NewDefault("")
	tasks := []*task.Task{
		{ID: "1", Priority: "High"},
		{ID: "2", Priority: "High"},
		{ID: "3", Priority: "High"},
	}

	Sort(tasks, ByPriority, false, cfg)
	assertIDs(t, tasks, "1", "2", "3")
}
