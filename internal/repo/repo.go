// Package repo caches the remote tables and mediates every read and
// write of task data. All writes go to the remote store first; the
// cache mutates only after the store accepted the change.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/sheet"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

// RowWarning describes a row that could not be parsed during a refresh.
type RowWarning struct {
	Table string
	Row   int // 1-based sheet row
	Err   error
}

// Repository holds the cached state of one spreadsheet.
type Repository struct {
	store  sheet.Store
	cfg    *config.Config
	tables config.TablesConfig

	rawTasks   [][]string
	tasks      []*task.Task
	categories []task.Category
	projects   []task.Project
	rowByID    map[string]int
	warnings   []RowWarning
	loaded     bool

	// Today is swappable for tests.
	Today func() date.Date
}

// New creates a Repository over a store. Call Refresh before reading.
func New(store sheet.Store, cfg *config.Config) *Repository {
	return &Repository{
		store:   store,
		cfg:     cfg,
		tables:  cfg.Tables,
		rowByID: make(map[string]int),
		Today:   date.Today,
	}
}

// Refresh re-reads all three tables. On any failure the previous cache
// is retained untouched and the error is returned.
func (r *Repository) Refresh(ctx context.Context) error {
	rawTasks, err := r.store.ReadAll(ctx, r.tables.Tasks)
	if err != nil {
		return err
	}
	rawCategories, err := r.store.ReadAll(ctx, r.tables.Categories)
	if err != nil {
		return err
	}
	rawProjects, err := r.store.ReadAll(ctx, r.tables.Projects)
	if err != nil {
		return err
	}

	categories := parseCategories(rawCategories)
	projects := parseProjects(rawProjects)

	tasks, rowByID, warnings := r.parseTasks(rawTasks, categories, projects)

	r.rawTasks = rawTasks
	r.tasks = tasks
	r.categories = categories
	r.projects = projects
	r.rowByID = rowByID
	r.warnings = warnings
	r.loaded = true
	return nil
}

// Loaded reports whether at least one refresh has succeeded.
func (r *Repository) Loaded() bool { return r.loaded }

// Warnings returns the row warnings from the last successful refresh.
func (r *Repository) Warnings() []RowWarning { return r.warnings }

// Tasks returns all cached tasks, deleted ones included. Callers filter.
func (r *Repository) Tasks() []*task.Task { return r.tasks }

// Categories returns the cached category rows.
func (r *Repository) Categories() []task.Category { return r.categories }

// Projects returns the cached project rows.
func (r *Repository) Projects() []task.Project { return r.projects }

// Get returns the cached task with the given id.
func (r *Repository) Get(id string) (*task.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, clierr.Newf(clierr.TaskNotFound, "task not found: #%s", id).
		WithDetails(map[string]any{"id": id})
}

// GenerateID returns one more than the highest numeric id in the cache,
// or "1" for an empty table. Malformed ids are ignored.
func (r *Repository) GenerateID() string {
	maxID := 0
	for _, t := range r.tasks {
		if n, ok := task.NumericID(t.ID); ok && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%d", maxID+1)
}

// rowForID resolves a task id to its sheet row via the explicit map
// built at parse time. Never derives the row from the id value.
func (r *Repository) rowForID(id string) (int, error) {
	row, ok := r.rowByID[id]
	if !ok {
		return 0, clierr.Newf(clierr.TaskNotFound, "task not found: #%s", id).
			WithDetails(map[string]any{"id": id})
	}
	return row, nil
}

// parseTasks converts raw rows into typed tasks. Row 1 is the header.
// Malformed rows are skipped with a warning instead of aborting.
func (r *Repository) parseTasks(raw [][]string, categories []task.Category, projects []task.Project) ([]*task.Task, map[string]int, []RowWarning) {
	var tasks []*task.Task
	var warnings []RowWarning
	rowByID := make(map[string]int, len(raw))

	for i, row := range raw {
		sheetRow := i + 1
		if sheetRow == 1 {
			continue
		}
		if blankRow(row) {
			continue
		}
		t, err := parseTaskRow(row, sheetRow, categories, projects)
		if err != nil {
			warnings = append(warnings, RowWarning{Table: r.tables.Tasks, Row: sheetRow, Err: err})
			continue
		}
		if _, dup := rowByID[t.ID]; dup {
			warnings = append(warnings, RowWarning{
				Table: r.tables.Tasks,
				Row:   sheetRow,
				Err:   fmt.Errorf("duplicate task id %q", t.ID),
			})
			continue
		}
		rowByID[t.ID] = sheetRow
		tasks = append(tasks, t)
	}
	return tasks, rowByID, warnings
}

func parseTaskRow(row []string, sheetRow int, categories []task.Category, projects []task.Project) (*task.Task, error) {
	id := cell(row, sheet.ColID)
	if _, ok := task.NumericID(id); !ok {
		return nil, fmt.Errorf("invalid id %q", id)
	}
	name := cell(row, sheet.ColName)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty name")
	}

	t := &task.Task{
		ID:       id,
		Name:     name,
		Status:   cell(row, sheet.ColStatus),
		Priority: cell(row, sheet.ColPriority),
		Notes:    cell(row, sheet.ColNotes),
		Row:      sheetRow,
	}

	if s := cell(row, sheet.ColCreateDate); s != "" {
		d, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("create_date: %w", err)
		}
		t.CreateDate = d
	}
	if s := cell(row, sheet.ColDeadline); s != "" {
		d, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("deadline: %w", err)
		}
		t.Deadline = d
	}
	if s := cell(row, sheet.ColCompleteDate); s != "" {
		d, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("complete_date: %w", err)
		}
		t.CompleteDate = &d
	}

	t.Category = resolveCategory(cell(row, sheet.ColCategoryID), categories)
	t.Project = resolveProject(cell(row, sheet.ColProjectID), projects)
	return t, nil
}

// resolveCategory maps a category id cell to a Ref. Unknown or empty
// ids resolve to the UnknownCategory sentinel rather than failing.
func resolveCategory(id string, categories []task.Category) task.Ref {
	if id == "" {
		return task.Ref{Name: task.UnknownCategory}
	}
	for _, c := range categories {
		if c.ID == id {
			return task.Ref{ID: c.ID, Name: c.Name}
		}
	}
	return task.Ref{ID: id, Name: task.UnknownCategory}
}

func resolveProject(id string, projects []task.Project) task.Ref {
	if id == "" {
		return task.Ref{Name: task.NoProject}
	}
	for _, p := range projects {
		if p.ID == id {
			return task.Ref{ID: p.ID, Name: p.Name}
		}
	}
	return task.Ref{ID: id, Name: task.NoProject}
}

// parseCategories parses the id/name categories table, skipping the
// header and blank or incomplete rows.
func parseCategories(raw [][]string) []task.Category {
	var out []task.Category
	for id, name := range refRows(raw) {
		out = append(out, task.Category{ID: id, Name: name})
	}
	return out
}

func parseProjects(raw [][]string) []task.Project {
	var out []task.Project
	for id, name := range refRows(raw) {
		out = append(out, task.Project{ID: id, Name: name})
	}
	return out
}

// refRows yields the id/name pairs of a reference table in row order.
func refRows(raw [][]string) func(yield func(id, name string) bool) {
	return func(yield func(id, name string) bool) {
		for i, row := range raw {
			if i == 0 || blankRow(row) {
				continue
			}
			id := cell(row, 1)
			name := cell(row, 2) //nolint:mnd // name column
			if id == "" || name == "" {
				continue
			}
			if !yield(id, name) {
				return
			}
		}
	}
}

func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
