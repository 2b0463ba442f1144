package repo

import (
	"context"
	"fmt"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/sheet"
	"github.com/nordwind-labs/taskdeck/internal/task"
)

// Fields accepted by UpdateField. The set is closed: anything else is
// rejected with INVALID_FIELD before any remote call.
const (
	FieldName     = "name"
	FieldDeadline = "deadline"
	FieldPriority = "priority"
	FieldStatus   = "status"
	FieldCategory = "category"
	FieldProject  = "project"
	FieldNotes    = "notes"
)

// UpdatableFields lists the accepted field names in display order.
var UpdatableFields = []string{
	FieldName, FieldDeadline, FieldPriority, FieldStatus,
	FieldCategory, FieldProject, FieldNotes,
}

// EnsureTables creates the three tables with their headers when missing.
func (r *Repository) EnsureTables(ctx context.Context) error {
	if err := r.store.EnsureTable(ctx, r.tables.Tasks, sheet.TasksHeader); err != nil {
		return err
	}
	if err := r.store.EnsureTable(ctx, r.tables.Categories, sheet.RefHeader); err != nil {
		return err
	}
	return r.store.EnsureTable(ctx, r.tables.Projects, sheet.RefHeader)
}

// NewTask validates the inputs and assembles a task with a fresh id.
// Nothing is written; call Add to persist.
func (r *Repository) NewTask(name, deadline, priority, category, project, notes string) (*task.Task, error) {
	if err := task.ValidateName(name); err != nil {
		return nil, err
	}
	today := r.Today()
	d, err := task.ValidateDeadline(deadline, today)
	if err != nil {
		return nil, err
	}
	if priority != "" {
		if err := task.ValidatePriority(priority, r.cfg.Priorities); err != nil {
			return nil, err
		}
	}
	catRef, err := task.ValidateCategoryRef(category, r.categories)
	if err != nil {
		return nil, err
	}
	projRef, err := task.ValidateProjectRef(project, r.projects)
	if err != nil {
		return nil, err
	}

	clamped, _ := task.ClampNotes(notes)
	return &task.Task{
		ID:         r.GenerateID(),
		Name:       name,
		CreateDate: today,
		Deadline:   d,
		Status:     r.cfg.Defaults.Status,
		Priority:   priority,
		Category:   catRef,
		Project:    projRef,
		Notes:      clamped,
	}, nil
}

// Add appends a task to the remote table, then to the cache. A failed
// append leaves the cache untouched; a retried append that ultimately
// fails is never recorded locally.
func (r *Repository) Add(ctx context.Context, t *task.Task) error {
	row := taskToRow(t)
	if err := r.store.AppendRow(ctx, r.tables.Tasks, row); err != nil {
		return err
	}
	t.Row = len(r.rawTasks) + 1
	r.rawTasks = append(r.rawTasks, row)
	r.tasks = append(r.tasks, t)
	r.rowByID[t.ID] = t.Row
	return nil
}

// UpdateField validates and writes one field of one task. The remote
// cell is written first; the cache mutates only on success.
func (r *Repository) UpdateField(ctx context.Context, id, field, value string) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	row, err := r.rowForID(id)
	if err != nil {
		return err
	}

	var col int
	var stored string
	apply := func() {}

	switch field {
	case FieldName:
		if err := task.ValidateName(value); err != nil {
			return err
		}
		col, stored = sheet.ColName, value
		apply = func() { t.Name = value }
	case FieldDeadline:
		d, err := task.ValidateDeadline(value, r.Today())
		if err != nil {
			return err
		}
		col, stored = sheet.ColDeadline, d.String()
		apply = func() { t.Deadline = d }
	case FieldPriority:
		if value != "" {
			if err := task.ValidatePriority(value, r.cfg.Priorities); err != nil {
				return err
			}
		}
		col, stored = sheet.ColPriority, value
		apply = func() { t.Priority = value }
	case FieldStatus:
		// Deleted is system-applied through Archive, never set directly.
		if value == task.StatusDeleted {
			return clierr.Newf(clierr.InvalidStatus,
				"status %q cannot be set directly; use archive", value)
		}
		if err := task.ValidateStatus(value, r.cfg.Statuses); err != nil {
			return err
		}
		col, stored = sheet.ColStatus, value
		apply = func() { t.Status = value }
	case FieldCategory:
		ref, err := task.ValidateCategoryRef(value, r.categories)
		if err != nil {
			return err
		}
		col, stored = sheet.ColCategoryID, ref.ID
		apply = func() { t.Category = ref }
	case FieldProject:
		ref, err := task.ValidateProjectRef(value, r.projects)
		if err != nil {
			return err
		}
		col, stored = sheet.ColProjectID, ref.ID
		apply = func() { t.Project = ref }
	case FieldNotes:
		stored, _ = task.ClampNotes(value)
		col = sheet.ColNotes
		apply = func() { t.Notes = stored }
	default:
		return clierr.Newf(clierr.InvalidField, "cannot update field %q", field).
			WithDetails(map[string]any{
				"field":   field,
				"allowed": UpdatableFields,
			})
	}

	if err := r.store.UpdateCell(ctx, r.tables.Tasks, row, col, stored); err != nil {
		return err
	}
	apply()
	r.setRawCell(row, col, stored)
	return nil
}

// MarkCompleted sets a task's status to Completed and stamps its
// completion date. Each cell mutates the cache right after its remote
// write succeeds, so a failure between the two writes leaves the cache
// matching the remote state.
func (r *Repository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	t, err := r.Get(id)
	if err != nil {
		return false, err
	}
	row, err := r.rowForID(id)
	if err != nil {
		return false, err
	}

	today := r.Today()
	if t.Status == task.StatusCompleted && t.CompleteDate != nil {
		return false, nil
	}

	if t.Status != task.StatusCompleted {
		if err := r.store.UpdateCell(ctx, r.tables.Tasks, row, sheet.ColStatus, task.StatusCompleted); err != nil {
			return false, err
		}
		t.Status = task.StatusCompleted
		r.setRawCell(row, sheet.ColStatus, task.StatusCompleted)
	}

	if t.CompleteDate == nil {
		if err := r.store.UpdateCell(ctx, r.tables.Tasks, row, sheet.ColCompleteDate, today.String()); err != nil {
			return false, err
		}
		t.CompleteDate = &today
		r.setRawCell(row, sheet.ColCompleteDate, today.String())
	}
	return true, nil
}

// Archive soft-deletes a task: the status cell flips to Deleted and the
// row stays where it is. Active views filter deleted tasks out.
func (r *Repository) Archive(ctx context.Context, id string) (bool, error) {
	t, err := r.Get(id)
	if err != nil {
		return false, err
	}
	if t.Status == task.StatusDeleted {
		return false, nil
	}
	row, err := r.rowForID(id)
	if err != nil {
		return false, err
	}
	if err := r.store.UpdateCell(ctx, r.tables.Tasks, row, sheet.ColStatus, task.StatusDeleted); err != nil {
		return false, err
	}
	t.Status = task.StatusDeleted
	r.setRawCell(row, sheet.ColStatus, task.StatusDeleted)
	return true, nil
}

// AddCategory appends a category with a fresh id and returns it.
func (r *Repository) AddCategory(ctx context.Context, name string) (task.Category, error) {
	if name == "" || name == task.UnknownCategory {
		return task.Category{}, clierr.Newf(clierr.InvalidInput, "invalid category name %q", name)
	}
	for _, c := range r.categories {
		if c.Name == name {
			return task.Category{}, clierr.Newf(clierr.InvalidInput, "category %q already exists", name)
		}
	}
	id := nextRefID(len(r.categories), func(i int) string { return r.categories[i].ID })
	if err := r.store.AppendRow(ctx, r.tables.Categories, []string{id, name}); err != nil {
		return task.Category{}, err
	}
	c := task.Category{ID: id, Name: name}
	r.categories = append(r.categories, c)
	return c, nil
}

// AddProject appends a project with a fresh id and returns it.
func (r *Repository) AddProject(ctx context.Context, name string) (task.Project, error) {
	if name == "" || name == task.NoProject {
		return task.Project{}, clierr.Newf(clierr.InvalidInput, "invalid project name %q", name)
	}
	for _, p := range r.projects {
		if p.Name == name {
			return task.Project{}, clierr.Newf(clierr.InvalidInput, "project %q already exists", name)
		}
	}
	id := nextRefID(len(r.projects), func(i int) string { return r.projects[i].ID })
	if err := r.store.AppendRow(ctx, r.tables.Projects, []string{id, name}); err != nil {
		return task.Project{}, err
	}
	p := task.Project{ID: id, Name: name}
	r.projects = append(r.projects, p)
	return p, nil
}

func nextRefID(n int, idAt func(int) string) string {
	maxID := 0
	for i := 0; i < n; i++ {
		if v, ok := task.NumericID(idAt(i)); ok && v > maxID {
			maxID = v
		}
	}
	return fmt.Sprintf("%d", maxID+1)
}

// setRawCell mirrors a remote cell write into the raw snapshot.
func (r *Repository) setRawCell(row, col int, value string) {
	if row < 1 || row > len(r.rawTasks) {
		return
	}
	raw := r.rawTasks[row-1]
	for len(raw) < col {
		raw = append(raw, "")
	}
	raw[col-1] = value
	r.rawTasks[row-1] = raw
}

func taskToRow(t *task.Task) []string {
	row := make([]string, sheet.TaskColumns)
	row[sheet.ColID-1] = t.ID
	row[sheet.ColName-1] = t.Name
	if !t.CreateDate.IsZero() {
		row[sheet.ColCreateDate-1] = t.CreateDate.String()
	}
	if !t.Deadline.IsZero() {
		row[sheet.ColDeadline-1] = t.Deadline.String()
	}
	if t.CompleteDate != nil {
		row[sheet.ColCompleteDate-1] = t.CompleteDate.String()
	}
	row[sheet.ColStatus-1] = t.Status
	row[sheet.ColPriority-1] = t.Priority
	row[sheet.ColCategoryID-1] = t.Category.ID
	row[sheet.ColProjectID-1] = t.Project.ID
	row[sheet.ColNotes-1] = t.Notes
	return row
}
