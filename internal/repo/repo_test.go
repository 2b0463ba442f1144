package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/date"
	"github.com/nordwind-labs/taskdeck/internal/sheet"
	"github.com/nordwind-labs/taskdeck/internal/task"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

func testConfig() *config.Config {
	return config.NewDefault("Test Sheet")
}

func fixedToday() date.Date {
	return date.New(2026, time.August, 23)
}

// seededStore builds a Memory store with one task, one category and one
// project.
func seededStore(t *testing.T) *sheet.Memory {
	t.Helper()
	m := sheet.NewMemory()
	m.Seed("tasks", [][]string{
		append([]string(nil), sheet.TasksHeader...),
		{"1", "Write report", "2026-08-01", "2026-09-01", "", "Pending", "High", "1", "1", "draft outline"},
	})
	m.Seed("categories", [][]string{
		{"id", "name"},
		{"1", "Work"},
	})
	m.Seed("projects", [][]string{
		{"id", "name"},
		{"1", "Quarterly"},
	})
	return m
}

func newTestRepo(t *testing.T, store sheet.Store) *Repository {
	t.Helper()
	r := New(store, testConfig())
	r.Today = fixedToday
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return r
}

func TestRefreshParsesTasks(t *testing.T) {
	r := newTestRepo(t, seededStore(t))

	tasks := r.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	tk := tasks[0]
	if tk.ID != "1" || tk.Name != "Write report" {
		t.Errorf("task = %+v", tk)
	}
	if tk.Category.Name != "Work" || tk.Project.Name != "Quarterly" {
		t.Errorf("refs not resolved: %+v %+v", tk.Category, tk.Project)
	}
	if tk.Deadline.String() != "2026-09-01" {
		t.Errorf("deadline = %s", tk.Deadline)
	}
	if tk.Row != 2 {
		t.Errorf("row = %d, want 2", tk.Row)
	}
}

func TestRefreshSkipsMalformedRowsWithWarnings(t *testing.T) {
	m := seededStore(t)
	m.Seed("tasks", [][]string{
		append([]string(nil), sheet.TasksHeader...),
		{"1", "Good", "2026-08-01", "2026-09-01", "", "Pending", "", "", "", ""},
		{"oops", "Bad id", "", "", "", "Pending", "", "", "", ""},
		{"3", "", "", "", "", "Pending", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"4", "Bad date", "not-a-date", "", "", "Pending", "", "", "", ""},
		{"5", "Also good", "2026-08-02", "2026-10-01", "", "Pending", "", "", "", ""},
	})
	r := newTestRepo(t, m)

	if len(r.Tasks()) != 2 {
		t.Fatalf("tasks = %d, want the 2 well-formed rows", len(r.Tasks()))
	}
	// Blank rows are skipped silently; the three malformed rows warn.
	if len(r.Warnings()) != 3 {
		t.Errorf("warnings = %d (%v), want 3", len(r.Warnings()), r.Warnings())
	}
}

func TestRefreshRejectsDuplicateIDs(t *testing.T) {
	m := seededStore(t)
	m.Seed("tasks", [][]string{
		append([]string(nil), sheet.TasksHeader...),
		{"1", "First", "", "", "", "Pending", "", "", "", ""},
		{"1", "Impostor", "", "", "", "Pending", "", "", "", ""},
	})
	r := newTestRepo(t, m)

	if len(r.Tasks()) != 1 {
		t.Fatalf("tasks = %d, want 1", len(r.Tasks()))
	}
	if r.Tasks()[0].Name != "First" {
		t.Errorf("kept task = %q, want the first occurrence", r.Tasks()[0].Name)
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("warnings = %d, want 1", len(r.Warnings()))
	}
}

// failingStore delegates reads until tripped, then fails everything.
type failingStore struct {
	sheet.Store
	tripped bool
}

func (f *failingStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	if f.tripped {
		return nil, clierr.New(clierr.RemoteRejected, "boom")
	}
	return f.Store.ReadAll(ctx, table)
}

func TestRefreshRetainsCacheOnFailure(t *testing.T) {
	fs := &failingStore{Store: seededStore(t)}
	r := newTestRepo(t, fs)

	fs.tripped = true
	err := r.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(r.Tasks()) != 1 {
		t.Fatalf("cache lost after failed refresh: %d tasks", len(r.Tasks()))
	}
	if _, err := r.Get("1"); err != nil {
		t.Errorf("cached task unreachable after failed refresh: %v", err)
	}
}

func TestGenerateIDProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.IntRange(1, 500), 0, 20).Draw(t, "ids")

		rows := [][]string{append([]string(nil), sheet.TasksHeader...)}
		maxID := 0
		seen := map[int]bool{}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			rows = append(rows, []string{strconv.Itoa(id), "t" + strconv.Itoa(id), "", "", "", "Pending", "", "", "", ""})
			if id > maxID {
				maxID = id
			}
		}

		m := sheet.NewMemory()
		m.Seed("tasks", rows)
		m.Seed("categories", [][]string{{"id", "name"}})
		m.Seed("projects", [][]string{{"id", "name"}})

		r := New(m, testConfig())
		r.Today = fixedToday
		if err := r.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		got := r.GenerateID()
		want := fmt.Sprintf("%d", maxID+1)
		if got != want {
			t.Fatalf("GenerateID = %s, want %s (ids %v)", got, want, ids)
		}
	})
}

func TestNewTaskValidation(t *testing.T) {
	r := newTestRepo(t, seededStore(t))

	tests := []struct {
		name     string
		taskName string
		deadline string
		priority string
		category string
		project  string
		wantCode string
	}{
		{name: "ok", taskName: "Valid", deadline: "2026-09-01"},
		{name: "past deadline", taskName: "Valid", deadline: "2026-08-22", wantCode: clierr.DateInPast},
		{name: "bad priority", taskName: "Valid", deadline: "2026-09-01", priority: "Urgent", wantCode: clierr.InvalidPriority},
		{name: "unknown category", taskName: "Valid", deadline: "2026-09-01", category: "Garden", wantCode: clierr.UnknownCategory},
		{name: "unknown project", taskName: "Valid", deadline: "2026-09-01", project: "Nope", wantCode: clierr.UnknownProject},
		{name: "empty name", taskName: "", deadline: "2026-09-01", wantCode: clierr.InvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.NewTask(tt.taskName, tt.deadline, tt.priority, tt.category, tt.project, "")
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestAddAppendsRemoteThenCache(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	tk, err := r.NewTask("Second task", "2026-09-15", "Low", "Work", "Quarterly", "some notes")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if tk.ID != "2" {
		t.Errorf("generated id = %s, want 2", tk.ID)
	}
	if err := r.Add(ctx, tk); err != nil {
		t.Fatalf("add: %v", err)
	}

	rows, _ := m.ReadAll(ctx, "tasks")
	if len(rows) != 3 {
		t.Fatalf("remote rows = %d, want 3", len(rows))
	}
	last := rows[2]
	if last[sheet.ColID-1] != "2" || last[sheet.ColCategoryID-1] != "1" || last[sheet.ColProjectID-1] != "1" {
		t.Errorf("remote row = %v", last)
	}
	if last[sheet.ColCreateDate-1] != "2026-08-23" {
		t.Errorf("create date = %q", last[sheet.ColCreateDate-1])
	}

	got, err := r.Get("2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Row != 3 {
		t.Errorf("cached row = %d, want 3", got.Row)
	}

	// The id→row map must be usable immediately: update the new task.
	if err := r.UpdateField(ctx, "2", FieldPriority, "High"); err != nil {
		t.Fatalf("update after add: %v", err)
	}
	rows, _ = m.ReadAll(ctx, "tasks")
	if rows[2][sheet.ColPriority-1] != "High" {
		t.Errorf("update hit wrong row: %v", rows)
	}

	// A full reload from the persisted rows round-trips the task.
	if err := r.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	back, err := r.Get("2")
	if err != nil {
		t.Fatalf("get after refresh: %v", err)
	}
	if back.Name != "Second task" || back.Deadline.String() != "2026-09-15" ||
		back.Priority != "High" || back.Notes != "some notes" {
		t.Errorf("round trip = %+v", back)
	}
	if back.Category.Name != "Work" || back.Project.Name != "Quarterly" {
		t.Errorf("round trip refs = %+v %+v", back.Category, back.Project)
	}
}

// rejectingStore fails all writes.
type rejectingStore struct {
	sheet.Store
}

func (s *rejectingStore) AppendRow(context.Context, string, []string) error {
	return clierr.New(clierr.RemoteRejected, "append rejected")
}

func (s *rejectingStore) UpdateCell(context.Context, string, int, int, string) error {
	return clierr.New(clierr.RemoteRejected, "update rejected")
}

func TestAddFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, &rejectingStore{Store: seededStore(t)})

	tk, err := r.NewTask("Doomed", "2026-09-01", "", "", "", "")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := r.Add(ctx, tk); err == nil {
		t.Fatal("expected add to fail")
	}
	if len(r.Tasks()) != 1 {
		t.Errorf("cache grew after failed add: %d tasks", len(r.Tasks()))
	}
	if _, err := r.Get(tk.ID); err == nil {
		t.Error("failed add is reachable in cache")
	}
}

func TestUpdateFieldClosedEnum(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, seededStore(t))

	err := r.UpdateField(ctx, "1", "create_date", "2020-01-01")
	assertCode(t, err, clierr.InvalidField)

	err = r.UpdateField(ctx, "1", "id", "99")
	assertCode(t, err, clierr.InvalidField)

	err = r.UpdateField(ctx, "1", "Name", "case sensitive")
	assertCode(t, err, clierr.InvalidField)
}

func TestUpdateFieldValidationLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	err := r.UpdateField(ctx, "1", FieldStatus, "Done")
	assertCode(t, err, clierr.InvalidStatus)

	// Deleted is reserved for Archive.
	err = r.UpdateField(ctx, "1", FieldStatus, "Deleted")
	assertCode(t, err, clierr.InvalidStatus)

	tk, _ := r.Get("1")
	if tk.Status != "Pending" {
		t.Errorf("cache mutated: status = %q", tk.Status)
	}
	rows, _ := m.ReadAll(ctx, "tasks")
	if rows[1][sheet.ColStatus-1] != "Pending" {
		t.Errorf("remote mutated: %v", rows[1])
	}
}

func TestUpdateFieldWritesRemoteAndCache(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	if err := r.UpdateField(ctx, "1", FieldDeadline, "2026-12-01"); err != nil {
		t.Fatalf("update deadline: %v", err)
	}
	if err := r.UpdateField(ctx, "1", FieldProject, ""); err != nil {
		t.Fatalf("clear project: %v", err)
	}

	tk, _ := r.Get("1")
	if tk.Deadline.String() != "2026-12-01" {
		t.Errorf("cached deadline = %s", tk.Deadline)
	}
	if tk.Project.Name != task.NoProject {
		t.Errorf("cached project = %+v", tk.Project)
	}
	rows, _ := m.ReadAll(ctx, "tasks")
	if rows[1][sheet.ColDeadline-1] != "2026-12-01" || rows[1][sheet.ColProjectID-1] != "" {
		t.Errorf("remote row = %v", rows[1])
	}
}

func TestUpdateFieldRemoteFailureLeavesCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, &rejectingStore{Store: seededStore(t)})

	err := r.UpdateField(ctx, "1", FieldName, "New name")
	if err == nil {
		t.Fatal("expected update to fail")
	}
	tk, _ := r.Get("1")
	if tk.Name != "Write report" {
		t.Errorf("cache mutated after remote failure: %q", tk.Name)
	}
}

func TestMarkCompleted(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	changed, err := r.MarkCompleted(ctx, "1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !changed {
		t.Fatal("first completion reported no change")
	}

	tk, _ := r.Get("1")
	if tk.Status != task.StatusCompleted || tk.CompleteDate == nil {
		t.Fatalf("task = %+v", tk)
	}
	if tk.CompleteDate.String() != "2026-08-23" {
		t.Errorf("complete date = %s", tk.CompleteDate)
	}
	rows, _ := m.ReadAll(ctx, "tasks")
	if rows[1][sheet.ColStatus-1] != "Completed" || rows[1][sheet.ColCompleteDate-1] != "2026-08-23" {
		t.Errorf("remote row = %v", rows[1])
	}

	// Second completion is a no-op and keeps the original date.
	r.Today = func() date.Date { return date.New(2026, time.September, 9) }
	changed, err = r.MarkCompleted(ctx, "1")
	if err != nil || changed {
		t.Fatalf("second completion: changed=%v err=%v", changed, err)
	}
	tk, _ = r.Get("1")
	if tk.CompleteDate.String() != "2026-08-23" {
		t.Errorf("complete date overwritten: %s", tk.CompleteDate)
	}
}

// dateRejectingStore fails only the complete_date cell write.
type dateRejectingStore struct {
	sheet.Store
}

func (s *dateRejectingStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if col == sheet.ColCompleteDate {
		return clierr.New(clierr.RemoteRejected, "date write rejected")
	}
	return s.Store.UpdateCell(ctx, table, row, col, value)
}

func TestMarkCompletedPartialFailureStaysConsistent(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, &dateRejectingStore{Store: m})

	// The status write lands, the date write fails. The cache must
	// mirror exactly what the remote accepted.
	if _, err := r.MarkCompleted(ctx, "1"); err == nil {
		t.Fatal("expected partial failure")
	}

	tk, _ := r.Get("1")
	rows, _ := m.ReadAll(ctx, "tasks")
	if tk.Status != task.StatusCompleted || rows[1][sheet.ColStatus-1] != "Completed" {
		t.Errorf("status: cache=%q remote=%q", tk.Status, rows[1][sheet.ColStatus-1])
	}
	if tk.CompleteDate != nil || rows[1][sheet.ColCompleteDate-1] != "" {
		t.Errorf("date: cache=%v remote=%q", tk.CompleteDate, rows[1][sheet.ColCompleteDate-1])
	}
}

func TestArchiveSoftDeletes(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	changed, err := r.Archive(ctx, "1")
	if err != nil || !changed {
		t.Fatalf("archive: changed=%v err=%v", changed, err)
	}

	// The row stays in the table.
	rows, _ := m.ReadAll(ctx, "tasks")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, archive must not remove rows", len(rows))
	}
	if rows[1][sheet.ColStatus-1] != "Deleted" {
		t.Errorf("remote status = %q", rows[1][sheet.ColStatus-1])
	}

	// Active views hide it; --all style views still see it.
	active := view.Filter(r.Tasks(), view.FilterOptions{})
	if len(active) != 0 {
		t.Errorf("archived task visible in active view")
	}
	all := view.Filter(r.Tasks(), view.FilterOptions{IncludeDeleted: true})
	if len(all) != 1 {
		t.Errorf("archived task missing from --all view")
	}

	// Archiving again is a no-op.
	changed, err = r.Archive(ctx, "1")
	if err != nil || changed {
		t.Errorf("second archive: changed=%v err=%v", changed, err)
	}
}

func TestGetUnknownID(t *testing.T) {
	r := newTestRepo(t, seededStore(t))
	_, err := r.Get("42")
	assertCode(t, err, clierr.TaskNotFound)
}

func TestAddCategoryAndProject(t *testing.T) {
	ctx := context.Background()
	m := seededStore(t)
	r := newTestRepo(t, m)

	c, err := r.AddCategory(ctx, "Garden")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if c.ID != "2" {
		t.Errorf("category id = %s, want 2", c.ID)
	}
	if _, err := r.AddCategory(ctx, "Garden"); err == nil {
		t.Error("duplicate category accepted")
	}

	p, err := r.AddProject(ctx, "Migration")
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if p.ID != "2" {
		t.Errorf("project id = %s, want 2", p.ID)
	}

	// New refs are usable for task creation without a refresh.
	tk, err := r.NewTask("Plant trees", "2026-09-01", "", "Garden", "Migration", "")
	if err != nil {
		t.Fatalf("new task with fresh refs: %v", err)
	}
	if tk.Category.ID != "2" || tk.Project.ID != "2" {
		t.Errorf("refs = %+v %+v", tk.Category, tk.Project)
	}
}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if wantCode == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *clierr.Error with code %s, got %v", wantCode, err)
	}
	if ce.Code != wantCode {
		t.Fatalf("code = %s, want %s", ce.Code, wantCode)
	}
}
