// Package sheet talks to the remote tabular store that holds the
// tasks, categories and projects tables. Rows and columns are 1-based;
// row 1 is the header, data starts at row 2.
package sheet

import "context"

// Default table names. The config can override them.
const (
	TasksTable      = "tasks"
	CategoriesTable = "categories"
	ProjectsTable   = "projects"
)

// Columns of the tasks table, 1-based.
const (
	ColID = iota + 1
	ColName
	ColCreateDate
	ColDeadline
	ColCompleteDate
	ColStatus
	ColPriority
	ColCategoryID
	ColProjectID
	ColNotes

	TaskColumns = ColNotes
)

// TasksHeader is the header row of the tasks table, in column order.
var TasksHeader = []string{
	"id", "name", "create_date", "deadline", "complete_date",
	"status", "priority", "category_id", "project_id", "notes",
}

// RefHeader is the header row of the categories and projects tables.
var RefHeader = []string{"id", "name"}

// Store is the adapter surface over the remote tabular service. All
// coordinates are 1-based sheet coordinates.
type Store interface {
	// ReadAll returns every row of a table, header included.
	ReadAll(ctx context.Context, table string) ([][]string, error)

	// AppendRow appends a row after the last non-empty row.
	AppendRow(ctx context.Context, table string, row []string) error

	// UpdateCell overwrites a single cell.
	UpdateCell(ctx context.Context, table string, row, col int, value string) error

	// DeleteRow removes a row; rows below shift up.
	DeleteRow(ctx context.Context, table string, row int) error

	// EnsureTable creates a table with the given header if it does not
	// exist. Existing tables are left untouched.
	EnsureTable(ctx context.Context, table string, header []string) error
}
