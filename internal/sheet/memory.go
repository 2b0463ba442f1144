package sheet

import (
	"context"
	"sync"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
)

// Memory is an in-memory Store for tests and offline use.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// Seed replaces a table's rows wholesale. Test helper.
func (m *Memory) Seed(table string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	m.tables[table] = copied
}

// ReadAll implements Store.
func (m *Memory) ReadAll(_ context.Context, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, clierr.Newf(clierr.RemoteRejected, "no such table %q", table)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// AppendRow implements Store.
func (m *Memory) AppendRow(_ context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return clierr.Newf(clierr.RemoteRejected, "no such table %q", table)
	}
	m.tables[table] = append(rows, append([]string(nil), row...))
	return nil
}

// UpdateCell implements Store.
func (m *Memory) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return clierr.Newf(clierr.RemoteRejected, "no such table %q", table)
	}
	if row < 1 || row > len(rows) || col < 1 {
		return clierr.Newf(clierr.RemoteRejected,
			"cell (%d,%d) out of range in %q", row, col, table)
	}
	r := rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	rows[row-1] = r
	return nil
}

// DeleteRow implements Store.
func (m *Memory) DeleteRow(_ context.Context, table string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return clierr.Newf(clierr.RemoteRejected, "no such table %q", table)
	}
	if row < 1 || row > len(rows) {
		return clierr.Newf(clierr.RemoteRejected, "row %d out of range in %q", row, table)
	}
	m.tables[table] = append(rows[:row-1], rows[row:]...)
	return nil
}

// EnsureTable implements Store.
func (m *Memory) EnsureTable(_ context.Context, table string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; ok {
		return nil
	}
	m.tables[table] = [][]string{append([]string(nil), header...)}
	return nil
}
