// Package tui implements a terminal UI over the cached task tables.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nordwind-labs/taskdeck/internal/config"
	"github.com/nordwind-labs/taskdeck/internal/repo"
	"github.com/nordwind-labs/taskdeck/internal/task"
	"github.com/nordwind-labs/taskdeck/internal/view"
)

// screen represents the current screen state.
type screen int

const (
	screenBoard screen = iota
	screenConfirmArchive
)

const (
	keyEsc = "esc"

	boardChrome      = 2 // blank line + status bar below the column area
	errorChrome      = 1 // extra line when error toast is displayed
	remoteTimeout    = 30 * time.Second
	cardLinesPerTask = 3 // bordered card: top, text, bottom
)

// Board is the top-level bubbletea model.
type Board struct {
	repo    *repo.Repository
	cfg     *config.Config
	columns []column

	activeCol int
	activeRow int
	screen    screen
	width     int
	height    int
	err       error
	busy      bool

	// Archive confirmation.
	archiveID   string
	archiveName string
}

// column groups tasks belonging to a single status.
type column struct {
	status    string
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a new Board model over an already-refreshed repository.
func NewBoard(r *repo.Repository, cfg *config.Config) *Board {
	b := &Board{repo: r, cfg: cfg}
	b.rebuildColumns()
	return b
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		return b, b.refreshCmd()
	case opDoneMsg:
		b.busy = false
		b.err = msg.err
		b.rebuildColumns()
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	if b.screen == screenConfirmArchive {
		return b.viewArchiveConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	if b.screen == screenConfirmArchive {
		return b.handleArchiveKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.busy {
		return b, nil
	}
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "r":
		return b, b.refreshCmd()
	case "c":
		return b, b.completeCmd()
	case "d", "D":
		b.handleArchiveStart()
	}
	return b, nil
}

func (b *Board) handleArchiveStart() {
	if t := b.selectedTask(); t != nil {
		b.archiveID = t.ID
		b.archiveName = t.Name
		b.screen = screenConfirmArchive
	}
}

func (b *Board) handleArchiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.screen = screenBoard
		return b, b.archiveCmd()
	case "n", "N", keyEsc, "q":
		b.screen = screenBoard
	}
	return b, nil
}

// refreshCmd re-reads the remote tables off the UI goroutine. A failed
// refresh keeps the cached columns and surfaces the error in the status
// bar.
func (b *Board) refreshCmd() tea.Cmd {
	b.busy = true
	r := b.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		return opDoneMsg{err: r.Refresh(ctx)}
	}
}

func (b *Board) completeCmd() tea.Cmd {
	t := b.selectedTask()
	if t == nil {
		return nil
	}
	b.busy = true
	r, id := b.repo, t.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		_, err := r.MarkCompleted(ctx, id)
		return opDoneMsg{err: err}
	}
}

func (b *Board) archiveCmd() tea.Cmd {
	b.busy = true
	r, id := b.repo, b.archiveID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		_, err := r.Archive(ctx, id)
		return opDoneMsg{err: err}
	}
}

// rebuildColumns regroups the cached tasks into status columns. Deleted
// tasks are hidden.
func (b *Board) rebuildColumns() {
	tasks := view.Filter(b.repo.Tasks(), view.FilterOptions{})
	view.Sort(tasks, view.ByDeadline, false, b.cfg)

	var statuses []string
	for _, s := range b.cfg.Statuses {
		if s != task.StatusDeleted {
			statuses = append(statuses, s)
		}
	}

	b.columns = make([]column, len(statuses))
	for i, status := range statuses {
		b.columns[i] = column{status: status}
	}
	for _, t := range tasks {
		for i := range b.columns {
			if b.columns[i].status == t.Status {
				b.columns[i].tasks = append(b.columns[i].tasks, t)
				break
			}
		}
	}

	if b.activeCol >= len(b.columns) {
		b.activeCol = 0
	}
	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCards returns how many cards fit in a column at the current
// terminal height.
func (b *Board) visibleCards() int {
	budget := b.height - b.chromeHeight() - 1 // header line
	n := budget / cardLinesPerTask
	if n < 1 {
		return 1
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCards()
	switch {
	case b.activeRow >= col.scrollOff+maxVis:
		col.scrollOff = b.activeRow - maxVis + 1
	case b.activeRow < col.scrollOff:
		col.scrollOff = b.activeRow
	}
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.Dir()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a remote refresh.
type ReloadMsg struct{}

// opDoneMsg reports the outcome of an async remote operation.
type opDoneMsg struct{ err error }

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	overdueCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	priorityColors = map[string]lipgloss.Color{
		"High":   "196",
		"Medium": "226",
		"Low":    "242",
	}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// --- View rendering ---

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No statuses configured."
	}

	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if len(b.columns) == 0 {
		return b.width
	}
	w := b.width / len(b.columns)
	if w < 12 { //nolint:mnd // minimum usable column width
		w = 12
	}
	return w
}

func (b *Board) renderColumn(idx int, col column, width int) string {
	headerStyle := columnHeaderStyle
	if idx == b.activeCol {
		headerStyle = activeColumnHeaderStyle
	}
	header := headerStyle.Render(fmt.Sprintf("%s (%d)", col.status, len(col.tasks)))

	lines := []string{header}
	maxVis := b.visibleCards()
	if col.scrollOff > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", col.scrollOff)))
	}
	end := col.scrollOff + maxVis
	if end > len(col.tasks) {
		end = len(col.tasks)
	}
	for row := col.scrollOff; row < end; row++ {
		lines = append(lines, b.renderCard(col.tasks[row], idx == b.activeCol && row == b.activeRow, width))
	}
	if end < len(col.tasks) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", len(col.tasks)-end)))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case b.isOverdue(t):
		style = overdueCardStyle
	}

	inner := width - 4 //nolint:mnd // border + padding
	if inner < 4 {
		inner = 4
	}

	text := "#" + t.ID + " " + t.Name
	if len(text) > inner {
		text = text[:inner-1] + "…"
	}
	if t.Priority != "" {
		if c, ok := priorityColors[t.Priority]; ok {
			text = lipgloss.NewStyle().Foreground(c).Render(text)
		}
	}
	return style.Width(inner).Render(text)
}

func (b *Board) isOverdue(t *task.Task) bool {
	if t.Deadline.IsZero() || t.Status == task.StatusCompleted {
		return false
	}
	return t.Deadline.Before(b.repo.Today().Time)
}

func (b *Board) renderStatusBar() string {
	help := "←/→ column · ↑/↓ task · r refresh · c complete · d archive · q quit"
	if b.busy {
		help = "working…"
	}
	bar := statusBarStyle.Render(help)
	if b.err != nil {
		bar = errorStyle.Render("Error: "+b.err.Error()) + "\n" + bar
	}
	return bar
}

func (b *Board) viewArchiveConfirm() string {
	msg := fmt.Sprintf("Archive task #%s %q?\n\n[y] yes   [n] no", b.archiveID, b.archiveName)
	dialog := dialogStyle.Render(msg)
	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, dialog)
}
