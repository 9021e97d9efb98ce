// Package tui implements the interactive projtrack board: a kanban of
// projects by status, and for each project a kanban of its tasks.
package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/filelock"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

// view represents the current screen state.
type view int

const (
	viewProjects view = iota
	viewTasks
	viewConfirmDelete
)

const (
	doubleClickWindow = 500 * time.Millisecond
	tickInterval      = time.Minute // refreshes "days left" across midnight
)

// Options configures a Board.
type Options struct {
	Name         string      // tracker name shown in the status bar
	Store        store.Store // loaded on start and on ReloadMsg, saved after each mutation
	LockPath     string      // held while saving; empty disables locking
	LogDir       string      // activity log directory; empty disables the log
	ShowProgress bool
	User         string // initials shown in the status bar
	Logger       lgr.L
	Now          func() time.Time
}

// Board is the top-level bubbletea model.
type Board struct {
	opts   Options
	engine *tracker.Engine
	keys   keyMap
	help   help.Model
	bar    progress.Model

	columns   []column
	activeCol int
	activeRow int
	view      view
	projectID string // set while the task board of a project is open
	width     int
	height    int
	err       error
	notice    string

	// Pending delete, shown in the confirmation dialog.
	deleteTarget item

	// Saves run one at a time; mutations made meanwhile are batched.
	saving  bool
	pending []tracker.Result

	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

// column groups the cards of a single status.
type column struct {
	status    project.Status
	items     []item
	scrollOff int // first visible row index
}

// item is one card: a project on the project board, a task on a task board.
type item struct {
	projectID   string
	taskID      string
	name        string
	detail      string
	status      project.Status
	due         date.Date
	progress    int
	schedule    board.Schedule
	hasProgress bool
}

// NewBoard creates a Board and loads the collection from opts.Store.
func NewBoard(opts Options) *Board {
	if opts.Logger == nil {
		opts.Logger = lgr.NoOp
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	b := &Board{
		opts: opts,
		engine: tracker.New(
			tracker.WithClock(opts.Now),
			tracker.WithLogger(opts.Logger),
		),
		keys: defaultKeyMap(),
		help: help.New(),
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	b.load()
	return b
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		// Reloading now would drop mutations that are not on disk yet.
		if b.saving || len(b.pending) > 0 {
			return b, nil
		}
		b.load()
		return b, nil
	case savedMsg:
		b.saving = false
		if msg.err != nil {
			b.err = fmt.Errorf("changes not saved: %w", msg.err)
		}
		return b, b.flush()
	case TickMsg:
		b.rebuild()
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewConfirmDelete {
		return b.viewDeleteConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}
	if b.view == viewConfirmDelete {
		return b.handleDeleteKey(msg)
	}

	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Back):
		b.closeProject()
	case key.Matches(msg, b.keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Down):
		if col := b.currentColumn(); col != nil && b.activeRow < len(col.items)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Open):
		b.openProject()
	case key.Matches(msg, b.keys.Next):
		return b, b.moveSelected(1)
	case key.Matches(msg, b.keys.Prev):
		return b, b.moveSelected(-1)
	case key.Matches(msg, b.keys.Delete):
		b.handleDeleteStart()
	case key.Matches(msg, b.keys.Reload):
		if !b.saving && len(b.pending) == 0 {
			b.load()
		}
	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Confirm):
		return b, b.executeDelete()
	case key.Matches(msg, b.keys.Cancel):
		b.view = b.boardView()
	}
	return b, nil
}

// handleMouse selects the clicked card; a double click opens a project.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.view == viewConfirmDelete {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}

	col := &b.columns[clickedCol]
	clickedRow := -1
	lineY := msg.Y - 1 // column header
	cardLine := 0
	for rowIdx := col.scrollOff; lineY >= 0 && rowIdx < len(col.items); rowIdx++ {
		cardH := b.cardHeight(col.items[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			clickedRow = rowIdx
			break
		}
		cardLine += cardH
	}

	b.activeCol = clickedCol
	if clickedRow < 0 {
		b.clampRow()
		return b, nil
	}

	now := b.opts.Now()
	isDoubleClick := clickedCol == b.lastClickCol &&
		clickedRow == b.lastClickRow &&
		now.Sub(b.lastClickTime) < doubleClickWindow

	b.activeRow = clickedRow
	b.lastClickCol = clickedCol
	b.lastClickRow = clickedRow
	b.lastClickTime = now
	b.ensureVisible()

	if isDoubleClick {
		b.openProject()
	}
	return b, nil
}

// load replaces the engine's collection with the stored one. On failure
// the board keeps what it shows and reports the error.
func (b *Board) load() {
	projects, err := b.opts.Store.Load()
	if err != nil {
		b.err = fmt.Errorf("loading projects: %w", err)
		return
	}
	if ws, ok := b.opts.Store.(store.WarningSource); ok {
		warnings := ws.Warnings()
		for _, w := range warnings {
			b.opts.Logger.Logf("[DEBUG] skipping malformed record %s: %v", w.Source, w.Err)
		}
		if len(warnings) > 0 {
			b.notice = fmt.Sprintf("skipped %d malformed records", len(warnings))
		}
	}
	if err := b.engine.Seed(projects); err != nil {
		b.err = fmt.Errorf("loading projects: %w", err)
		if g, ok := b.opts.Store.(*store.Guard); ok {
			g.Reject(err)
		}
		return
	}
	b.err = nil
	b.rebuild()
}

// rebuild lays out the columns from the engine's snapshot.
func (b *Board) rebuild() {
	ref := b.today()
	prev := b.columns
	b.columns = make([]column, len(project.Statuses))
	for i, st := range project.Statuses {
		b.columns[i] = column{status: st}
		if i < len(prev) {
			b.columns[i].scrollOff = prev[i].scrollOff
		}
	}

	if b.projectID != "" {
		p, err := b.engine.Project(b.projectID)
		if err != nil {
			// Deleted elsewhere.
			b.projectID = ""
			b.view = viewProjects
			b.rebuild()
			return
		}
		for _, t := range p.Tasks {
			b.place(taskItem(p.ID, t, ref))
		}
	} else {
		projects := b.engine.Snapshot()
		board.Sort(projects, "due", false)
		board.Sort(projects, "priority", false)
		for _, p := range projects {
			b.place(projectItem(p, ref))
		}
	}
	b.clampRow()
}

func (b *Board) place(it item) {
	idx := slices.Index(project.Statuses, it.status)
	if idx < 0 {
		return
	}
	b.columns[idx].items = append(b.columns[idx].items, it)
}

func projectItem(p project.Project, ref date.Date) item {
	detail := p.Owner
	if p.Category != "" {
		detail += " · " + p.Category
	}
	return item{
		projectID:   p.ID,
		name:        p.Name,
		detail:      detail,
		status:      p.Status,
		due:         p.DueDate,
		progress:    board.CompletionPercentage(p.Tasks),
		schedule:    board.ProjectSchedule(p, ref),
		hasProgress: true,
	}
}

func taskItem(projectID string, t project.Task, ref date.Date) item {
	return item{
		projectID: projectID,
		taskID:    t.ID,
		name:      t.Name,
		detail:    t.Description,
		status:    t.Status,
		due:       t.DueDate,
		schedule:  board.TaskSchedule(t, ref),
	}
}

func (b *Board) today() date.Date {
	return date.FromTime(b.opts.Now())
}

func (b *Board) boardView() view {
	if b.projectID != "" {
		return viewTasks
	}
	return viewProjects
}

func (b *Board) openProject() {
	it := b.selectedItem()
	if it == nil || b.projectID != "" {
		return
	}
	b.projectID = it.projectID
	b.view = viewTasks
	b.activeCol, b.activeRow = 0, 0
	b.columns = nil
	b.rebuild()
}

func (b *Board) closeProject() {
	if b.projectID == "" {
		b.err = nil
		return
	}
	returnTo := b.projectID
	b.projectID = ""
	b.view = viewProjects
	b.columns = nil
	b.rebuild()
	b.selectProject(returnTo)
}

// selectProject moves the cursor onto the card of projectID.
func (b *Board) selectProject(projectID string) {
	for c, col := range b.columns {
		for r, it := range col.items {
			if it.projectID == projectID {
				b.activeCol, b.activeRow = c, r
				b.ensureVisible()
				return
			}
		}
	}
}

// moveSelected moves the selected card delta steps along the status
// workflow. For a project this is the manual status override.
func (b *Board) moveSelected(delta int) tea.Cmd {
	it := b.selectedItem()
	if it == nil {
		return nil
	}
	idx := slices.Index(project.Statuses, it.status) + delta
	if idx < 0 || idx >= len(project.Statuses) {
		return nil
	}
	to := project.Statuses[idx]

	var cmd tracker.Command = tracker.SetProjectStatus{ID: it.projectID, Status: to}
	if it.taskID != "" {
		cmd = tracker.SetTaskStatus{ProjectID: it.projectID, TaskID: it.taskID, Status: to}
	}
	save := b.dispatch(cmd)

	// Follow the card into its new column.
	b.activeCol = idx
	for r, moved := range b.columns[idx].items {
		if moved.projectID == it.projectID && moved.taskID == it.taskID {
			b.activeRow = r
		}
	}
	b.ensureVisible()
	return save
}

func (b *Board) handleDeleteStart() {
	if it := b.selectedItem(); it != nil {
		b.deleteTarget = *it
		b.view = viewConfirmDelete
	}
}

func (b *Board) executeDelete() tea.Cmd {
	it := b.deleteTarget
	b.view = b.boardView()

	var cmd tracker.Command = tracker.DeleteProject{ID: it.projectID}
	if it.taskID != "" {
		cmd = tracker.DeleteTask{ProjectID: it.projectID, TaskID: it.taskID}
	}
	return b.dispatch(cmd)
}

// dispatch applies cmd and queues the resulting snapshot for saving.
func (b *Board) dispatch(cmd tracker.Command) tea.Cmd {
	res, err := b.engine.Dispatch(cmd)
	if err != nil {
		b.err = err
		return nil
	}
	b.err = nil
	b.notice = fmt.Sprintf("%s: %s", res.Op, res.Detail)
	b.rebuild()

	b.pending = append(b.pending, res)
	if b.saving {
		return nil
	}
	return b.flush()
}

// flush saves the newest pending snapshot and logs every pending mutation.
func (b *Board) flush() tea.Cmd {
	if len(b.pending) == 0 {
		return nil
	}
	batch := b.pending
	b.pending = nil
	b.saving = true

	opts := b.opts
	snapshot := batch[len(batch)-1].Snapshot
	return func() tea.Msg {
		save := func() error { return opts.Store.Save(snapshot) }
		var err error
		if opts.LockPath != "" {
			err = filelock.Do(opts.LockPath, save)
		} else {
			err = save()
		}
		if err == nil && opts.LogDir != "" {
			for _, res := range batch {
				board.LogMutation(opts.LogDir, string(res.Op), res.ProjectID, res.TaskID, res.Detail)
			}
		}
		return savedMsg{err: err}
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedItem() *item {
	col := b.currentColumn()
	if col == nil || len(col.items) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.items) {
		return &col.items[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.items) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.items) {
		b.activeRow = len(col.items) - 1
	}
	b.ensureVisible()
}

// --- Messages ---

// ReloadMsg is sent by the storage watcher to trigger a reload.
type ReloadMsg struct{}

// TickMsg is sent periodically so schedule badges follow the date.
type TickMsg struct{}

type savedMsg struct{ err error }

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
