package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type memStore struct {
	projects []project.Project
	saves    int
	saveErr  error
	loadErr  error
}

func (m *memStore) Load() ([]project.Project, error) {
	if m.loadErr != nil {
		return []project.Project{}, m.loadErr
	}
	return project.CloneAll(m.projects), nil
}

func (m *memStore) Save(projects []project.Project) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.projects = project.CloneAll(projects)
	return nil
}

func (m *memStore) Location() string { return "memory" }
func (m *memStore) Close() error     { return nil }

// seedStore builds a store holding one project with a todo and an
// in-progress task.
func seedStore(t *testing.T) *memStore {
	t.Helper()
	ids := []string{"p1", "t1", "t2"}
	e := tracker.New(
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
	)
	due := date.New(2026, 3, 14)
	_, err := e.CreateProject(project.ProjectForm{
		Name: "Website", Description: "Relaunch", Owner: "Ada",
		Priority: project.PriorityHigh, Category: "Development",
		StartDate: date.New(2026, 3, 1), DueDate: due,
	})
	require.NoError(t, err)
	_, err = e.CreateTask("p1", project.TaskForm{Name: "Design", DueDate: due})
	require.NoError(t, err)
	_, err = e.CreateTask("p1", project.TaskForm{Name: "Build", DueDate: due})
	require.NoError(t, err)
	_, err = e.SetTaskStatus("p1", "t2", project.StatusInProgress)
	require.NoError(t, err)
	return &memStore{projects: e.Snapshot()}
}

func newTestBoard(t *testing.T, s *memStore) *Board {
	t.Helper()
	b := NewBoard(Options{
		Name:         "Projects",
		Store:        s,
		LogDir:       t.TempDir(),
		ShowProgress: true,
		Now:          func() time.Time { return fixedNow },
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key and runs the resulting save command, if any.
func press(t *testing.T, b *Board, k string) {
	t.Helper()
	_, cmd := b.Update(keyMsg(k))
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(savedMsg); !ok {
			return
		}
		_, cmd = b.Update(msg)
	}
}

func TestBoardLoadsProjectsIntoStatusColumns(t *testing.T) {
	b := newTestBoard(t, seedStore(t))

	require.Len(t, b.columns, len(project.Statuses))
	inProgress := b.columns[1]
	require.Len(t, inProgress.items, 1)
	assert.Equal(t, "Website", inProgress.items[0].name)
	assert.Zero(t, inProgress.items[0].progress, "no completed tasks yet")

	view := b.View()
	assert.Contains(t, view, "In Progress (1)")
	assert.Contains(t, view, "Website")
	assert.Contains(t, view, "Projects | 1 projects")
}

func TestBoardMovesTaskAndSaves(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)

	press(t, b, "right") // In Progress column holds the project
	press(t, b, "enter")
	require.Equal(t, viewTasks, b.view)
	require.Equal(t, "p1", b.projectID)

	// Todo column: Design. Move it forward.
	b.activeCol, b.activeRow = 0, 0
	press(t, b, "n")

	require.Equal(t, 1, s.saves)
	assert.Equal(t, project.StatusInProgress, s.projects[0].Tasks[0].Status)
	assert.Equal(t, 1, b.activeCol, "cursor follows the card")
	assert.False(t, b.saving, "board still saving after savedMsg")
}

func TestBoardOverridesProjectStatus(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)

	b.activeCol, b.activeRow = 1, 0 // Website, in progress
	press(t, b, "n")

	require.Equal(t, 1, s.saves)
	p := s.projects[0]
	assert.Equal(t, project.StatusCompleted, p.Status)
	require.NotNil(t, p.CompletedDate)
	assert.True(t, p.CompletedDate.Equal(date.FromTime(fixedNow)), "completed %s", p.CompletedDate)
	assert.Equal(t, project.StatusInProgress, p.Tasks[1].Status, "override leaves tasks alone")
	assert.Equal(t, 2, b.activeCol, "cursor follows the card")
	require.Len(t, b.columns[2].items, 1)

	press(t, b, "p")
	press(t, b, "p")
	require.Equal(t, 3, s.saves)
	assert.Equal(t, project.StatusTodo, s.projects[0].Status)
	assert.Nil(t, s.projects[0].CompletedDate)
	assert.Len(t, b.columns[0].items, 1)

	// Further back than todo is a no-op.
	press(t, b, "p")
	assert.Equal(t, 3, s.saves)

	// The next task mutation recomputes the status from the tasks.
	press(t, b, "enter")
	require.Equal(t, viewTasks, b.view)
	b.activeCol, b.activeRow = 0, 0 // Design
	press(t, b, "n")
	assert.Equal(t, project.StatusInProgress, s.projects[0].Status)
}

func TestBoardDeletesProjectWithItsTasks(t *testing.T) {
	s := seedStore(t)
	s.projects = append(s.projects, project.Project{
		ID: "p2", Name: "Audit", Description: "Yearly", Owner: "Lee",
		Priority: project.PriorityLow, Status: project.StatusTodo,
		StartDate: date.New(2026, 3, 1), DueDate: date.New(2026, 4, 1),
		Tasks: []project.Task{{ID: "t9", ProjectID: "p2", Name: "Collect", Status: project.StatusTodo,
			DueDate: date.New(2026, 3, 20)}},
	})
	b := newTestBoard(t, s)

	b.activeCol, b.activeRow = 1, 0 // Website
	press(t, b, "d")
	require.Equal(t, viewConfirmDelete, b.view)
	press(t, b, "y")

	require.Equal(t, 1, s.saves)
	require.Len(t, s.projects, 1)
	assert.Equal(t, "p2", s.projects[0].ID)
	for _, p := range s.projects {
		for _, task := range p.Tasks {
			assert.NotEqual(t, "p1", task.ProjectID, "task %s outlived its project", task.ID)
		}
	}
	assert.Equal(t, viewProjects, b.view)
	assert.Empty(t, b.columns[1].items)
	assert.Len(t, b.columns[0].items, 1)
}

func TestBoardCompletingAllTasksCompletesProject(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)
	press(t, b, "right")
	press(t, b, "enter")

	b.activeCol, b.activeRow = 1, 0 // Build
	press(t, b, "n")
	b.activeCol, b.activeRow = 0, 0 // Design
	press(t, b, "n")
	b.activeCol, b.activeRow = 1, 0
	press(t, b, "n")

	p := s.projects[0]
	require.Equal(t, project.StatusCompleted, p.Status)
	require.NotNil(t, p.CompletedDate)
	assert.True(t, p.CompletedDate.Equal(date.FromTime(fixedNow)), "completed %s", p.CompletedDate)

	press(t, b, "esc")
	require.Equal(t, viewProjects, b.view)
	assert.Len(t, b.columns[2].items, 1)
}

func TestBoardDeleteAsksForConfirmation(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)
	b.activeCol, b.activeRow = 1, 0

	press(t, b, "d")
	require.Equal(t, viewConfirmDelete, b.view)
	assert.Contains(t, b.View(), "Delete project?")

	press(t, b, "n")
	require.Equal(t, viewProjects, b.view)
	require.Zero(t, s.saves)

	press(t, b, "d")
	press(t, b, "y")
	assert.Equal(t, 1, s.saves)
	assert.Empty(t, s.projects)
}

func TestBoardShowsSaveFailure(t *testing.T) {
	s := seedStore(t)
	s.saveErr = errors.New("disk full")
	b := newTestBoard(t, s)
	b.activeCol, b.activeRow = 1, 0

	press(t, b, "n") // manual override to completed
	require.Error(t, b.err)
	assert.Contains(t, b.err.Error(), "disk full")
	// The in-memory change stands.
	assert.Len(t, b.columns[2].items, 1)
	assert.Contains(t, b.View(), "Error: changes not saved")
}

func TestBoardBatchesMutationsWhileSaving(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)
	press(t, b, "right")
	press(t, b, "enter")

	b.activeCol, b.activeRow = 0, 0
	_, first := b.Update(keyMsg("n"))
	require.NotNil(t, first, "first mutation did not start a save")
	require.True(t, b.saving)

	b.activeCol, b.activeRow = 1, 0
	_, second := b.Update(keyMsg("n"))
	require.Nil(t, second, "second mutation started a concurrent save")

	// A watcher reload must not drop the unsaved mutation.
	b.Update(ReloadMsg{})
	require.Len(t, b.pending, 1)

	_, next := b.Update(first())
	require.NotNil(t, next, "pending mutation was not flushed")
	b.Update(next())
	assert.Equal(t, 2, s.saves)
	assert.False(t, b.saving)
	assert.Empty(t, b.pending)
}

func TestBoardReloadPicksUpExternalChanges(t *testing.T) {
	s := seedStore(t)
	b := newTestBoard(t, s)

	s.projects[0].Name = "Renamed elsewhere"
	b.Update(ReloadMsg{})
	assert.Equal(t, "Renamed elsewhere", b.columns[1].items[0].name)

	s.loadErr = errors.New("unreadable")
	b.Update(ReloadMsg{})
	require.Error(t, b.err, "load failure not reported")
	assert.Len(t, b.columns[1].items, 1, "failed reload dropped the displayed projects")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		maxLines int
		want     []string
	}{
		{"short", 10, 2, []string{"short"}},
		{"alpha beta gamma", 10, 3, []string{"alpha beta", "gamma"}},
		{"alpha beta gamma delta", 10, 2, []string{"alpha beta", "gamma d..."}},
		{"alpha beta gamma", 10, 1, []string{"alpha b..."}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrapText(tt.text, tt.width, tt.maxLines),
			"wrapText(%q, %d, %d)", tt.text, tt.width, tt.maxLines)
	}
}
