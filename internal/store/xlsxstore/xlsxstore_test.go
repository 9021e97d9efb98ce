package xlsxstore

import (
	"path/filepath"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
)

func sampleProjects() []project.Project {
	done := date.New(2025, 1, 20)
	return []project.Project{
		{
			ID: "p1", Name: "Website", Description: "Marketing site", Status: project.StatusInProgress,
			Priority: project.PriorityHigh, Category: "Design", Owner: "Ada",
			StartDate: date.New(2025, 1, 1), DueDate: date.New(2025, 3, 1),
			CreatedAt: date.New(2025, 1, 1), UpdatedAt: date.New(2025, 1, 20),
			Tasks: []project.Task{
				{
					ID: "t1", ProjectID: "p1", Name: "Wireframes", Status: project.StatusCompleted,
					DueDate: date.New(2025, 1, 15), CompletedDate: &done,
					CreatedAt: date.New(2025, 1, 1), UpdatedAt: done,
				},
				{
					ID: "t2", ProjectID: "p1", Name: "Build", Status: project.StatusTodo,
					DueDate:   date.New(2025, 2, 15),
					CreatedAt: date.New(2025, 1, 1), UpdatedAt: date.New(2025, 1, 1),
				},
			},
		},
		{
			ID: "p2", Name: "Empty", Status: project.StatusTodo, Priority: project.PriorityLow,
			Category: "Research", StartDate: date.New(2025, 2, 1), DueDate: date.New(2025, 2, 28),
			CreatedAt: date.New(2025, 2, 1), UpdatedAt: date.New(2025, 2, 1),
			Tasks: []project.Task{},
		},
	}
}

func TestLoadMissingWorkbook(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "none.xlsx"), lgr.NoOp)
	projects, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "projects.xlsx")
	s := New(path, lgr.NoOp)

	require.NoError(t, s.Save(sampleProjects()))
	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	p := got[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Marketing site", p.Description)
	assert.Equal(t, "Ada", p.Owner)
	assert.Equal(t, project.StatusInProgress, p.Status)
	assert.True(t, p.DueDate.Equal(date.New(2025, 3, 1)), "due %s", p.DueDate)
	assert.Nil(t, p.CompletedDate)

	require.Len(t, p.Tasks, 2)
	require.NotNil(t, p.Tasks[0].CompletedDate, "completed date lost")
	assert.True(t, p.Tasks[0].CompletedDate.Equal(date.New(2025, 1, 20)))
	assert.Nil(t, p.Tasks[1].CompletedDate)
	assert.NotNil(t, got[1].Tasks)
	assert.Empty(t, got[1].Tasks)
}

func TestWorkbookLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.xlsx")
	require.NoError(t, New(path, lgr.NoOp).Save(sampleProjects()))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ProjectsSheet, TasksSheet}, f.GetSheetList())

	header, err := f.GetCellValue(ProjectsSheet, "J1")
	require.NoError(t, err)
	assert.Equal(t, "completedDate", header)

	width, err := f.GetColWidth(ProjectsSheet, "C")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, width, 0.001, "description column width")

	due, err := f.GetCellValue(TasksSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", due)
}

// writeProjectsSheet writes a raw projects sheet with the given rows.
func writeProjectsSheet(t *testing.T, path string, rows ...[]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", ProjectsSheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(ProjectsSheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestLoadAcceptsTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.xlsx")
	writeProjectsSheet(t, path,
		[]any{"id", "name", "status", "priority", "startDate", "dueDate", "createdAt", "updatedAt"},
		[]any{"p1", "Legacy", "todo", "medium", "2025-01-01T00:00:00.000Z", "2025-02-01T12:00:00.000Z", "2025-01-01", ""},
	)

	projects, err := New(path, lgr.NoOp).Load()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.True(t, projects[0].DueDate.Equal(date.New(2025, 2, 1)), "due %s", projects[0].DueDate)
	assert.True(t, projects[0].UpdatedAt.IsZero(), "updatedAt %s", projects[0].UpdatedAt)
}

func TestLoadRejectsBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.xlsx")
	writeProjectsSheet(t, path, []any{"id", "dueDate"}, []any{"p1", "soon"})

	_, err := New(path, lgr.NoOp).Load()
	assert.Error(t, err)
}

func TestSettingsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.xlsx")
	s := New(path, lgr.NoOp)
	ss := s.Settings()

	empty, err := ss.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{}, empty)

	require.NoError(t, s.Save(sampleProjects()))
	want := settings.Settings{UserName: "Ada Lovelace", UserInitials: "AL"}
	require.NoError(t, ss.Save(want))

	// saving projects keeps the settings sheet
	require.NoError(t, s.Save(sampleProjects()[:1]))
	got, err := ss.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	projects, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.xlsx")
	st := settings.Settings{UserName: "Grace"}
	require.NoError(t, Export(path, sampleProjects(), &st))

	got, err := New(path, lgr.NoOp).Settings().Load()
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.UserName)
}
