package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func sampleProjects() []project.Project {
	done := date.New(2024, 1, 8)
	return []project.Project{
		{
			ID: "p-1", Name: "Website Relaunch", Description: "## Goals\n\nShip the new site.",
			Owner: "Dana", Priority: project.PriorityHigh, Category: "Design",
			Status: project.StatusInProgress, StartDate: date.New(2024, 1, 1), DueDate: date.New(2024, 3, 1),
			CreatedAt: date.New(2024, 1, 1), UpdatedAt: date.New(2024, 1, 8),
			Tasks: []project.Task{
				{ID: "t-1", ProjectID: "p-1", Name: "Wireframes", Status: project.StatusCompleted,
					DueDate: date.New(2024, 1, 10), CompletedDate: &done,
					CreatedAt: date.New(2024, 1, 1), UpdatedAt: done},
				{ID: "t-2", ProjectID: "p-1", Name: "Build", Description: "templates", Status: project.StatusTodo,
					DueDate: date.New(2024, 2, 10), CreatedAt: date.New(2024, 1, 2), UpdatedAt: date.New(2024, 1, 2)},
			},
		},
		{
			ID: "p-2", Name: "Audit", Description: "Yearly audit", Owner: "Lee",
			Priority: project.PriorityLow, Status: project.StatusTodo,
			StartDate: date.New(2024, 2, 1), DueDate: date.New(2024, 2, 28),
			CreatedAt: date.New(2024, 1, 3), UpdatedAt: date.New(2024, 1, 3),
			Tasks: []project.Task{},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "projects")
	require.NoError(t, New(dir, lgr.NoOp).Save(sampleProjects()))

	loaded, err := New(dir, lgr.NoOp).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	p := loaded[0]
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "## Goals\n\nShip the new site.", p.Description)
	require.Len(t, p.Tasks, 2)
	require.NotNil(t, p.Tasks[0].CompletedDate, "completed date lost")
	assert.True(t, p.Tasks[0].CompletedDate.Equal(date.New(2024, 1, 8)))
	assert.Nil(t, p.Tasks[1].CompletedDate)
	assert.Equal(t, "templates", p.Tasks[1].Description)
	assert.NotNil(t, loaded[1].Tasks, "empty task list should load as empty slice")

	data, err := os.ReadFile(filepath.Join(dir, "001-website-relaunch.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.Contains(t, string(data), "due_date:")
}

func TestSaveRemovesDeletedProjects(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, lgr.NoOp)
	projects := sampleProjects()
	require.NoError(t, s.Save(projects))
	require.NoError(t, s.Save(projects[1:]))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "p-2", loaded[0].ID)

	_, err = os.Stat(filepath.Join(dir, "001-audit.md"))
	assert.NoError(t, err, "expected renumbered file")
}

func TestLoadIsLenient(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, lgr.NoOp)
	require.NoError(t, s.Save(sampleProjects()))
	broken := filepath.Join(dir, "003-broken.md")
	require.NoError(t, os.WriteFile(broken, []byte("no frontmatter here"), 0o600))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	w := s.Warnings()
	require.Len(t, w, 1)
	assert.Equal(t, "003-broken.md", w[0].Source)

	// A broken file survives later saves.
	require.NoError(t, s.Save(loaded[:1]))
	_, err = os.Stat(broken)
	assert.NoError(t, err, "broken file was removed")
}

func TestLoadMissingDirectory(t *testing.T) {
	loaded, err := New(filepath.Join(t.TempDir(), "absent"), lgr.NoOp).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestOrderFollowsNumericPrefix(t *testing.T) {
	dir := t.TempDir()
	projects := make([]project.Project, 0, 12)
	for i := range 12 {
		projects = append(projects, project.Project{
			ID:   "id-" + strings.Repeat("x", i+1),
			Name: "Project",
		})
	}
	require.NoError(t, New(dir, lgr.NoOp).Save(projects))

	loaded, err := New(dir, lgr.NoOp).Load()
	require.NoError(t, err)
	require.Len(t, loaded, len(projects))
	for i := range projects {
		assert.Equal(t, projects[i].ID, loaded[i].ID, "position %d", i)
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"Website Relaunch":          "website-relaunch",
		"  Q3 / Budget!! ":          "q3-budget",
		"???":                       "project",
		strings.Repeat("word ", 20): "word-word-word-word-word-word-word-word-word-word",
	}
	for in, want := range tests {
		assert.Equal(t, want, generateSlug(in), "generateSlug(%q)", in)
	}
	assert.Equal(t, "1234-x.md", generateFilename(1234, "x"))
}
