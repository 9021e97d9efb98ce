package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// setupTestStore creates a store over an in-memory SQLite database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s, err := New(db, ":memory:", lgr.NoOp)
	require.NoError(t, err, "failed to create store")
	return s
}

func sampleProjects() []project.Project {
	done := date.New(2024, 1, 8)
	return []project.Project{
		{
			ID: "p-2", Name: "Website", Description: "Rebuild", Owner: "Dana",
			Priority: project.PriorityHigh, Category: "Design", Status: project.StatusCompleted,
			StartDate: date.New(2024, 1, 1), DueDate: date.New(2024, 3, 1), CompletedDate: &done,
			CreatedAt: date.New(2024, 1, 1), UpdatedAt: done,
			Tasks: []project.Task{
				{ID: "t-b", ProjectID: "p-2", Name: "Second", Status: project.StatusCompleted,
					DueDate: date.New(2024, 1, 9), CompletedDate: &done, CreatedAt: done, UpdatedAt: done},
				{ID: "t-a", ProjectID: "p-2", Name: "First", Status: project.StatusCompleted,
					DueDate: date.New(2024, 1, 7), CompletedDate: &done, CreatedAt: done, UpdatedAt: done},
			},
		},
		{
			ID: "p-1", Name: "Audit", Description: "Yearly", Owner: "Lee",
			Priority: project.PriorityLow, Status: project.StatusTodo,
			StartDate: date.New(2024, 2, 1), DueDate: date.New(2024, 2, 28),
			CreatedAt: date.New(2024, 1, 3), UpdatedAt: date.New(2024, 1, 3),
			Tasks: []project.Task{},
		},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.Save(sampleProjects()))
	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, []string{"p-2", "p-1"}, []string{loaded[0].ID, loaded[1].ID}, "stored order")
	p := loaded[0]
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, []string{"t-b", "t-a"}, []string{p.Tasks[0].ID, p.Tasks[1].ID}, "task order")
	require.NotNil(t, p.CompletedDate, "completed date lost")
	assert.True(t, p.CompletedDate.Equal(date.New(2024, 1, 8)))
	assert.Nil(t, loaded[1].CompletedDate)
	assert.NotNil(t, loaded[1].Tasks)
}

func TestStore_SaveReplaces(t *testing.T) {
	s := setupTestStore(t)
	projects := sampleProjects()
	require.NoError(t, s.Save(projects))

	projects[0].Tasks = projects[0].Tasks[:1]
	require.NoError(t, s.Save(projects[:1]))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Len(t, loaded[0].Tasks, 1)

	require.NoError(t, s.Save(nil))
	loaded, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	s, err := Open(path, lgr.NoOp)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleProjects()))
	require.NoError(t, s.Close())

	reopened, err := Open(path, lgr.NoOp)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, path, reopened.Location())
}
