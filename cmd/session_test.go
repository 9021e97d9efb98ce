package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/config"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
	"github.com/twiced-technology-gmbh/projtrack/internal/store/filestore"
)

// setupTracker initialises a tracker in a temp dir and points the
// command globals at it.
func setupTracker(t *testing.T) *config.Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), config.DefaultDir)
	cfg, err := config.Init(dir, "Test")
	require.NoError(t, err)

	prevDir, prevLogger := flagDir, logger
	flagDir, logger = dir, lgr.NoOp
	t.Cleanup(func() { flagDir, logger = prevDir, prevLogger })
	return cfg
}

func writeDuplicateProjects(t *testing.T, cfg *config.Config) {
	t.Helper()
	dup := []project.Project{
		{ID: "dup", Name: "Alpha", Status: project.StatusTodo, Tasks: []project.Task{}},
		{ID: "dup", Name: "Beta", Status: project.StatusTodo, Tasks: []project.Task{}},
	}
	require.NoError(t, filestore.New(cfg.StoragePath(), lgr.NoOp).Save(dup))
}

func TestSessionFallsBackOnUnusableData(t *testing.T) {
	cfg := setupTracker(t)
	writeDuplicateProjects(t, cfg)

	s, err := openSession(false)
	require.NoError(t, err, "read-only commands still run")
	defer s.close()

	assert.Empty(t, s.engine.Snapshot())
	require.ErrorIs(t, s.store.Save(nil), store.ErrUnreadable)
}

func TestSessionDoesNotOverwriteUnusableData(t *testing.T) {
	cfg := setupTracker(t)
	writeDuplicateProjects(t, cfg)

	s, err := openSession(true)
	require.NoError(t, err)
	_, err = s.engine.CreateProject(project.ProjectForm{
		Name: "Gamma", Description: "New", Owner: "Ada", Priority: project.PriorityLow,
		StartDate: date.New(2026, 1, 1), DueDate: date.New(2026, 2, 1),
	})
	require.NoError(t, err, "the in-memory mutation stands")
	require.ErrorIs(t, s.saveErr, store.ErrUnreadable)
	assert.False(t, s.saved)
	require.NoError(t, s.close())

	onDisk, err := filestore.New(cfg.StoragePath(), lgr.NoOp).Load()
	require.NoError(t, err)
	require.Len(t, onDisk, 2)
	assert.Equal(t, "Alpha", onDisk[0].Name)
	assert.Equal(t, "Beta", onDisk[1].Name)
}

func TestBoardStoreStaysQuiet(t *testing.T) {
	cfg := setupTracker(t)
	var buf bytes.Buffer
	logger = lgr.New(lgr.Out(&buf), lgr.Err(&buf))

	dir := cfg.StoragePath()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001-broken.md"), []byte("no frontmatter"), 0o600))

	g, err := openBoardStore(cfg)
	require.NoError(t, err)
	_, err = g.Load()
	require.NoError(t, err)
	assert.Len(t, g.Warnings(), 1, "the warning still reaches the board")
	assert.Empty(t, buf.String(), "nothing written over the alt screen")

	// The CLI backend does report it.
	cli, err := openStore(cfg, logger)
	require.NoError(t, err)
	_, err = cli.Load()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "skipping 001-broken.md")
}
