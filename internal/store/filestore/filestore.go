// Package filestore persists projects as markdown files, one per project,
// with the project's fields and tasks in YAML frontmatter.
package filestore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-pkgz/lgr"

	"github.com/twiced-technology-gmbh/projtrack/internal/filelock"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
)

const (
	dirMode      = 0o750
	lockFileName = ".lock"
)

// Store keeps projects in a directory of markdown files.
type Store struct {
	dir      string
	log      lgr.L
	warnings []store.Warning
	// skipped holds files that failed to parse on the last load. They are
	// never removed by Save so a hand-edit gone wrong can be repaired.
	skipped map[string]bool
}

// New creates a store rooted at dir. The directory is created on first save.
func New(dir string, log lgr.L) *Store {
	return &Store{dir: dir, log: log, skipped: map[string]bool{}}
}

// Location returns the projects directory.
func (s *Store) Location() string { return s.dir }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Warnings returns the files skipped by the last Load.
func (s *Store) Warnings() []store.Warning { return s.warnings }

type entry struct {
	name     string
	position int
}

// Load reads every project file. Malformed files are skipped and reported
// through Warnings instead of failing the load.
func (s *Store) Load() ([]project.Project, error) {
	s.warnings = nil
	s.skipped = map[string]bool{}

	entries, err := s.projectFiles()
	if err != nil {
		return nil, err
	}

	projects := make([]project.Project, 0, len(entries))
	for _, e := range entries {
		p, readErr := readProject(filepath.Join(s.dir, e.name))
		if readErr != nil {
			s.warnings = append(s.warnings, store.Warning{Source: e.name, Err: readErr})
			s.skipped[e.name] = true
			s.log.Logf("[WARN] skipping %s: %v", e.name, readErr)
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// projectFiles lists the markdown files in the store in collection order.
func (s *Store) projectFiles() ([]entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}

	var entries []entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".md" {
			continue
		}
		pos, posErr := positionFromFilename(de.Name())
		if posErr != nil {
			pos = int(^uint(0) >> 1)
		}
		entries = append(entries, entry{name: de.Name(), position: pos})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].position != entries[j].position {
			return entries[i].position < entries[j].position
		}
		return entries[i].name < entries[j].name
	})
	return entries, nil
}

// Save writes one file per project and removes files of projects that no
// longer exist. Unchanged files are left alone so file watchers stay quiet.
func (s *Store) Save(projects []project.Project) error {
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("creating projects directory: %w", err)
	}
	unlock, err := filelock.Lock(filepath.Join(s.dir, lockFileName))
	if err != nil {
		return fmt.Errorf("locking projects directory: %w", err)
	}
	defer func() { _ = unlock() }()

	wanted := make(map[string]bool, len(projects))
	for i, p := range projects {
		name := generateFilename(i+1, generateSlug(p.Name))
		wanted[name] = true

		data, encErr := encodeProject(p)
		if encErr != nil {
			return fmt.Errorf("encoding project %s: %w", p.ID, encErr)
		}
		path := filepath.Join(s.dir, name)
		if existing, readErr := os.ReadFile(path); readErr == nil && bytes.Equal(existing, data) { //nolint:gosec // trusted path
			continue
		}
		if writeErr := os.WriteFile(path, data, fileMode); writeErr != nil {
			return fmt.Errorf("writing %s: %w", name, writeErr)
		}
	}

	existing, err := s.projectFiles()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if wanted[e.name] || s.skipped[e.name] {
			continue
		}
		if rmErr := os.Remove(filepath.Join(s.dir, e.name)); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("removing stale %s: %w", e.name, rmErr)
		}
	}
	return nil
}
