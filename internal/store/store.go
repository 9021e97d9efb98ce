// Package store defines how project collections are persisted.
package store

import (
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Backend names accepted in configuration.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
	BackendXLSX   = "xlsx"
)

// Backends lists every supported backend name.
func Backends() []string {
	return []string{BackendFiles, BackendSQLite, BackendXLSX}
}

// ErrUnreadable is returned by Guard.Save when the previous Load failed.
var ErrUnreadable = errors.New("store could not be read")

// Store loads and saves the complete project collection.
type Store interface {
	Load() ([]project.Project, error)
	Save(projects []project.Project) error
	// Location describes where the data lives, for display.
	Location() string
	Close() error
}

// Warning describes a record skipped while loading.
type Warning struct {
	Source string
	Err    error
}

// WarningSource is implemented by stores that load leniently.
type WarningSource interface {
	Warnings() []Warning
}

// Guard wraps a Store so that nothing is saved over data that could not be
// read. A failed Load yields an empty collection and blocks later saves.
type Guard struct {
	Store
	log    lgr.L
	loaded bool
}

// NewGuard wraps s.
func NewGuard(s Store, log lgr.L) *Guard {
	return &Guard{Store: s, log: log}
}

// Load reads the collection. On failure it returns an empty collection
// together with the error.
func (g *Guard) Load() ([]project.Project, error) {
	projects, err := g.Store.Load()
	g.loaded = err == nil
	if err != nil {
		g.log.Logf("[WARN] loading %s failed, starting empty: %v", g.Location(), err)
		return []project.Project{}, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	g.log.Logf("[DEBUG] loaded %d projects from %s", len(projects), g.Location())
	return projects, nil
}

// Reject marks data that loaded but cannot be used. Saves stay blocked
// until the next successful Load.
func (g *Guard) Reject(err error) {
	g.loaded = false
	g.log.Logf("[WARN] %s holds unusable data: %v", g.Location(), err)
}

// Save writes the collection unless the last Load failed or was rejected.
func (g *Guard) Save(projects []project.Project) error {
	if !g.loaded {
		return fmt.Errorf("%w: refusing to overwrite %s", ErrUnreadable, g.Location())
	}
	if err := g.Store.Save(projects); err != nil {
		return fmt.Errorf("saving to %s: %w", g.Location(), err)
	}
	g.log.Logf("[DEBUG] saved %d projects to %s", len(projects), g.Location())
	return nil
}

// Warnings forwards the wrapped store's load warnings, if it has any.
func (g *Guard) Warnings() []Warning {
	if ws, ok := g.Store.(WarningSource); ok {
		return ws.Warnings()
	}
	return nil
}
