// Package config handles tracker directory discovery and configuration.
package config

import "github.com/twiced-technology-gmbh/projtrack/internal/store"

const (
	// DefaultDir is the tracker directory name looked up from the working directory.
	DefaultDir = "tracker"
	// DefaultName is the tracker name used when none is given.
	DefaultName = "Projects"
	// DefaultBackend is the storage backend of a new tracker.
	DefaultBackend = store.BackendFiles
	// DefaultPriority is the priority preselected for new projects.
	DefaultPriority = "medium"
	// DefaultCategory is the category preselected for new projects.
	DefaultCategory = "Development"

	// ConfigFileName is the name of the config file within the tracker directory.
	ConfigFileName = "config.yml"
	// LockFileName guards read-modify-write cycles on the tracker directory.
	LockFileName = ".lock"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3

	// userDirName is the fallback tracker location under the user config dir.
	userDirName = "projtrack"
)

// DefaultStoragePaths maps each backend to its default location, relative
// to the tracker directory.
var DefaultStoragePaths = map[string]string{
	store.BackendFiles:  "projects",
	store.BackendSQLite: "projtrack.db",
	store.BackendXLSX:   "projects.xlsx",
}

// DefaultCategories are offered when creating projects.
var DefaultCategories = []string{
	"Development",
	"Design",
	"Marketing",
	"Research",
	"Operations",
	"Infrastructure",
}

func boolPtr(v bool) *bool { return &v }
