// Package settings holds the user's display profile. It is independent of
// the project data and persisted separately.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
)

// FileName is the settings file inside the tracker directory.
const FileName = "settings.yml"

const fileMode = 0o600

// Settings is the user's display profile.
type Settings struct {
	UserName     string `yaml:"user_name" json:"user_name"`
	UserInitials string `yaml:"user_initials" json:"user_initials"`
}

// Patch carries the fields to change. Nil fields are left untouched.
type Patch struct {
	UserName     *string
	UserInitials *string
}

// Apply returns s with the patch applied. Changing the name without giving
// initials regenerates the initials from the new name.
func (s Settings) Apply(p Patch) Settings {
	if p.UserName != nil {
		s.UserName = *p.UserName
		if p.UserInitials == nil {
			s.UserInitials = GenerateInitials(*p.UserName)
		}
	}
	if p.UserInitials != nil {
		s.UserInitials = *p.UserInitials
	}
	return s
}

// GenerateInitials derives initials from a name: the first two letters of
// a single word, otherwise the first letters of the first and last words.
func GenerateInitials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRunes(parts[0], 2))
	default:
		return strings.ToUpper(firstRunes(parts[0], 1) + firstRunes(parts[len(parts)-1], 1))
	}
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Store loads and saves settings.
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps settings in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the settings file in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the settings file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the settings file. A missing file yields empty settings.
func (f *FileStore) Load() (Settings, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// Save writes the settings file.
func (f *FileStore) Save(s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(f.path, data, fileMode); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
