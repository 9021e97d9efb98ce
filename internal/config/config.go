package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tracker found (run 'projtrack init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the tracker configuration.
type Config struct {
	Version    int            `yaml:"version"`
	Name       string         `yaml:"name"`
	Storage    StorageConfig  `yaml:"storage"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	Categories []string       `yaml:"categories"`
	TUI        TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the tracker directory (not serialized).
	dir string `yaml:"-"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is relative to the tracker directory unless absolute. Empty
	// means the backend's default location.
	Path string `yaml:"path,omitempty"`
}

// DefaultsConfig holds default values for new projects.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
	Category string `yaml:"category,omitempty"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	ShowProgress *bool `yaml:"show_progress,omitempty"`
}

// Dir returns the absolute path to the tracker directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the tracker directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LockPath returns the absolute path of the tracker lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.dir, LockFileName)
}

// StoragePath returns the absolute location of the configured backend.
func (c *Config) StoragePath() string {
	p := c.Storage.Path
	if p == "" {
		p = DefaultStoragePaths[c.Storage.Backend]
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ShowProgress reports whether TUI cards draw a progress bar. Defaults to true.
func (c *Config) ShowProgress() bool {
	if c.TUI.ShowProgress == nil {
		return true
	}
	return *c.TUI.ShowProgress
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	if name == "" {
		name = DefaultName
	}
	return &Config{
		Version:    CurrentVersion,
		Name:       name,
		Storage:    StorageConfig{Backend: DefaultBackend},
		Categories: append([]string{}, DefaultCategories...),
		Defaults: DefaultsConfig{
			Priority: DefaultPriority,
			Category: DefaultCategory,
		},
		TUI: TUIConfig{ShowProgress: boolPtr(true)},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !slices.Contains(store.Backends(), c.Storage.Backend) {
		return fmt.Errorf("%w: unknown storage.backend %q (allowed: %v)", ErrInvalid, c.Storage.Backend, store.Backends())
	}
	if _, err := project.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: default priority %q is not a priority", ErrInvalid, c.Defaults.Priority)
	}
	if hasDuplicates(c.Categories) {
		return fmt.Errorf("%w: categories contain duplicates", ErrInvalid)
	}
	if slices.Contains(c.Categories, "") {
		return fmt.Errorf("%w: categories must not be empty", ErrInvalid)
	}
	if c.Defaults.Category != "" && len(c.Categories) > 0 && !slices.Contains(c.Categories, c.Defaults.Category) {
		return fmt.Errorf("%w: default category %q not in categories list", ErrInvalid, c.Defaults.Category)
	}
	return nil
}

// Init creates a new tracker in dir with default settings.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating tracker directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given tracker directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(absDir, ConfigFileName)) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a tracker directory
// containing config.yml. Returns the absolute path to the tracker directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Inside the tracker directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.TrackerNotFound, ErrNotFound.Error()).WithCause(ErrNotFound)
		}
		dir = parent
	}
}

// UserDir returns the per-user tracker directory used when no tracker is
// found above the working directory.
func UserDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, userDirName), nil
}

// LoadOrInit loads the tracker in dir, creating it with defaults when it
// does not exist yet.
func LoadOrInit(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrNotFound) {
		return Init(dir, "")
	}
	return cfg, err
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
