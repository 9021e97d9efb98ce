// Package sqlstore persists projects in a SQLite database through gorm.
package sqlstore

import (
	"fmt"

	"github.com/go-pkgz/lgr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Store keeps projects in the projects and tasks tables.
type Store struct {
	db   *gorm.DB
	path string
	log  lgr.L
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string, log lgr.L) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db, path, log)
}

// New wraps an open database connection.
func New(db *gorm.DB, path string, log lgr.L) (*Store, error) {
	if err := db.AutoMigrate(&projectRow{}, &taskRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db, path: path, log: log}, nil
}

// Location returns the database path.
func (s *Store) Location() string { return s.path }

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Load reads every project with its tasks, in stored order.
func (s *Store) Load() ([]project.Project, error) {
	var projectRows []projectRow
	if err := s.db.Order("position").Find(&projectRows).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	var taskRows []taskRow
	if err := s.db.Order("project_id, position").Find(&taskRows).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	tasksByProject := make(map[string][]project.Task, len(projectRows))
	for _, r := range taskRows {
		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		tasksByProject[r.ProjectID] = append(tasksByProject[r.ProjectID], t)
	}

	projects := make([]project.Project, 0, len(projectRows))
	for _, r := range projectRows {
		p, err := r.toProject()
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", r.ID, err)
		}
		if tasks, ok := tasksByProject[p.ID]; ok {
			p.Tasks = tasks
			delete(tasksByProject, p.ID)
		}
		projects = append(projects, p)
	}
	for id, orphans := range tasksByProject {
		s.log.Logf("[WARN] ignoring %d tasks of unknown project %s", len(orphans), id)
	}
	return projects, nil
}

// Save replaces both tables with the given collection in one transaction.
func (s *Store) Save(projects []project.Project) error {
	projectRows := make([]projectRow, 0, len(projects))
	var taskRows []taskRow
	for i, p := range projects {
		projectRows = append(projectRows, toProjectRow(p, i))
		for j, t := range p.Tasks {
			taskRows = append(taskRows, toTaskRow(t, j))
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&taskRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&projectRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		if len(projectRows) > 0 {
			if err := tx.Create(&projectRows).Error; err != nil {
				return fmt.Errorf("failed to create projects: %w", err)
			}
		}
		if len(taskRows) > 0 {
			if err := tx.Create(&taskRows).Error; err != nil {
				return fmt.Errorf("failed to create tasks: %w", err)
			}
		}
		return nil
	})
}
