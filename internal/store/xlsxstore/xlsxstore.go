// Package xlsxstore persists projects in a spreadsheet workbook with a
// Projects sheet, a Tasks sheet, and a key/value Settings sheet.
package xlsxstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
	"github.com/xuri/excelize/v2"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
)

// Sheet names.
const (
	ProjectsSheet = "Projects"
	TasksSheet    = "Tasks"
	SettingsSheet = "Settings"
)

const dirMode = 0o750

type column struct {
	header string
	width  float64
}

var projectColumns = []column{
	{"id", 36}, {"name", 30}, {"description", 50}, {"status", 12},
	{"priority", 10}, {"category", 15}, {"owner", 20}, {"startDate", 12},
	{"dueDate", 12}, {"completedDate", 12}, {"createdAt", 12}, {"updatedAt", 12},
}

var taskColumns = []column{
	{"id", 36}, {"projectId", 36}, {"name", 30}, {"description", 50},
	{"status", 12}, {"dueDate", 12}, {"completedDate", 12}, {"createdAt", 12},
	{"updatedAt", 12},
}

// Store keeps projects in a workbook file.
type Store struct {
	path string
	log  lgr.L
}

// New creates a store for the workbook at path. The file is created on
// first save.
func New(path string, log lgr.L) *Store {
	return &Store{path: path, log: log}
}

// Location returns the workbook path.
func (s *Store) Location() string { return s.path }

// Close is a no-op; the workbook is opened per operation.
func (s *Store) Close() error { return nil }

// Load reads projects and tasks. A missing workbook is an empty collection.
func (s *Store) Load() ([]project.Project, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []project.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	projectRecords, err := readRecords(f, ProjectsSheet)
	if err != nil {
		return nil, err
	}
	taskRecords, err := readRecords(f, TasksSheet)
	if err != nil {
		return nil, err
	}

	tasksByProject := make(map[string][]project.Task)
	for i, rec := range taskRecords {
		t, err := taskFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", TasksSheet, i+2, err)
		}
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], t)
	}

	projects := make([]project.Project, 0, len(projectRecords))
	for i, rec := range projectRecords {
		p, err := projectFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ProjectsSheet, i+2, err)
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

// Save rewrites the Projects and Tasks sheets. An existing Settings sheet
// is carried over.
func (s *Store) Save(projects []project.Project) error {
	prev, err := s.readSettings()
	if err != nil {
		s.log.Logf("[WARN] settings sheet unreadable, not carried over: %v", err)
	}
	return s.write(projects, prev)
}

// Export writes projects (and optional settings) to a new workbook at path.
func Export(path string, projects []project.Project, st *settings.Settings) error {
	return (&Store{path: path, log: lgr.NoOp}).write(projects, st)
}

func (s *Store) write(projects []project.Project, st *settings.Settings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProjectsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	projectRows := make([][]any, 0, len(projects))
	var taskRows [][]any
	for _, p := range projects {
		projectRows = append(projectRows, projectRecord(p))
		for _, t := range p.Tasks {
			taskRows = append(taskRows, taskRecord(t))
		}
	}
	if err := writeSheet(f, ProjectsSheet, projectColumns, projectRows); err != nil {
		return err
	}
	if _, err := f.NewSheet(TasksSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeSheet(f, TasksSheet, taskColumns, taskRows); err != nil {
		return err
	}
	if st != nil {
		if err := writeSettingsSheet(f, *st); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("creating workbook directory: %w", err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, cols []column, rows [][]any) error {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return fmt.Errorf("sizing %s!%s: %w", sheet, name, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// readRecords maps each data row of sheet to a header-keyed record. A
// missing sheet has no records.
func readRecords(f *excelize.File, sheet string) ([]map[string]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		empty := true
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
				if row[i] != "" {
					empty = false
				}
			}
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}
