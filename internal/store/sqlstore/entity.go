package sqlstore

import (
	"fmt"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// projectRow is the projects table. Dates are stored as YYYY-MM-DD text;
// the timestamp columns are named so gorm does not manage them.
type projectRow struct {
	ID            string `gorm:"primarykey;size:36"`
	Position      int    `gorm:"not null;index"`
	Name          string `gorm:"size:200;not null"`
	Description   string
	Owner         string `gorm:"size:100;not null"`
	Priority      string `gorm:"size:10;not null"`
	Category      string `gorm:"size:100"`
	Status        string `gorm:"size:20;not null"`
	StartDate     string `gorm:"size:10"`
	DueDate       string `gorm:"size:10"`
	CompletedDate string `gorm:"size:10"`
	CreatedOn     string `gorm:"column:created_at;size:10"`
	UpdatedOn     string `gorm:"column:updated_at;size:10"`
}

// TableName returns the table name for projectRow.
func (projectRow) TableName() string {
	return "projects"
}

// taskRow is the tasks table.
type taskRow struct {
	ID            string `gorm:"primarykey;size:36"`
	ProjectID     string `gorm:"size:36;not null;index"`
	Position      int    `gorm:"not null"`
	Name          string `gorm:"size:200;not null"`
	Description   string
	Status        string `gorm:"size:20;not null"`
	DueDate       string `gorm:"size:10"`
	CompletedDate string `gorm:"size:10"`
	CreatedOn     string `gorm:"column:created_at;size:10"`
	UpdatedOn     string `gorm:"column:updated_at;size:10"`
}

// TableName returns the table name for taskRow.
func (taskRow) TableName() string {
	return "tasks"
}

func formatDate(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func formatOptionalDate(d *date.Date) string {
	if d == nil {
		return ""
	}
	return formatDate(*d)
}

func parseDate(field, s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (*date.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toProjectRow(p project.Project, position int) projectRow {
	return projectRow{
		ID:            p.ID,
		Position:      position,
		Name:          p.Name,
		Description:   p.Description,
		Owner:         p.Owner,
		Priority:      string(p.Priority),
		Category:      p.Category,
		Status:        string(p.Status),
		StartDate:     formatDate(p.StartDate),
		DueDate:       formatDate(p.DueDate),
		CompletedDate: formatOptionalDate(p.CompletedDate),
		CreatedOn:     formatDate(p.CreatedAt),
		UpdatedOn:     formatDate(p.UpdatedAt),
	}
}

func toTaskRow(t project.Task, position int) taskRow {
	return taskRow{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Position:      position,
		Name:          t.Name,
		Description:   t.Description,
		Status:        string(t.Status),
		DueDate:       formatDate(t.DueDate),
		CompletedDate: formatOptionalDate(t.CompletedDate),
		CreatedOn:     formatDate(t.CreatedAt),
		UpdatedOn:     formatDate(t.UpdatedAt),
	}
}

func (r projectRow) toProject() (project.Project, error) {
	p := project.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Owner:       r.Owner,
		Priority:    project.Priority(r.Priority),
		Category:    r.Category,
		Status:      project.Status(r.Status),
		Tasks:       []project.Task{},
	}
	var err error
	if p.StartDate, err = parseDate("start_date", r.StartDate); err != nil {
		return p, err
	}
	if p.DueDate, err = parseDate("due_date", r.DueDate); err != nil {
		return p, err
	}
	if p.CompletedDate, err = parseOptionalDate("completed_date", r.CompletedDate); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseDate("created_at", r.CreatedOn); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseDate("updated_at", r.UpdatedOn); err != nil {
		return p, err
	}
	return p, nil
}

func (r taskRow) toTask() (project.Task, error) {
	t := project.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Description: r.Description,
		Status:      project.Status(r.Status),
	}
	var err error
	if t.DueDate, err = parseDate("due_date", r.DueDate); err != nil {
		return t, err
	}
	if t.CompletedDate, err = parseOptionalDate("completed_date", r.CompletedDate); err != nil {
		return t, err
	}
	if t.CreatedAt, err = parseDate("created_at", r.CreatedOn); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseDate("updated_at", r.UpdatedOn); err != nil {
		return t, err
	}
	return t, nil
}
