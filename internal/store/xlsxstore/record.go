package xlsxstore

import (
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func cellDate(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func optionalCellDate(d *date.Date) string {
	if d == nil {
		return ""
	}
	return cellDate(*d)
}

// parseCellDate accepts YYYY-MM-DD or a full ISO timestamp, keeping only
// the calendar date.
func parseCellDate(field, s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return date.Date{}, nil
	}
	if len(s) > len("2006-01-02") {
		s = s[:len("2006-01-02")]
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseOptionalCellDate(field, s string) (*date.Date, error) {
	d, err := parseCellDate(field, s)
	if err != nil || d.IsZero() {
		return nil, err
	}
	return &d, nil
}

func projectRecord(p project.Project) []any {
	return []any{
		p.ID, p.Name, p.Description, string(p.Status), string(p.Priority), p.Category, p.Owner,
		cellDate(p.StartDate), cellDate(p.DueDate), optionalCellDate(p.CompletedDate),
		cellDate(p.CreatedAt), cellDate(p.UpdatedAt),
	}
}

func taskRecord(t project.Task) []any {
	return []any{
		t.ID, t.ProjectID, t.Name, t.Description, string(t.Status),
		cellDate(t.DueDate), optionalCellDate(t.CompletedDate),
		cellDate(t.CreatedAt), cellDate(t.UpdatedAt),
	}
}

func projectFromRecord(rec map[string]string) (project.Project, error) {
	p := project.Project{
		ID:          rec["id"],
		Name:        rec["name"],
		Description: rec["description"],
		Status:      project.Status(rec["status"]),
		Priority:    project.Priority(rec["priority"]),
		Category:    rec["category"],
		Owner:       rec["owner"],
		Tasks:       []project.Task{},
	}
	if p.ID == "" {
		return p, fmt.Errorf("missing id")
	}
	var err error
	if p.StartDate, err = parseCellDate("startDate", rec["startDate"]); err != nil {
		return p, err
	}
	if p.DueDate, err = parseCellDate("dueDate", rec["dueDate"]); err != nil {
		return p, err
	}
	if p.CompletedDate, err = parseOptionalCellDate("completedDate", rec["completedDate"]); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseCellDate("createdAt", rec["createdAt"]); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseCellDate("updatedAt", rec["updatedAt"]); err != nil {
		return p, err
	}
	return p, nil
}

func taskFromRecord(rec map[string]string) (project.Task, error) {
	t := project.Task{
		ID:          rec["id"],
		ProjectID:   rec["projectId"],
		Name:        rec["name"],
		Description: rec["description"],
		Status:      project.Status(rec["status"]),
	}
	if t.ID == "" {
		return t, fmt.Errorf("missing id")
	}
	var err error
	if t.DueDate, err = parseCellDate("dueDate", rec["dueDate"]); err != nil {
		return t, err
	}
	if t.CompletedDate, err = parseOptionalCellDate("completedDate", rec["completedDate"]); err != nil {
		return t, err
	}
	if t.CreatedAt, err = parseCellDate("createdAt", rec["createdAt"]); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseCellDate("updatedAt", rec["updatedAt"]); err != nil {
		return t, err
	}
	return t, nil
}
