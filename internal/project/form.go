package project

import (
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
)

// ProjectForm carries the caller-supplied fields of a new project.
type ProjectForm struct {
	Name        string
	Description string
	Owner       string
	Priority    Priority
	Category    string
	StartDate   date.Date
	DueDate     date.Date
}

// ProjectPatch carries a subset of editable project fields. Nil fields are
// left untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Owner       *string
	Priority    *Priority
	Category    *string
	StartDate   *date.Date
	DueDate     *date.Date
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Owner == nil &&
		p.Priority == nil && p.Category == nil && p.StartDate == nil && p.DueDate == nil
}

// Apply merges the patch into proj.
func (p ProjectPatch) Apply(proj *Project) {
	if p.Name != nil {
		proj.Name = *p.Name
	}
	if p.Description != nil {
		proj.Description = *p.Description
	}
	if p.Owner != nil {
		proj.Owner = *p.Owner
	}
	if p.Priority != nil {
		proj.Priority = *p.Priority
	}
	if p.Category != nil {
		proj.Category = *p.Category
	}
	if p.StartDate != nil {
		proj.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		proj.DueDate = *p.DueDate
	}
}

// TaskForm carries the caller-supplied fields of a new task.
type TaskForm struct {
	Name        string
	Description string
	DueDate     date.Date
}

// TaskPatch carries a subset of editable task fields. Status is changed
// only through a status transition, never through a patch.
type TaskPatch struct {
	Name        *string
	Description *string
	DueDate     *date.Date
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}
