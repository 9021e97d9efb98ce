package tracker

import (
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Op names an engine operation.
type Op string

// Engine operations.
const (
	OpCreateProject    Op = "create_project"
	OpUpdateProject    Op = "update_project"
	OpDeleteProject    Op = "delete_project"
	OpSetProjectStatus Op = "set_project_status"
	OpCreateTask       Op = "create_task"
	OpUpdateTask       Op = "update_task"
	OpSetTaskStatus    Op = "set_task_status"
	OpDeleteTask       Op = "delete_task"
)

// Command is one of the engine's mutations. The set is closed: only the
// command types in this package implement it.
type Command interface {
	op() Op
	apply(tx *txn) (Result, error)
}

// CreateProject appends a new, empty project.
type CreateProject struct {
	Form project.ProjectForm
}

// UpdateProject merges editable fields into an existing project.
type UpdateProject struct {
	ID    string
	Patch project.ProjectPatch
}

// DeleteProject removes a project together with its tasks.
type DeleteProject struct {
	ID string
}

// SetProjectStatus overrides a project's derived status until the next
// task mutation recomputes it.
type SetProjectStatus struct {
	ID     string
	Status project.Status
}

// CreateTask appends a new task to a project.
type CreateTask struct {
	ProjectID string
	Form      project.TaskForm
}

// UpdateTask merges editable fields into a task. It never changes status.
type UpdateTask struct {
	ProjectID string
	TaskID    string
	Patch     project.TaskPatch
}

// SetTaskStatus moves a task to another workflow stage.
type SetTaskStatus struct {
	ProjectID string
	TaskID    string
	Status    project.Status
}

// DeleteTask removes a task from its project.
type DeleteTask struct {
	ProjectID string
	TaskID    string
}

func (CreateProject) op() Op    { return OpCreateProject }
func (UpdateProject) op() Op    { return OpUpdateProject }
func (DeleteProject) op() Op    { return OpDeleteProject }
func (SetProjectStatus) op() Op { return OpSetProjectStatus }
func (CreateTask) op() Op       { return OpCreateTask }
func (UpdateTask) op() Op       { return OpUpdateTask }
func (SetTaskStatus) op() Op    { return OpSetTaskStatus }
func (DeleteTask) op() Op       { return OpDeleteTask }

// txn is the working copy a command mutates. It is discarded when the
// command fails.
type txn struct {
	projects []project.Project
	today    date.Date
	newID    func() (string, error)
}

func (tx *txn) project(id string) (*project.Project, error) {
	for i := range tx.projects {
		if tx.projects[i].ID == id {
			return &tx.projects[i], nil
		}
	}
	return nil, projectNotFound(id)
}

func (tx *txn) task(projectID, taskID string) (*project.Project, *project.Task, error) {
	p, err := tx.project(projectID)
	if err != nil {
		return nil, nil, err
	}
	idx := p.TaskIndex(taskID)
	if idx < 0 {
		return nil, nil, taskNotFound(projectID, taskID)
	}
	return p, &p.Tasks[idx], nil
}

func (c CreateProject) apply(tx *txn) (Result, error) {
	if err := c.Form.Validate(); err != nil {
		return Result{}, err
	}
	id, err := tx.newID()
	if err != nil {
		return Result{}, err
	}
	tx.projects = append(tx.projects, project.Project{
		ID:          id,
		Name:        c.Form.Name,
		Description: c.Form.Description,
		Owner:       c.Form.Owner,
		Priority:    c.Form.Priority,
		Category:    c.Form.Category,
		Status:      project.StatusTodo,
		StartDate:   c.Form.StartDate,
		DueDate:     c.Form.DueDate,
		CreatedAt:   tx.today,
		UpdatedAt:   tx.today,
		Tasks:       []project.Task{},
	})
	return Result{ProjectID: id, Detail: c.Form.Name}, nil
}

func (c UpdateProject) apply(tx *txn) (Result, error) {
	p, err := tx.project(c.ID)
	if err != nil {
		return Result{}, err
	}
	if err := c.Patch.Validate(); err != nil {
		return Result{}, err
	}
	c.Patch.Apply(p)
	p.UpdatedAt = tx.today
	return Result{ProjectID: p.ID, Detail: strings.Join(projectPatchFields(c.Patch), ", ")}, nil
}

func (c DeleteProject) apply(tx *txn) (Result, error) {
	for i, p := range tx.projects {
		if p.ID != c.ID {
			continue
		}
		tx.projects = append(tx.projects[:i], tx.projects[i+1:]...)
		detail := p.Name
		if n := len(p.Tasks); n > 0 {
			detail = fmt.Sprintf("%s (%d tasks)", p.Name, n)
		}
		return Result{ProjectID: p.ID, Detail: detail}, nil
	}
	return Result{}, projectNotFound(c.ID)
}

func (c SetProjectStatus) apply(tx *txn) (Result, error) {
	if err := project.ValidateStatus(c.Status); err != nil {
		return Result{}, err
	}
	p, err := tx.project(c.ID)
	if err != nil {
		return Result{}, err
	}
	old := p.Status
	p.Status = c.Status
	p.CompletedDate = nil
	if c.Status == project.StatusCompleted {
		p.CompletedDate = tx.today.Ptr()
	}
	p.UpdatedAt = tx.today
	return Result{ProjectID: p.ID, Detail: transition(old, c.Status)}, nil
}

func (c CreateTask) apply(tx *txn) (Result, error) {
	p, err := tx.project(c.ProjectID)
	if err != nil {
		return Result{}, err
	}
	if err := c.Form.Validate(); err != nil {
		return Result{}, err
	}
	id, err := tx.newID()
	if err != nil {
		return Result{}, err
	}
	p.Tasks = append(p.Tasks, project.Task{
		ID:          id,
		ProjectID:   p.ID,
		Name:        c.Form.Name,
		Description: c.Form.Description,
		Status:      project.StatusTodo,
		DueDate:     c.Form.DueDate,
		CreatedAt:   tx.today,
		UpdatedAt:   tx.today,
	})
	recompute(p, tx.today)
	return Result{ProjectID: p.ID, TaskID: id, Detail: c.Form.Name}, nil
}

func (c UpdateTask) apply(tx *txn) (Result, error) {
	p, t, err := tx.task(c.ProjectID, c.TaskID)
	if err != nil {
		return Result{}, err
	}
	if err := c.Patch.Validate(); err != nil {
		return Result{}, err
	}
	c.Patch.Apply(t)
	t.UpdatedAt = tx.today
	p.UpdatedAt = tx.today
	return Result{ProjectID: p.ID, TaskID: t.ID, Detail: strings.Join(taskPatchFields(c.Patch), ", ")}, nil
}

func (c SetTaskStatus) apply(tx *txn) (Result, error) {
	if err := project.ValidateStatus(c.Status); err != nil {
		return Result{}, err
	}
	p, t, err := tx.task(c.ProjectID, c.TaskID)
	if err != nil {
		return Result{}, err
	}
	old := t.Status
	switch {
	case c.Status != project.StatusCompleted:
		t.CompletedDate = nil
	case !t.IsCompleted() || t.CompletedDate == nil:
		t.CompletedDate = tx.today.Ptr()
	}
	t.Status = c.Status
	t.UpdatedAt = tx.today
	recompute(p, tx.today)
	return Result{ProjectID: p.ID, TaskID: t.ID, Detail: transition(old, c.Status)}, nil
}

func (c DeleteTask) apply(tx *txn) (Result, error) {
	p, t, err := tx.task(c.ProjectID, c.TaskID)
	if err != nil {
		return Result{}, err
	}
	removed := *t
	idx := p.TaskIndex(removed.ID)
	p.Tasks = append(p.Tasks[:idx], p.Tasks[idx+1:]...)
	recompute(p, tx.today)
	return Result{ProjectID: p.ID, TaskID: removed.ID, Detail: removed.Name}, nil
}

// recompute re-derives a project's status and completion date from its
// tasks after a task mutation, discarding any manual override. A project
// that stays completed keeps its original completion date.
func recompute(p *project.Project, today date.Date) {
	wasCompleted := p.IsCompleted()
	p.Status = board.DeriveStatus(p.Tasks)
	switch {
	case !p.IsCompleted():
		p.CompletedDate = nil
	case !wasCompleted || p.CompletedDate == nil:
		p.CompletedDate = today.Ptr()
	}
	p.UpdatedAt = today
}

func transition(from, to project.Status) string {
	return fmt.Sprintf("%s -> %s", from, to)
}

func projectPatchFields(p project.ProjectPatch) []string {
	var fields []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", p.Name != nil},
		{"description", p.Description != nil},
		{"owner", p.Owner != nil},
		{"priority", p.Priority != nil},
		{"category", p.Category != nil},
		{"start_date", p.StartDate != nil},
		{"due_date", p.DueDate != nil},
	} {
		if f.set {
			fields = append(fields, f.name)
		}
	}
	return fields
}

func taskPatchFields(p project.TaskPatch) []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.DueDate != nil {
		fields = append(fields, "due_date")
	}
	return fields
}
