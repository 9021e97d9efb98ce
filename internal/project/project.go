// Package project defines the project and task records tracked by projtrack.
package project

import (
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
)

// Status is the workflow stage of a project or task.
type Status string

// Workflow stages, in board order.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Priority ranks projects.
type Priority string

// Priorities from most to least urgent.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Task is a unit of work owned by exactly one project.
type Task struct {
	ID            string     `yaml:"id" json:"id"`
	ProjectID     string     `yaml:"project_id" json:"project_id"`
	Name          string     `yaml:"name" json:"name"`
	Description   string     `yaml:"description,omitempty" json:"description"`
	Status        Status     `yaml:"status" json:"status"`
	DueDate       date.Date  `yaml:"due_date" json:"due_date"`
	CompletedDate *date.Date `yaml:"completed_date,omitempty" json:"completed_date,omitempty"`
	CreatedAt     date.Date  `yaml:"created_at" json:"created_at"`
	UpdatedAt     date.Date  `yaml:"updated_at" json:"updated_at"`
}

// Project is a named container of tasks with a derived workflow status.
type Project struct {
	ID            string     `yaml:"id" json:"id"`
	Name          string     `yaml:"name" json:"name"`
	Owner         string     `yaml:"owner" json:"owner"`
	Priority      Priority   `yaml:"priority" json:"priority"`
	Category      string     `yaml:"category,omitempty" json:"category"`
	Status        Status     `yaml:"status" json:"status"`
	StartDate     date.Date  `yaml:"start_date" json:"start_date"`
	DueDate       date.Date  `yaml:"due_date" json:"due_date"`
	CompletedDate *date.Date `yaml:"completed_date,omitempty" json:"completed_date,omitempty"`
	CreatedAt     date.Date  `yaml:"created_at" json:"created_at"`
	UpdatedAt     date.Date  `yaml:"updated_at" json:"updated_at"`
	Tasks         []Task     `yaml:"tasks" json:"tasks"`

	// Description is free-form markdown. File storage keeps it in the
	// document body rather than the frontmatter.
	Description string `yaml:"-" json:"description"`
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// IsCompleted reports whether the project is done.
func (p Project) IsCompleted() bool { return p.Status == StatusCompleted }

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	if t.CompletedDate != nil {
		t.CompletedDate = t.CompletedDate.Ptr()
	}
	return t
}

// Clone returns a deep copy of p, including its tasks.
func (p Project) Clone() Project {
	if p.CompletedDate != nil {
		p.CompletedDate = p.CompletedDate.Ptr()
	}
	tasks := make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = t.Clone()
	}
	p.Tasks = tasks
	return p
}

// CloneAll deep-copies a project collection.
func CloneAll(projects []Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (p Project) TaskIndex(taskID string) int {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
