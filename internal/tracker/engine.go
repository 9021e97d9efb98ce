// Package tracker holds the authoritative project collection and applies
// the closed set of mutations to it. Each successful mutation replaces the
// collection wholesale; a failed one leaves it untouched.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

const maxIDAttempts = 8

// Result describes a successful mutation and carries the snapshot it produced.
type Result struct {
	Op        Op                `json:"op"`
	ProjectID string            `json:"project_id,omitempty"`
	TaskID    string            `json:"task_id,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Snapshot  []project.Project `json:"-"`
}

// Project returns the affected project as it is in the snapshot. The
// second value is false when the project no longer exists.
func (r Result) Project() (project.Project, bool) {
	for _, p := range r.Snapshot {
		if p.ID == r.ProjectID {
			return p, true
		}
	}
	return project.Project{}, false
}

// Task returns the affected task as it is in the snapshot.
func (r Result) Task() (project.Task, bool) {
	p, ok := r.Project()
	if !ok {
		return project.Task{}, false
	}
	if idx := p.TaskIndex(r.TaskID); idx >= 0 {
		return p.Tasks[idx], true
	}
	return project.Task{}, false
}

// Engine owns the project collection. It is safe for concurrent use;
// mutations are applied one at a time.
type Engine struct {
	mu        sync.Mutex
	projects  []project.Project
	usedIDs   map[string]bool
	now       func() time.Time
	newID     func() string
	log       lgr.L
	observers []func(Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for timestamps and completion dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the source of new project and task ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l lgr.L) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver registers fn to receive every successful Result.
func WithObserver(fn func(Result)) Option {
	return func(e *Engine) { e.observers = append(e.observers, fn) }
}

// New creates an engine with an empty collection.
func New(opts ...Option) *Engine {
	e := &Engine{
		projects: []project.Project{},
		usedIDs:  make(map[string]bool),
		now:      time.Now,
		newID:    uuid.NewString,
		log:      lgr.NoOp,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed replaces the collection with projects loaded from storage. Tasks are
// re-parented to the project that holds them and completion dates are
// brought in line with status. Duplicate ids are rejected.
func (e *Engine) Seed(projects []project.Project) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	seeded := project.CloneAll(projects)
	projectIDs := make(map[string]bool, len(seeded))
	taskIDs := make(map[string]bool)
	today := date.FromTime(e.now())

	for i := range seeded {
		p := &seeded[i]
		if projectIDs[p.ID] {
			return duplicateID("project", p.ID)
		}
		projectIDs[p.ID] = true
		if p.Tasks == nil {
			p.Tasks = []project.Task{}
		}
		for j := range p.Tasks {
			t := &p.Tasks[j]
			if taskIDs[t.ID] {
				return duplicateID("task", t.ID)
			}
			taskIDs[t.ID] = true
			if t.ProjectID != p.ID {
				e.log.Logf("[WARN] task %s listed under project %s claims project %q, re-parenting", t.ID, p.ID, t.ProjectID)
				t.ProjectID = p.ID
			}
			if project.ValidateStatus(t.Status) != nil {
				e.log.Logf("[WARN] task %s has unknown status %q, resetting to todo", t.ID, t.Status)
				t.Status = project.StatusTodo
			}
			alignCompletedDate(&t.Status, &t.CompletedDate, t.UpdatedAt, today)
		}
		if project.ValidateStatus(p.Status) != nil {
			e.log.Logf("[WARN] project %s has unknown status %q, deriving from tasks", p.ID, p.Status)
			p.Status = board.DeriveStatus(p.Tasks)
		}
		alignCompletedDate(&p.Status, &p.CompletedDate, p.UpdatedAt, today)
	}

	e.projects = seeded
	e.usedIDs = make(map[string]bool, len(projectIDs)+len(taskIDs))
	for id := range projectIDs {
		e.usedIDs[id] = true
	}
	for id := range taskIDs {
		e.usedIDs[id] = true
	}
	e.log.Logf("[DEBUG] seeded %d projects, %d tasks", len(projectIDs), len(taskIDs))
	return nil
}

// alignCompletedDate makes the completion date present exactly when the
// status is completed, falling back to the record's last update.
func alignCompletedDate(status *project.Status, completed **date.Date, updated, today date.Date) {
	switch {
	case *status != project.StatusCompleted:
		*completed = nil
	case *completed == nil && !updated.IsZero():
		*completed = updated.Ptr()
	case *completed == nil:
		*completed = today.Ptr()
	}
}

// Snapshot returns a copy of the current collection.
func (e *Engine) Snapshot() []project.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return project.CloneAll(e.projects)
}

// Project returns a copy of the project with the given id.
func (e *Engine) Project(id string) (project.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.projects {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return project.Project{}, projectNotFound(id)
}

// Today returns the engine's current calendar date.
func (e *Engine) Today() date.Date {
	return date.FromTime(e.now())
}

// Dispatch applies cmd. On success the collection is replaced and the
// result carries a copy of it; on failure the collection is unchanged.
func (e *Engine) Dispatch(cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, clierr.New(clierr.InternalError, "nil command")
	}
	e.mu.Lock()
	res, err := e.dispatchLocked(cmd)
	observers := e.observers
	e.mu.Unlock()
	if err != nil {
		e.log.Logf("[DEBUG] %s rejected: %v", cmd.op(), err)
		return Result{}, err
	}

	e.log.Logf("[DEBUG] %s project=%s task=%s %s", res.Op, res.ProjectID, res.TaskID, res.Detail)
	for _, fn := range observers {
		fn(res)
	}
	return res, nil
}

func (e *Engine) dispatchLocked(cmd Command) (Result, error) {
	var issued []string
	tx := &txn{
		projects: project.CloneAll(e.projects),
		today:    date.FromTime(e.now()),
		newID: func() (string, error) {
			id, err := e.uniqueID()
			if err == nil {
				issued = append(issued, id)
			}
			return id, err
		},
	}
	res, err := cmd.apply(tx)
	if err != nil {
		return Result{}, err
	}
	for _, id := range issued {
		e.usedIDs[id] = true
	}
	e.projects = tx.projects
	res.Op = cmd.op()
	res.Snapshot = project.CloneAll(tx.projects)
	return res, nil
}

// uniqueID draws ids until one has never been used in this collection.
func (e *Engine) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := e.newID()
		if id != "" && !e.usedIDs[id] {
			return id, nil
		}
	}
	return "", clierr.New(clierr.InternalError,
		fmt.Sprintf("could not generate a unique id after %d attempts", maxIDAttempts))
}

// CreateProject adds a project and returns it.
func (e *Engine) CreateProject(form project.ProjectForm) (project.Project, error) {
	return projectOf(e.Dispatch(CreateProject{Form: form}))
}

// UpdateProject edits a project and returns it.
func (e *Engine) UpdateProject(id string, patch project.ProjectPatch) (project.Project, error) {
	return projectOf(e.Dispatch(UpdateProject{ID: id, Patch: patch}))
}

// DeleteProject removes a project and its tasks.
func (e *Engine) DeleteProject(id string) error {
	_, err := e.Dispatch(DeleteProject{ID: id})
	return err
}

// SetProjectStatus overrides a project's status and returns the project.
func (e *Engine) SetProjectStatus(id string, status project.Status) (project.Project, error) {
	return projectOf(e.Dispatch(SetProjectStatus{ID: id, Status: status}))
}

// CreateTask adds a task to a project and returns it.
func (e *Engine) CreateTask(projectID string, form project.TaskForm) (project.Task, error) {
	return taskOf(e.Dispatch(CreateTask{ProjectID: projectID, Form: form}))
}

// UpdateTask edits a task and returns it.
func (e *Engine) UpdateTask(projectID, taskID string, patch project.TaskPatch) (project.Task, error) {
	return taskOf(e.Dispatch(UpdateTask{ProjectID: projectID, TaskID: taskID, Patch: patch}))
}

// SetTaskStatus moves a task and returns it.
func (e *Engine) SetTaskStatus(projectID, taskID string, status project.Status) (project.Task, error) {
	return taskOf(e.Dispatch(SetTaskStatus{ProjectID: projectID, TaskID: taskID, Status: status}))
}

// DeleteTask removes a task.
func (e *Engine) DeleteTask(projectID, taskID string) error {
	_, err := e.Dispatch(DeleteTask{ProjectID: projectID, TaskID: taskID})
	return err
}

func projectOf(res Result, err error) (project.Project, error) {
	if err != nil {
		return project.Project{}, err
	}
	p, _ := res.Project()
	return p, nil
}

func taskOf(res Result, err error) (project.Task, error) {
	if err != nil {
		return project.Task{}, err
	}
	t, _ := res.Task()
	return t, nil
}
