package tracker

import (
	"errors"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Sentinel causes of engine errors. Every error returned by the engine is a
// *clierr.Error wrapping one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = project.ErrInvalid
)

func projectNotFound(id string) error {
	return clierr.Newf(clierr.ProjectNotFound, "project %q not found", id).
		WithDetails(map[string]any{"id": id}).
		WithCause(ErrNotFound)
}

func taskNotFound(projectID, taskID string) error {
	return clierr.Newf(clierr.TaskNotFound, "task %q not found", taskID).
		WithDetails(map[string]any{"id": taskID, "project_id": projectID}).
		WithCause(ErrNotFound)
}

func duplicateID(kind, id string) error {
	return clierr.Newf(clierr.ValidationFailed, "duplicate %s id %q", kind, id).
		WithDetails(map[string]any{"kind": kind, "id": id}).
		WithCause(ErrValidation)
}
