package tracker

import (
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// FindProject resolves a user reference to a project in a snapshot. The
// reference may be a full id, a unique id prefix, or a case-insensitive
// project name.
func FindProject(projects []project.Project, ref string) (project.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return project.Project{}, projectNotFound(ref)
	}
	var byPrefix, byName []project.Project
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			byPrefix = append(byPrefix, p)
		}
		if strings.EqualFold(p.Name, ref) {
			byName = append(byName, p)
		}
	}
	for _, matches := range [][]project.Project{byPrefix, byName} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return project.Project{}, ambiguous("project", ref, len(matches))
		}
	}
	return project.Project{}, projectNotFound(ref)
}

// FindTask resolves a task reference (full id or unique id prefix) across
// every project in a snapshot and returns it with its project.
func FindTask(projects []project.Project, ref string) (project.Project, project.Task, error) {
	ref = strings.TrimSpace(ref)
	type hit struct {
		p project.Project
		t project.Task
	}
	var hits []hit
	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.ID == ref {
				return p, t, nil
			}
			if ref != "" && strings.HasPrefix(t.ID, ref) {
				hits = append(hits, hit{p, t})
			}
		}
	}
	switch len(hits) {
	case 1:
		return hits[0].p, hits[0].t, nil
	case 0:
		return project.Project{}, project.Task{}, taskNotFound("", ref)
	default:
		return project.Project{}, project.Task{}, ambiguous("task", ref, len(hits))
	}
}

func ambiguous(kind, ref string, n int) error {
	return clierr.Newf(clierr.InvalidInput, "%s reference %q is ambiguous (%d matches)", kind, ref, n).
		WithDetails(map[string]any{"kind": kind, "ref": ref, "matches": n})
}
