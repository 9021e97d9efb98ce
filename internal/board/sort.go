package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{"name", fieldPriority, fieldStatus, "due", "start", "created", "updated", "progress"}
}

// Sort sorts projects by the given field. Status and priority use workflow
// and urgency order rather than alphabetical order. Unknown fields keep
// the stored order.
func Sort(projects []project.Project, field string, reverse bool) {
	if !slices.Contains(ValidSortFields(), field) {
		return
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if reverse {
			return compareProjects(projects[j], projects[i], field)
		}
		return compareProjects(projects[i], projects[j], field)
	})
}

func compareProjects(a, b project.Project, field string) bool {
	switch field {
	case "name":
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case fieldStatus:
		return slices.Index(project.Statuses, a.Status) < slices.Index(project.Statuses, b.Status)
	case fieldPriority:
		return slices.Index(project.Priorities, a.Priority) < slices.Index(project.Priorities, b.Priority)
	case "due":
		return a.DueDate.Before(b.DueDate.Time)
	case "start":
		return a.StartDate.Before(b.StartDate.Time)
	case "created":
		return a.CreatedAt.Before(b.CreatedAt.Time)
	case "updated":
		return a.UpdatedAt.Before(b.UpdatedAt.Time)
	case "progress":
		return CompletionPercentage(a.Tasks) < CompletionPercentage(b.Tasks)
	default:
		return false
	}
}
