// Package board derives progress, schedule risk, and dashboard figures from
// project collections, and filters, sorts, and groups them for display.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// FilterOptions defines which projects to include.
type FilterOptions struct {
	Search     string // case-insensitive substring match across name, description, and owner
	Statuses   []project.Status
	Priorities []project.Priority
	Category   string
	Owner      string
	Schedules  []Schedule
	Ref        date.Date // reference day for the schedule filter
}

// Filter returns projects matching all specified criteria (AND logic).
func Filter(projects []project.Project, opts FilterOptions) []project.Project {
	var result []project.Project
	for _, p := range projects {
		if matchesFilter(p, opts) {
			result = append(result, p)
		}
	}
	return result
}

func matchesFilter(p project.Project, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, p.Status) {
		return false
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, p.Priority) {
		return false
	}
	if opts.Category != "" && !strings.EqualFold(p.Category, opts.Category) {
		return false
	}
	if opts.Owner != "" && !strings.EqualFold(p.Owner, opts.Owner) {
		return false
	}
	if len(opts.Schedules) > 0 && !slices.Contains(opts.Schedules, ProjectSchedule(p, opts.Ref)) {
		return false
	}
	if opts.Search != "" && !matchesSearch(p, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across name,
// description, and owner.
func matchesSearch(p project.Project, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{p.Name, p.Description, p.Owner} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterTasks returns the tasks of a project in the given statuses. No
// statuses means all tasks.
func FilterTasks(tasks []project.Task, statuses []project.Status) []project.Task {
	if len(statuses) == 0 {
		return tasks
	}
	var result []project.Task
	for _, t := range tasks {
		if slices.Contains(statuses, t.Status) {
			result = append(result, t)
		}
	}
	return result
}
