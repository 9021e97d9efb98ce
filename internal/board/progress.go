package board

import (
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// CompletionPercentage returns the share of completed tasks as an integer
// percentage, rounding halves up. An empty task list is 0%.
func CompletionPercentage(tasks []project.Task) int {
	total := len(tasks)
	if total == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			done++
		}
	}
	// round(100*done/total) with halves rounded up, in integer arithmetic.
	return (200*done + total) / (2 * total)
}

// DeriveStatus computes a project's workflow status from its tasks:
// completed when every task is, in progress once any task has started or
// finished, todo otherwise.
func DeriveStatus(tasks []project.Task) project.Status {
	if len(tasks) == 0 {
		return project.StatusTodo
	}
	counts := CountTasksByStatus(tasks)
	switch {
	case counts[project.StatusCompleted] == len(tasks):
		return project.StatusCompleted
	case counts[project.StatusInProgress] > 0 || counts[project.StatusCompleted] > 0:
		return project.StatusInProgress
	default:
		return project.StatusTodo
	}
}

// CountTasksByStatus returns the number of tasks in each status. Every
// status is present in the result, possibly with a zero count.
func CountTasksByStatus(tasks []project.Task) map[project.Status]int {
	counts := make(map[project.Status]int, len(project.Statuses))
	for _, s := range project.Statuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// GroupTasksByStatus buckets tasks into board columns, preserving order
// within each column.
func GroupTasksByStatus(tasks []project.Task) map[project.Status][]project.Task {
	groups := make(map[project.Status][]project.Task, len(project.Statuses))
	for _, s := range project.Statuses {
		groups[s] = []project.Task{}
	}
	for _, t := range tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}

// GroupProjectsByStatus buckets projects into board columns, preserving
// order within each column.
func GroupProjectsByStatus(projects []project.Project) map[project.Status][]project.Project {
	groups := make(map[project.Status][]project.Project, len(project.Statuses))
	for _, s := range project.Statuses {
		groups[s] = []project.Project{}
	}
	for _, p := range projects {
		groups[p.Status] = append(groups[p.Status], p)
	}
	return groups
}
