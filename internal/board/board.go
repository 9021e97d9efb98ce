package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Stats is the dashboard aggregate over a project collection.
type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	AtRisk     int `json:"at_risk"`
	Delayed    int `json:"delayed"`
}

// DashboardAggregate counts projects by status and, for projects that are
// not completed, by schedule risk relative to ref.
func DashboardAggregate(projects []project.Project, ref date.Date) Stats {
	var s Stats
	for _, p := range projects {
		s.add(p, ref)
	}
	return s
}

func (s *Stats) add(p project.Project, ref date.Date) {
	s.Total++
	switch p.Status {
	case project.StatusTodo:
		s.Todo++
	case project.StatusInProgress:
		s.InProgress++
	case project.StatusCompleted:
		s.Completed++
		return
	}
	switch ScheduleStatus(p.DueDate, ref) {
	case AtRisk:
		s.AtRisk++
	case Delayed:
		s.Delayed++
	}
}

// Overview is the dashboard view: aggregate counts plus one row per project.
type Overview struct {
	Name     string       `json:"name"`
	Date     date.Date    `json:"date"`
	Stats    Stats        `json:"stats"`
	Projects []ProjectRow `json:"projects"`
}

// ProjectRow is a project with its derived figures, as listed on the dashboard.
type ProjectRow struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Owner         string           `json:"owner"`
	Category      string           `json:"category"`
	Priority      project.Priority `json:"priority"`
	Status        project.Status   `json:"status"`
	DueDate       date.Date        `json:"due_date"`
	Progress      int              `json:"progress"`
	Schedule      Schedule         `json:"schedule"`
	DaysRemaining string           `json:"days_remaining"`
	Tasks         int              `json:"tasks"`
}

// Row derives the dashboard figures of p relative to ref.
func Row(p project.Project, ref date.Date) ProjectRow {
	return ProjectRow{
		ID:            p.ID,
		Name:          p.Name,
		Owner:         p.Owner,
		Category:      p.Category,
		Priority:      p.Priority,
		Status:        p.Status,
		DueDate:       p.DueDate,
		Progress:      CompletionPercentage(p.Tasks),
		Schedule:      ProjectSchedule(p, ref),
		DaysRemaining: DaysRemainingLabel(p.DueDate, ref),
		Tasks:         len(p.Tasks),
	}
}

// Summary builds the dashboard overview of projects relative to ref.
func Summary(name string, projects []project.Project, ref date.Date) Overview {
	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, Row(p, ref))
	}
	return Overview{
		Name:     name,
		Date:     ref,
		Stats:    DashboardAggregate(projects, ref),
		Projects: rows,
	}
}

// Owners returns the distinct project owners in alphabetical order.
func Owners(projects []project.Project) []string {
	seen := make(map[string]bool, len(projects))
	var owners []string
	for _, p := range projects {
		if p.Owner == "" || seen[p.Owner] {
			continue
		}
		seen[p.Owner] = true
		owners = append(owners, p.Owner)
	}
	sort.Strings(owners)
	return owners
}
