package board

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Schedule classifies how close a due date is.
type Schedule string

// Schedule classes.
const (
	OnTrack Schedule = "on_track"
	AtRisk  Schedule = "at_risk"
	Delayed Schedule = "delayed"
)

// Schedules lists every schedule class from least to most urgent.
var Schedules = []Schedule{OnTrack, AtRisk, Delayed}

// atRiskWindow is the number of days before the due date that still
// counts as at risk.
const atRiskWindow = 7

// title upper-cases the first letter of each word. Casers carry state, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// ScheduleStatus classifies due relative to ref: delayed once past due,
// at risk within a week of it, on track otherwise.
func ScheduleStatus(due, ref date.Date) Schedule {
	days := date.DaysUntil(ref, due)
	switch {
	case days < 0:
		return Delayed
	case days <= atRiskWindow:
		return AtRisk
	default:
		return OnTrack
	}
}

// ProjectSchedule classifies a project. Completed projects are always on track.
func ProjectSchedule(p project.Project, ref date.Date) Schedule {
	if p.IsCompleted() {
		return OnTrack
	}
	return ScheduleStatus(p.DueDate, ref)
}

// TaskSchedule classifies a task. Completed tasks are always on track.
func TaskSchedule(t project.Task, ref date.Date) Schedule {
	if t.IsCompleted() {
		return OnTrack
	}
	return ScheduleStatus(t.DueDate, ref)
}

// DaysRemainingLabel describes the distance from ref to due in words.
func DaysRemainingLabel(due, ref date.Date) string {
	days := date.DaysUntil(ref, due)
	switch {
	case days < 0:
		overdue := -days
		if overdue == 1 {
			return "1 day overdue"
		}
		return fmt.Sprintf("%d days overdue", overdue)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// StatusLabel returns the display name of a status.
func StatusLabel(s project.Status) string {
	switch s {
	case project.StatusTodo:
		return "To Do"
	case project.StatusInProgress:
		return "In Progress"
	case project.StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// PriorityLabel returns the display name of a priority.
func PriorityLabel(p project.Priority) string {
	return title(string(p))
}

// ScheduleLabel returns the display name of a schedule class.
func ScheduleLabel(s Schedule) string {
	return title(strings.ReplaceAll(string(s), "_", " "))
}
