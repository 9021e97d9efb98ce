package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

var ref = date.New(2024, 1, 10)

func TestScheduleStatusBoundaries(t *testing.T) {
	tests := []struct {
		offset int
		want   Schedule
	}{
		{-30, Delayed},
		{-1, Delayed},
		{0, AtRisk},
		{1, AtRisk},
		{7, AtRisk},
		{8, OnTrack},
		{60, OnTrack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScheduleStatus(ref.AddDays(tt.offset), ref), "offset %d", tt.offset)
	}
}

func TestProjectScheduleCompletedIsOnTrack(t *testing.T) {
	p := project.Project{Status: done, DueDate: ref.AddDays(-5)}
	assert.Equal(t, OnTrack, ProjectSchedule(p, ref))
	p.Status = wip
	assert.Equal(t, Delayed, ProjectSchedule(p, ref))
}

func TestTaskSchedule(t *testing.T) {
	tk := project.Task{Status: done, DueDate: ref.AddDays(-1)}
	assert.Equal(t, OnTrack, TaskSchedule(tk, ref))
}

func TestDaysRemainingLabel(t *testing.T) {
	tests := []struct {
		due  date.Date
		want string
	}{
		{ref.AddDays(-3), "3 days overdue"},
		{ref.AddDays(-1), "1 day overdue"},
		{ref, "Due today"},
		{ref.AddDays(1), "Due tomorrow"},
		{ref.AddDays(5), "5 days left"},
		{date.New(9999, 12, 31), "2913164 days left"},
		{date.Date{}, "738894 days overdue"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysRemainingLabel(tt.due, ref), "due %s", tt.due)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "To Do", StatusLabel(todo))
	assert.Equal(t, "In Progress", StatusLabel(wip))
	assert.Equal(t, "High", PriorityLabel(project.PriorityHigh))
	assert.Equal(t, "At Risk", ScheduleLabel(AtRisk))
	assert.Equal(t, "On Track", ScheduleLabel(OnTrack))
}
