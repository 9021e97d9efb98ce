package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func sampleProjects() []project.Project {
	return []project.Project{
		{
			ID: "p1", Name: "Website", Description: "Marketing site rebuild", Owner: "Dana",
			Priority: project.PriorityHigh, Category: "Design", Status: wip,
			DueDate: ref.AddDays(3),
			Tasks:   tasksWith(done, todo),
		},
		{
			ID: "p2", Name: "Billing", Description: "Invoice export", Owner: "Lee",
			Priority: project.PriorityLow, Category: "Development", Status: todo,
			DueDate: ref.AddDays(-2),
		},
		{
			ID: "p3", Name: "Audit", Description: "Yearly audit", Owner: "Dana",
			Priority: project.PriorityMedium, Category: "Operations", Status: done,
			DueDate: ref.AddDays(-20),
			Tasks:   tasksWith(done),
		},
		{
			ID: "p4", Name: "Roadmap", Description: "Next year plan", Owner: "Kim",
			Priority: project.PriorityMedium, Category: "Design", Status: todo,
			DueDate: ref.AddDays(40),
		},
	}
}

func TestDashboardAggregate(t *testing.T) {
	got := DashboardAggregate(sampleProjects(), ref)
	assert.Equal(t, Stats{Total: 4, Todo: 2, InProgress: 1, Completed: 1, AtRisk: 1, Delayed: 1}, got)
	assert.Equal(t, got.Total, got.Todo+got.InProgress+got.Completed, "status counts must sum to total")
	assert.Equal(t, Stats{}, DashboardAggregate(nil, ref))
}

func TestSummaryRows(t *testing.T) {
	ov := Summary("Team", sampleProjects(), ref)
	require.Len(t, ov.Projects, 4)

	row := ov.Projects[0]
	assert.Equal(t, 50, row.Progress)
	assert.Equal(t, AtRisk, row.Schedule)
	assert.Equal(t, "3 days left", row.DaysRemaining)
	assert.Equal(t, OnTrack, ov.Projects[2].Schedule, "completed project should be on track")
}

func TestFilter(t *testing.T) {
	projects := sampleProjects()
	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"no filter", FilterOptions{}, []string{"p1", "p2", "p3", "p4"}},
		{"search name", FilterOptions{Search: "web"}, []string{"p1"}},
		{"search description", FilterOptions{Search: "INVOICE"}, []string{"p2"}},
		{"search owner", FilterOptions{Search: "dana"}, []string{"p1", "p3"}},
		{"status", FilterOptions{Statuses: []project.Status{todo}}, []string{"p2", "p4"}},
		{"priority", FilterOptions{Priorities: []project.Priority{project.PriorityMedium}}, []string{"p3", "p4"}},
		{"category", FilterOptions{Category: "design"}, []string{"p1", "p4"}},
		{"schedule", FilterOptions{Schedules: []Schedule{Delayed}, Ref: ref}, []string{"p2"}},
		{"combined", FilterOptions{Category: "Design", Statuses: []project.Status{todo}}, []string{"p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projectIDs(Filter(projects, tt.opts)))
		})
	}
}

func TestSort(t *testing.T) {
	projects := sampleProjects()
	Sort(projects, "due", false)
	assert.Equal(t, []string{"p3", "p2", "p1", "p4"}, projectIDs(projects), "due order")

	Sort(projects, "priority", false)
	assert.Equal(t, []string{"p1", "p3", "p4", "p2"}, projectIDs(projects), "priority order")

	Sort(projects, "progress", true)
	assert.Equal(t, "p3", projects[0].ID, "most progressed first")
}

func TestGroupBy(t *testing.T) {
	grouped := GroupBy(sampleProjects(), "category", ref)
	require.Len(t, grouped.Groups, 3)
	design := grouped.Groups[0]
	assert.Equal(t, "Design", design.Key)
	assert.Equal(t, 2, design.Stats.Total)
	assert.Equal(t, 1, design.Stats.AtRisk)

	byStatus := GroupBy(sampleProjects(), "status", ref)
	var labels []string
	for _, g := range byStatus.Groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"To Do", "In Progress", "Completed"}, labels)
}

func TestOwners(t *testing.T) {
	assert.Equal(t, []string{"Dana", "Kim", "Lee"}, Owners(sampleProjects()))
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()
	LogMutation(dir, "create", "p1", "", "Website")
	LogMutation(dir, "move", "p1", "t1", "todo -> completed")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk"), nil, 0o600))

	entries, err := ReadLog(dir, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "move", entries[0].Action)
	assert.Equal(t, "t1", entries[0].TaskID)

	missing, err := ReadLog(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func projectIDs(projects []project.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
