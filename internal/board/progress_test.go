package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func tasksWith(statuses ...project.Status) []project.Task {
	tasks := make([]project.Task, len(statuses))
	for i, s := range statuses {
		tasks[i] = project.Task{Status: s}
	}
	return tasks
}

const (
	todo = project.StatusTodo
	wip  = project.StatusInProgress
	done = project.StatusCompleted
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name  string
		tasks []project.Task
		want  int
	}{
		{"empty", nil, 0},
		{"none done", tasksWith(todo, wip), 0},
		{"all done", tasksWith(done, done, done), 100},
		{"one of three", tasksWith(done, todo, todo), 33},
		{"two of three", tasksWith(done, done, todo), 67},
		{"half rounds up", tasksWith(done, todo), 50},
		{"one of eight", tasksWith(done, todo, todo, todo, todo, todo, todo, todo), 13},
		{"one of two hundred", append(tasksWith(done), tasksWith(make([]project.Status, 199)...)...), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionPercentage(tt.tasks))
		})
	}
}

func TestCompletionPercentageBounds(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for completed := 0; completed <= total; completed++ {
			statuses := make([]project.Status, total)
			for i := range statuses {
				statuses[i] = todo
				if i < completed {
					statuses[i] = done
				}
			}
			got := CompletionPercentage(tasksWith(statuses...))
			require.True(t, got >= 0 && got <= 100, "%d/%d out of range: %d", completed, total, got)
			require.Equal(t, completed == total, got == 100, "%d/%d: 100%% iff all completed, got %d", completed, total, got)
			if completed == 0 {
				require.Zero(t, got, "%d/%d", completed, total)
			}
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		tasks []project.Task
		want  project.Status
	}{
		{"empty", nil, todo},
		{"all todo", tasksWith(todo, todo), todo},
		{"one started", tasksWith(todo, wip), wip},
		{"one finished", tasksWith(todo, done), wip},
		{"all finished", tasksWith(done, done), done},
		{"single finished", tasksWith(done), done},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.tasks)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DeriveStatus(tt.tasks), "idempotent")
		})
	}
}

func TestCountAndGroupTasksByStatus(t *testing.T) {
	tasks := []project.Task{
		{ID: "a", Status: todo},
		{ID: "b", Status: done},
		{ID: "c", Status: todo},
	}
	counts := CountTasksByStatus(tasks)
	assert.Equal(t, map[project.Status]int{todo: 2, wip: 0, done: 1}, counts)

	groups := GroupTasksByStatus(tasks)
	require.Len(t, groups[todo], 2)
	assert.Equal(t, "a", groups[todo][0].ID)
	assert.Equal(t, "c", groups[todo][1].ID)
	assert.NotNil(t, groups[wip], "empty columns are non-nil")
}

func TestGroupProjectsByStatus(t *testing.T) {
	projects := []project.Project{
		{ID: "p1", Status: wip},
		{ID: "p2", Status: done},
		{ID: "p3", Status: wip},
	}
	groups := GroupProjectsByStatus(projects)
	assert.Len(t, groups[wip], 2)
	assert.Len(t, groups[done], 1)
	assert.Empty(t, groups[todo])
}
