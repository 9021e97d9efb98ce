package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
)

func validForm() ProjectForm {
	return ProjectForm{
		Name:        "Website relaunch",
		Description: "Rebuild the marketing site",
		Owner:       "Dana",
		Priority:    PriorityHigh,
		Category:    "Design",
		StartDate:   date.New(2024, 1, 1),
		DueDate:     date.New(2024, 3, 1),
	}
}

func TestProjectFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectForm)
		code   string
	}{
		{"valid", func(*ProjectForm) {}, ""},
		{"empty name", func(f *ProjectForm) { f.Name = "  " }, clierr.ValidationFailed},
		{"empty description", func(f *ProjectForm) { f.Description = "" }, clierr.ValidationFailed},
		{"empty owner", func(f *ProjectForm) { f.Owner = "" }, clierr.ValidationFailed},
		{"bad priority", func(f *ProjectForm) { f.Priority = "urgent" }, clierr.InvalidPriority},
		{"missing due date", func(f *ProjectForm) { f.DueDate = date.Date{} }, clierr.ValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			err := f.Validate()
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, clierr.CodeOf(err))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestPatchValidateOnlyChecksSetFields(t *testing.T) {
	require.NoError(t, ProjectPatch{}.Validate(), "empty patch should be valid")
	empty := ""
	assert.Error(t, ProjectPatch{Owner: &empty}.Validate(), "blank owner")
	assert.Error(t, TaskPatch{Name: &empty}.Validate(), "blank task name")
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"todo":        StatusTodo,
		"In-Progress": StatusInProgress,
		"completed":   StatusCompleted,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("done")
	assert.Equal(t, clierr.InvalidStatus, clierr.CodeOf(err))
}

func TestValidateDateRange(t *testing.T) {
	start := date.New(2024, 2, 1)
	assert.NoError(t, ValidateDateRange(start, start), "same day should be allowed")
	assert.EqualError(t, ValidateDateRange(start, date.New(2024, 1, 31)), "Due date must be after start date")
}

func TestCloneIsDeep(t *testing.T) {
	done := date.New(2024, 1, 5)
	p := Project{
		ID:            "p1",
		CompletedDate: &done,
		Tasks:         []Task{{ID: "t1", CompletedDate: done.Ptr()}},
	}
	c := p.Clone()
	c.Tasks[0].Name = "changed"
	*c.CompletedDate = date.New(2030, 1, 1)
	*c.Tasks[0].CompletedDate = date.New(2030, 1, 1)

	assert.Empty(t, p.Tasks[0].Name, "task slice shared")
	assert.True(t, p.CompletedDate.Equal(done), "project completed date shared")
	assert.True(t, p.Tasks[0].CompletedDate.Equal(done), "task completed date shared")
}
