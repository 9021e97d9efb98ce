package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func lookupFixture() []project.Project {
	return []project.Project{
		{ID: "4f2a-1111", Name: "Website", Tasks: []project.Task{{ID: "aa11", ProjectID: "4f2a-1111"}, {ID: "aa22", ProjectID: "4f2a-1111"}}},
		{ID: "4f2b-2222", Name: "Billing", Tasks: []project.Task{{ID: "bb11", ProjectID: "4f2b-2222"}}},
	}
}

func TestFindProject(t *testing.T) {
	projects := lookupFixture()
	for ref, want := range map[string]string{
		"4f2a-1111": "4f2a-1111",
		"4f2b":      "4f2b-2222",
		"website":   "4f2a-1111",
	} {
		p, err := FindProject(projects, ref)
		require.NoError(t, err, "FindProject(%q)", ref)
		assert.Equal(t, want, p.ID, "FindProject(%q)", ref)
	}

	_, err := FindProject(projects, "4f2")
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err), "ambiguous reference")
	_, err = FindProject(projects, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindTask(t *testing.T) {
	projects := lookupFixture()
	p, tk, err := FindTask(projects, "bb")
	require.NoError(t, err)
	assert.Equal(t, "4f2b-2222", p.ID)
	assert.Equal(t, "bb11", tk.ID)

	_, _, err = FindTask(projects, "aa")
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err), "ambiguous reference")
	_, _, err = FindTask(projects, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
