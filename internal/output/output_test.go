package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

func TestDetect(t *testing.T) {
	t.Setenv(EnvVar, "")
	assert.Equal(t, FormatTable, Detect(false, false, false), "table by default")
	assert.Equal(t, FormatJSON, Detect(true, true, true), "--json wins")
	assert.Equal(t, FormatCompact, Detect(false, true, true), "--compact over --table")

	t.Setenv(EnvVar, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false), "json from env")
	assert.Equal(t, FormatTable, Detect(false, true, false), "flag overrides env")

	t.Setenv(EnvVar, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false), "compact from env")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2b9c1e", ShortID("3f2b9c1e-aaaa-bbbb"))
	assert.Equal(t, "p1", ShortID("p1"), "short ids kept")
}

func TestProgressBar(t *testing.T) {
	DisableColor()
	assert.Equal(t, "█████░░░░░ 50%", ProgressBar(50, 10))
	assert.Equal(t, "████ 100%", ProgressBar(150, 4), "clamped")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "PROJECT_NOT_FOUND", "project not found", map[string]any{"id": "x"})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "PROJECT_NOT_FOUND", resp.Code)
	assert.Equal(t, "x", resp.Details["id"])
}

func TestCompactLines(t *testing.T) {
	ref := date.New(2025, 1, 10)
	p := project.Project{
		ID: "0123456789", Name: "Launch", Status: project.StatusInProgress, Priority: project.PriorityHigh,
		Owner: "Ada", DueDate: date.New(2025, 1, 12),
		Tasks: []project.Task{
			{ID: "t1", Name: "Ship", Status: project.StatusCompleted, DueDate: date.New(2025, 1, 5), CompletedDate: date.New(2025, 1, 4).Ptr()},
			{ID: "t2", Name: "Announce", Status: project.StatusTodo, DueDate: date.New(2025, 1, 9)},
		},
	}

	var buf bytes.Buffer
	ProjectDetailCompact(&buf, p, ref)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, buf.String())
	assert.Equal(t, "01234567 [in_progress/high] Launch 50% at_risk due:2025-01-12 @Ada", lines[0])
	assert.Contains(t, lines[1], "on_track")
	assert.Contains(t, lines[1], "done:2025-01-04")
	assert.Contains(t, lines[2], "delayed", "overdue task")

	buf.Reset()
	DashboardCompact(&buf, board.Summary("Work", []project.Project{p}, ref))
	assert.True(t, strings.HasPrefix(buf.String(),
		"Work 2025-01-10: 1 projects (todo=0 in_progress=1 completed=0 at_risk=1 delayed=0)"), buf.String())
}
