package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// ProjectCompact renders dashboard rows one line per project.
func ProjectCompact(w io.Writer, rows []board.ProjectRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No projects found.")
		return
	}
	for _, r := range rows {
		fmt.Fprintln(w, formatProjectLine(r))
	}
}

// ProjectDetailCompact renders a project line followed by one line per task.
func ProjectDetailCompact(w io.Writer, p project.Project, ref date.Date) {
	fmt.Fprintln(w, formatProjectLine(board.Row(p, ref)))
	for _, t := range p.Tasks {
		fmt.Fprintln(w, "  "+formatTaskLine(t, ref))
	}
}

// TaskCompact renders tasks one line per record.
func TaskCompact(w io.Writer, tasks []project.Task, ref date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, ref))
	}
}

// DashboardCompact renders the overview counts on one line and each project
// on its own line.
func DashboardCompact(w io.Writer, o board.Overview) {
	s := o.Stats
	fmt.Fprintf(w, "%s %s: %d projects (todo=%d in_progress=%d completed=%d at_risk=%d delayed=%d)\n",
		o.Name, o.Date, s.Total, s.Todo, s.InProgress, s.Completed, s.AtRisk, s.Delayed)
	for _, r := range o.Projects {
		fmt.Fprintln(w, "  "+formatProjectLine(r))
	}
}

// GroupedCompact renders one line per group.
func GroupedCompact(w io.Writer, gs board.GroupedSummary) {
	for _, g := range gs.Groups {
		key := g.Key
		if key == "" {
			key = "(none)"
		}
		fmt.Fprintf(w, "%s=%s: %d (todo=%d in_progress=%d completed=%d at_risk=%d delayed=%d)\n",
			gs.Field, key, g.Stats.Total, g.Stats.Todo, g.Stats.InProgress, g.Stats.Completed,
			g.Stats.AtRisk, g.Stats.Delayed)
	}
}

func formatProjectLine(r board.ProjectRow) string {
	line := ShortID(r.ID) + " [" + string(r.Status) + "/" + string(r.Priority) + "] " + r.Name +
		" " + strconv.Itoa(r.Progress) + "% " + string(r.Schedule) + " due:" + r.DueDate.String()
	if r.Owner != "" {
		line += " @" + r.Owner
	}
	return line
}

func formatTaskLine(t project.Task, ref date.Date) string {
	line := ShortID(t.ID) + " [" + string(t.Status) + "] " + t.Name +
		" " + string(board.TaskSchedule(t, ref)) + " due:" + t.DueDate.String()
	if t.CompletedDate != nil {
		line += " done:" + t.CompletedDate.String()
	}
	return line
}
