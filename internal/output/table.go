package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Status colors aligned with TUI column-header palette.
	statusStyles = map[string]lipgloss.Style{
		string(project.StatusTodo):       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(project.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(project.StatusCompleted):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		string(project.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(project.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(project.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	scheduleStyles = map[string]lipgloss.Style{
		string(board.OnTrack): lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(board.AtRisk):  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		string(board.Delayed): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

const (
	maxNameWidth = 40
	barWidth     = 10
)

// ProjectTable renders dashboard rows as a formatted table.
func ProjectTable(w io.Writer, rows []board.ProjectRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No projects found.")
		return
	}

	const pad = 2
	idW, nameW, statusW, prioW, ownerW, progW, schedW := 10, 6, 8, 10, 7, barWidth+7, 10
	for _, r := range rows {
		nameW = max(nameW, min(len(r.Name)+pad, maxNameWidth+pad))
		statusW = max(statusW, len(r.Status)+pad)
		ownerW = max(ownerW, min(len(r.Owner)+pad, 20)) //nolint:mnd // max owner column width
		schedW = max(schedW, len(r.Schedule)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", nameW, "NAME", statusW, "STATUS", prioW, "PRIORITY",
		ownerW, "OWNER", progW, "PROGRESS", schedW, "SCHEDULE", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, r := range rows {
		row := fmt.Sprintf("%s %s %s %s %s %s %s %s",
			padRight(ShortID(r.ID), idW),
			padRight(truncate(r.Name, maxNameWidth), nameW),
			padRight(styledValue(string(r.Status), statusStyles), statusW),
			padRight(styledValue(string(r.Priority), priorityStyles), prioW),
			padRight(stringOrDash(r.Owner), ownerW),
			padRight(ProgressBar(r.Progress, barWidth), progW),
			padRight(styledValue(string(r.Schedule), scheduleStyles), schedW),
			r.DueDate.String()+" "+dimStyle.Render("("+r.DaysRemaining+")"))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskTable renders the tasks of one project.
func TaskTable(w io.Writer, tasks []project.Task, ref date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, nameW, statusW, schedW := 10, 6, 8, 10
	for _, t := range tasks {
		nameW = max(nameW, min(len(t.Name)+pad, maxNameWidth+pad))
		statusW = max(statusW, len(t.Status)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", nameW, "NAME", statusW, "STATUS", schedW, "SCHEDULE", "DUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		row := fmt.Sprintf("%s %s %s %s %s",
			padRight(ShortID(t.ID), idW),
			padRight(truncate(t.Name, maxNameWidth), nameW),
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(styledValue(string(board.TaskSchedule(t, ref)), scheduleStyles), schedW),
			taskDue(t, ref))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// ProjectDetail renders a single project with its derived figures, its
// markdown description, and its tasks.
func ProjectDetail(w io.Writer, p project.Project, ref date.Date) {
	titleLine := p.Name
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", p.ID)
	printField(w, "Status", styledValue(string(p.Status), statusStyles))
	printField(w, "Priority", styledValue(string(p.Priority), priorityStyles))
	printField(w, "Category", stringOrDash(p.Category))
	printField(w, "Owner", stringOrDash(p.Owner))
	printField(w, "Start", p.StartDate.String())
	printField(w, "Due", p.DueDate.String()+" "+dimStyle.Render("("+board.DaysRemainingLabel(p.DueDate, ref)+")"))
	printField(w, "Schedule", styledValue(string(board.ProjectSchedule(p, ref)), scheduleStyles))
	printField(w, "Progress", ProgressBar(board.CompletionPercentage(p.Tasks), barWidth))
	if p.CompletedDate != nil {
		printField(w, "Completed", p.CompletedDate.String())
	}
	printField(w, "Created", p.CreatedAt.String())
	printField(w, "Updated", p.UpdatedAt.String())

	if p.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, Markdown(p.Description))
	}

	fmt.Fprintln(w)
	counts := board.CountTasksByStatus(p.Tasks)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Tasks (%d todo, %d in progress, %d completed)",
		counts[project.StatusTodo], counts[project.StatusInProgress], counts[project.StatusCompleted])))
	if len(p.Tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  none"))
		return
	}
	TaskTable(w, p.Tasks, ref)
}

// DashboardTable renders the overview: aggregate counts, then the project rows.
func DashboardTable(w io.Writer, o board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(o.Name))
	fmt.Fprintln(w, dimStyle.Render(o.Date.String()))
	fmt.Fprintln(w)
	StatsTable(w, o.Stats)
	if len(o.Projects) > 0 {
		fmt.Fprintln(w)
		ProjectTable(w, o.Projects)
	}
}

// StatsTable renders dashboard counts.
func StatsTable(w io.Writer, s board.Stats) {
	const labelW = 14
	lines := []struct {
		label string
		value int
		style map[string]lipgloss.Style
		key   string
	}{
		{"Total", s.Total, nil, ""},
		{"To Do", s.Todo, statusStyles, string(project.StatusTodo)},
		{"In Progress", s.InProgress, statusStyles, string(project.StatusInProgress)},
		{"Completed", s.Completed, statusStyles, string(project.StatusCompleted)},
		{"At Risk", s.AtRisk, scheduleStyles, string(board.AtRisk)},
		{"Delayed", s.Delayed, scheduleStyles, string(board.Delayed)},
	}
	for _, l := range lines {
		label := l.label
		if st, ok := l.style[l.key]; ok {
			label = st.Render(label)
		}
		fmt.Fprintf(w, "%s %6d\n", padRight(label, labelW), l.value)
	}
}

// GroupedTable renders a grouped dashboard with per-group counts.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := g.Label
		if label == "" {
			label = dimStyle.Render("(none)")
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d projects)", label, g.Stats.Total)))
		fmt.Fprintf(w, "  %d todo, %d in progress, %d completed, %d at risk, %d delayed\n",
			g.Stats.Todo, g.Stats.InProgress, g.Stats.Completed, g.Stats.AtRisk, g.Stats.Delayed)
		for _, name := range g.Projects {
			fmt.Fprintln(w, "  - "+name)
		}
	}
}

// LogTable renders activity log entries, oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		ref := ShortID(e.ProjectID)
		if e.TaskID != "" {
			ref += "/" + ShortID(e.TaskID)
		}
		fmt.Fprintf(w, "%s  %-20s %-19s %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")), e.Action, ref, e.Detail)
	}
}

// SettingsTable renders the user settings.
func SettingsTable(w io.Writer, s settings.Settings) {
	printField(w, "Name", stringOrDash(s.UserName))
	printField(w, "Initials", stringOrDash(s.UserInitials))
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// ProgressBar renders pct as a fixed-width bar followed by the percentage.
func ProgressBar(pct, width int) string {
	pct = max(0, min(pct, 100)) //nolint:mnd // percent bounds
	filled := pct * width / 100 //nolint:mnd // percent
	bar := strings.Repeat("█", filled) + dimStyle.Render(strings.Repeat("░", width-filled))
	return bar + " " + strconv.Itoa(pct) + "%"
}

// ShortID abbreviates an identifier for display. Lookups accept any unique
// prefix, so the short form can be typed back.
func ShortID(id string) string {
	const shortLen = 8
	if len(id) <= shortLen {
		return id
	}
	return id[:shortLen]
}

func taskDue(t project.Task, ref date.Date) string {
	if t.IsCompleted() && t.CompletedDate != nil {
		return t.DueDate.String() + " " + dimStyle.Render("(done "+t.CompletedDate.String()+")")
	}
	return t.DueDate.String() + " " + dimStyle.Render("("+board.DaysRemainingLabel(t.DueDate, ref)+")")
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
