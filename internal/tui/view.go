package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

// Layout constants.
const (
	boardChrome = 2 // blank line + status bar below the column area
	errorChrome = 1 // extra line when an error is displayed
	cardChrome  = 4 // border (2) + padding (2)
	maxColWidth = 60
	maxDetail   = 2 // description lines on a task card
	pctWidth    = 5 // " 100%"
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))

	delayedCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	nameStyle = lipgloss.NewStyle().Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	scheduleStyles = map[board.Schedule]lipgloss.Style{
		board.OnTrack: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		board.AtRisk:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		board.Delayed: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Clamp from the bottom so headers stay visible, or pad to push the
	// status bar down.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar(), b.help.View(b.keys))
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/len(b.columns), maxColWidth)
}

// chromeHeight returns the number of lines below the column area.
func (b *Board) chromeHeight() int {
	h := boardChrome + lipgloss.Height(b.help.View(b.keys))
	if b.err != nil {
		h += errorChrome
	}
	return h
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", board.StatusLabel(col.status), len(col.items)), width-headerPad)

	header := columnHeaderStyle.Width(width).Render(headerText)
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.items))
	end := min(start+maxVis, len(col.items))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.items) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, b.renderCard(col.items[rowIdx], active, width))
	}
	if end < len(col.items) {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↓ %d more", len(col.items)-end), width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(it item, active bool, width int) string {
	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case it.schedule == board.Delayed:
		style = delayedCardStyle
	}
	content := strings.Join(b.cardContentLines(it, width), "\n")
	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(it item, width int) int {
	return len(b.cardContentLines(it, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(it item, width int) []string {
	cardWidth := max(width-cardChrome, 1)
	lines := []string{nameStyle.Render(truncate(it.name, cardWidth))}

	if it.detail != "" {
		maxLines := 1
		if it.taskID != "" {
			maxLines = maxDetail
		}
		for _, line := range wrapText(strings.TrimSpace(it.detail), cardWidth, maxLines) {
			lines = append(lines, dimStyle.Render(line))
		}
	}

	if it.hasProgress && b.opts.ShowProgress {
		bar := b.bar
		bar.Width = max(cardWidth-pctWidth, 1)
		lines = append(lines, bar.ViewAs(float64(it.progress)/100)+fmt.Sprintf(" %3d%%", it.progress)) //nolint:mnd // percent
	}

	lines = append(lines, b.scheduleLine(it, cardWidth))
	return lines
}

// scheduleLine renders the schedule badge and the due date.
func (b *Board) scheduleLine(it item, width int) string {
	if it.status == project.StatusCompleted {
		return scheduleStyles[board.OnTrack].Render(truncate("✓ done · due "+it.due.String(), width))
	}
	badge := board.ScheduleLabel(it.schedule)
	due := board.DaysRemainingLabel(it.due, b.today())
	text := truncate(badge+" · "+due, width)
	if len(text) <= len(badge) {
		return scheduleStyles[it.schedule].Render(text)
	}
	return scheduleStyles[it.schedule].Render(badge) + dimStyle.Render(strings.TrimPrefix(text, badge))
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for the scroll indicator lines.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.items) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.items) == 0 || avail < 1 {
		return 1
	}

	used, count := 0, 0
	for i := col.scrollOff; i < len(col.items); i++ {
		cardLines := b.cardHeight(col.items[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// ensureVisible adjusts the active column's scroll offset so the selected
// row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	w := b.columnWidth()

	for range len(col.items) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)
		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) renderStatusBar() string {
	location := b.opts.Name
	count := 0
	noun := "projects"
	for _, col := range b.columns {
		count += len(col.items)
	}
	if b.projectID != "" {
		noun = "tasks"
		if p, err := b.engine.Project(b.projectID); err == nil {
			location += " › " + p.Name
		}
	}

	status := fmt.Sprintf(" %s | %d %s", location, count, noun)
	if b.opts.User != "" {
		status += " | @" + b.opts.User
	}
	if b.saving {
		status += " | saving…"
	}
	bar := statusBarStyle.Render(truncate(status, b.width))
	if b.notice != "" {
		bar += noticeStyle.Render(truncate(" | "+b.notice, max(b.width-lipgloss.Width(bar), 4))) //nolint:mnd // minimum truncation width
	}

	if b.err != nil {
		return errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + bar
	}
	return bar
}

func (b *Board) viewDeleteConfirm() string {
	title := "Delete project?"
	extra := "All of its tasks are deleted with it."
	if b.deleteTarget.taskID != "" {
		title = "Delete task?"
		extra = "The project's status is derived again."
	}
	content := errorStyle.Render(title) + "\n\n" +
		"  " + b.deleteTarget.name + "\n" +
		dimStyle.Render("  "+extra) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

// wrapText splits text across at most maxLines lines at word boundaries.
// Each line is at most maxWidth cells wide; the last line is truncated.
func wrapText(text string, maxWidth, maxLines int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(text) <= maxWidth || maxLines == 1 {
		return []string{truncate(text, maxWidth)}
	}

	words := strings.Fields(text)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
