package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

var (
	accentColor = lipgloss.Color("62")
	mutedColor  = lipgloss.Color("241")
	dimColor    = lipgloss.Color("239")
	errorColor  = lipgloss.Color("203")
)

// priorityColor maps priorities onto card badge colors.
func priorityColor(p domain.Priority) color.Color {
	switch p {
	case domain.PriorityLow:
		return lipgloss.Color("39")
	case domain.PriorityHigh:
		return lipgloss.Color("203")
	default:
		return lipgloss.Color("220")
	}
}

// View renders the board with any active overlay.
func (m Model) View() tea.View {
	if m.err != nil {
		return newAltView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready {
		return newAltView("loading...")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dimColor)

	header := titleStyle.Render("quadro") + statusStyle.Render(fmt.Sprintf("  %d tasks  [%s]", m.totalTasks(), m.modeLabel()))
	if m.searchQuery != "" {
		header += statusStyle.Render("  search: " + truncate(m.searchQuery, 32))
	}

	board := m.renderColumns()
	statusLine := m.renderStatusLine()

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpText := helpBubble.View(m.keys)
	if m.mode == modeAddTask {
		helpText = helpBubble.View(m.formKeys)
	}
	helpLine := lipgloss.NewStyle().
		Foreground(mutedColor).
		BorderTop(true).
		BorderForeground(dimColor).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpText)

	content := strings.Join([]string{header, "", board, "", statusLine}, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine
	if overlay := m.renderModeOverlay(m.width - 8); overlay != "" {
		overlayHeight := lipgloss.Height(full)
		if m.height > 0 {
			overlayHeight = m.height
		}
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return newAltView(full)
}

func newAltView(content string) tea.View {
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderColumns lays the status columns out side by side.
func (m Model) renderColumns() string {
	if len(m.columns) == 0 {
		return lipgloss.NewStyle().Foreground(mutedColor).Render("no columns loaded")
	}
	colWidth := m.columnWidth()
	base := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(0, 1).
		MarginRight(1).
		Width(colWidth)
	selected := base.BorderForeground(accentColor)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	views := make([]string, 0, len(m.columns))
	for colIdx, col := range m.columns {
		lines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", col.Label, len(col.Tasks)))}
		if len(col.Tasks) == 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(dimColor).Render("(empty)"))
		}
		for taskIdx, task := range col.Tasks {
			focused := colIdx == m.selectedColumn && taskIdx == m.selectedTask
			lines = append(lines, m.renderCard(task, focused, colWidth-4))
		}
		style := base
		if colIdx == m.selectedColumn {
			style = selected
		}
		views = append(views, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderCard renders one task card.
func (m Model) renderCard(task domain.Task, focused bool, width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	prefix := "  "
	if focused {
		titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
		prefix = "› "
	}
	sub := lipgloss.NewStyle().Foreground(mutedColor)
	badge := lipgloss.NewStyle().Foreground(priorityColor(task.Priority)).Render(task.Priority.Label(m.locale))

	meta := []string{badge}
	if m.cardFields.ShowAssignee && task.Assignee != nil {
		meta = append(meta, sub.Render(task.Assignee.Initials))
	}
	if m.cardFields.ShowDueDate && task.DueDate != nil {
		meta = append(meta, sub.Render(dueLabel(task.DueDate, time.Now().UTC())))
	}
	if task.Comments > 0 {
		meta = append(meta, sub.Render(fmt.Sprintf("✎%d", task.Comments)))
	}
	if m.cardFields.ShowSubtasks && task.Subtasks.Total > 0 {
		meta = append(meta, sub.Render(fmt.Sprintf("☑%d/%d", task.Subtasks.Completed, task.Subtasks.Total)))
	}

	lines := []string{
		titleStyle.Render(prefix + truncate(task.Title, max(4, width-2))),
		"  " + strings.Join(meta, " "),
	}
	if m.cardFields.ShowDescription && strings.TrimSpace(task.Description) != "" {
		lines = append(lines, sub.Render("  "+truncate(task.Description, max(4, width-2))))
	}
	return strings.Join(lines, "\n")
}

// renderStatusLine shows the latest status or notice.
func (m Model) renderStatusLine() string {
	style := lipgloss.NewStyle().Foreground(mutedColor)
	if m.notice != nil && m.notice.Variant == app.NoticeDestructive && strings.HasPrefix(m.status, m.notice.Title) {
		style = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	}
	if strings.HasPrefix(m.status, "error:") {
		style = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	}
	return style.Render(m.status)
}

// renderModeOverlay renders the dialog for the active mode.
func (m Model) renderModeOverlay(maxWidth int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
	if maxWidth > 0 {
		box = box.Width(clamp(maxWidth, 32, 76))
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	hint := lipgloss.NewStyle().Foreground(mutedColor)

	switch m.mode {
	case modeAddTask:
		lines := []string{title.Render("New Task")}
		for i, in := range m.formInputs {
			line := in.View()
			if i == m.formFocus {
				line = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render("›") + " " + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		lines = append(lines,
			"  status: "+m.formStatus.Label(m.locale),
			"  priority: "+lipgloss.NewStyle().Foreground(priorityColor(m.formPriority)).Render(m.formPriority.Label(m.locale)),
			"",
			hint.Render("tab next • ctrl+p priority • ctrl+s status • enter create • esc keep draft"),
		)
		return box.Render(strings.Join(lines, "\n"))

	case modeTaskInfo:
		task, ok := m.taskByID(m.infoTaskID)
		if !ok {
			return ""
		}
		width := 72
		if maxWidth > 0 {
			width = clamp(maxWidth, 32, 76) - 4
		}
		body := m.markdown.render(taskMarkdown(task, m.locale), width)
		return box.Render(body + "\n" + hint.Render("y copy • esc close"))

	case modeSearch:
		return box.Render(strings.Join([]string{
			title.Render("Search"),
			m.searchInput.View(),
			hint.Render("enter search • esc cancel"),
		}, "\n"))

	case modeSearchResults:
		lines := []string{title.Render(fmt.Sprintf("Results for %q", m.searchQuery))}
		if len(m.searchMatches) == 0 {
			lines = append(lines, hint.Render("(no matches)"))
		}
		start, end := windowBounds(len(m.searchMatches), m.searchResultIndex, 12)
		for idx := start; idx < end; idx++ {
			match := m.searchMatches[idx]
			prefix := "  "
			if idx == m.searchResultIndex {
				prefix = "› "
			}
			lines = append(lines, fmt.Sprintf("%s#%d %s %s", prefix, match.Task.ID, truncate(match.Task.Title, 40), hint.Render(match.Task.Status.Label(m.locale))))
		}
		lines = append(lines, hint.Render("j/k move • enter jump • esc close"))
		return box.Render(strings.Join(lines, "\n"))

	case modeActivityLog:
		lines := []string{title.Render("Activity")}
		if len(m.activity) == 0 {
			lines = append(lines, hint.Render("(no activity yet)"))
		}
		for _, ev := range m.activity[:min(len(m.activity), 15)] {
			lines = append(lines, fmt.Sprintf("%s  %s", ev.OccurredAt.Local().Format("01-02 15:04"), m.describeEvent(ev)))
		}
		lines = append(lines, hint.Render("esc close"))
		return box.Render(strings.Join(lines, "\n"))

	case modeConfirmQuit:
		return box.Render(title.Render("Quit quadro?") + "\n" + hint.Render("y quit • any other key cancels"))
	}

	if m.help.ShowAll {
		helpBubble := m.help
		helpBubble.SetWidth(max(0, maxWidth-4))
		return box.Render(title.Render("quadro help") + "\n" + helpBubble.View(m.keys) + "\n" + hint.Render("press ? or esc to close"))
	}
	return ""
}

// describeEvent renders one change event for the activity overlay.
func (m Model) describeEvent(ev domain.ChangeEvent) string {
	title := fmt.Sprintf("#%d", ev.TaskID)
	if task, ok := m.taskByID(ev.TaskID); ok {
		title += " " + truncate(task.Title, 28)
	}
	switch ev.Operation {
	case domain.ChangeOperationCreate:
		return fmt.Sprintf("created %s in %s", title, ev.ToStatus.Label(m.locale))
	default:
		return fmt.Sprintf("moved %s %s → %s", title, ev.FromStatus.Label(m.locale), ev.ToStatus.Label(m.locale))
	}
}

// columnWidth splits the terminal width between the columns.
func (m Model) columnWidth() int {
	count := max(1, len(m.columns))
	if m.width <= 0 {
		return 28
	}
	return max(18, (m.width-count*3)/count)
}

// windowBounds returns a visible [start,end) window around selected.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= windowSize {
		return 0, total
	}
	start := clamp(selected-windowSize/2, 0, total-windowSize)
	return start, start + windowSize
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
