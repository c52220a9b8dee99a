package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/quadro/internal/domain"
)

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// taskMarkdown lays out one task as a markdown document for the info overlay.
func taskMarkdown(task domain.Task, locale domain.Locale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# #%d %s\n\n", task.ID, task.Title)
	fmt.Fprintf(&b, "- **status:** %s\n", task.Status.Label(locale))
	fmt.Fprintf(&b, "- **priority:** %s\n", task.Priority.Label(locale))
	if task.Assignee != nil {
		fmt.Fprintf(&b, "- **assignee:** %s (%s)\n", task.Assignee.Name, task.Assignee.Initials)
	}
	if task.DueDate != nil {
		fmt.Fprintf(&b, "- **due:** %s\n", task.DueDate.Format(domain.DueDateLayout))
	}
	fmt.Fprintf(&b, "- **comments:** %d\n", task.Comments)
	if task.Subtasks.Total > 0 {
		fmt.Fprintf(&b, "- **subtasks:** %d/%d\n", task.Subtasks.Completed, task.Subtasks.Total)
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}
