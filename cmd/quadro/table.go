package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle.Padding(0, 1)
			}
			return tableCellStyle
		})
}

// renderTaskTable lays tasks out one per row with localized labels.
func renderTaskTable(tasks []domain.Task, locale domain.Locale) string {
	t := newTable("ID", "Title", "Status", "Priority", "Assignee", "Due")
	for _, task := range tasks {
		t.Row(taskRow(task, locale)...)
	}
	return t.String()
}

// renderMatchTable lays search matches out in rank order.
func renderMatchTable(matches []app.TaskMatch, locale domain.Locale) string {
	t := newTable("Score", "ID", "Title", "Status")
	for _, match := range matches {
		t.Row(
			strconv.Itoa(match.Score),
			strconv.FormatInt(match.Task.ID, 10),
			match.Task.Title,
			match.Task.Status.Label(locale),
		)
	}
	return t.String()
}

// renderActivityTable lays change events out newest first.
func renderActivityTable(events []domain.ChangeEvent, locale domain.Locale) string {
	t := newTable("When", "Task", "Operation", "From", "To")
	for _, ev := range events {
		from := "-"
		if ev.FromStatus != "" {
			from = ev.FromStatus.Label(locale)
		}
		t.Row(
			ev.OccurredAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("#%d", ev.TaskID),
			string(ev.Operation),
			from,
			ev.ToStatus.Label(locale),
		)
	}
	return t.String()
}

func taskRow(task domain.Task, locale domain.Locale) []string {
	assignee := "-"
	if task.Assignee != nil {
		assignee = task.Assignee.Name
	}
	due := "-"
	if task.DueDate != nil {
		due = task.DueDate.Format(domain.DueDateLayout)
	}
	return []string{
		strconv.FormatInt(task.ID, 10),
		task.Title,
		task.Status.Label(locale),
		task.Priority.Label(locale),
		assignee,
		due,
	}
}
