package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	desc := "    indented code\n\nbody "
	task, err := NewTask(TaskInput{ID: 7, Title: "  Ship it  ", Description: desc})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Title != "Ship it" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Description != desc {
		t.Fatalf("expected description kept verbatim, got %q", task.Description)
	}
	if task.Status != StatusTodo {
		t.Fatalf("expected default status to-do, got %q", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", task.Priority)
	}
	if task.Comments != 0 || task.Subtasks != (Subtasks{}) {
		t.Fatalf("expected zeroed counts, got %d %#v", task.Comments, task.Subtasks)
	}
}

func TestNewTaskValidation(t *testing.T) {
	cases := []struct {
		name string
		in   TaskInput
		want error
	}{
		{name: "missing id", in: TaskInput{Title: "x"}, want: ErrInvalidID},
		{name: "blank title", in: TaskInput{ID: 1, Title: "   "}, want: ErrInvalidTitle},
		{name: "bad status", in: TaskInput{ID: 1, Title: "x", Status: "blocked"}, want: ErrInvalidStatus},
		{name: "bad priority", in: TaskInput{ID: 1, Title: "x", Priority: "urgent"}, want: ErrInvalidPriority},
		{name: "negative comments", in: TaskInput{ID: 1, Title: "x", Comments: -1}, want: ErrInvalidComments},
		{name: "completed over total", in: TaskInput{ID: 1, Title: "x", Subtasks: Subtasks{Completed: 3, Total: 2}}, want: ErrInvalidSubtasks},
		{name: "initials without name", in: TaskInput{ID: 1, Title: "x", Assignee: &Assignee{Initials: "AS"}}, want: ErrInvalidAssignee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTask(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewTaskNormalizesAssigneeAndDueDate(t *testing.T) {
	due := time.Date(2023, 6, 15, 18, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	task, err := NewTask(TaskInput{
		ID:       1,
		Title:    "x",
		Assignee: &Assignee{Name: " Ana Maria Silva "},
		DueDate:  &due,
	})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Assignee == nil || task.Assignee.Initials != "AS" || task.Assignee.Name != "Ana Maria Silva" {
		t.Fatalf("unexpected assignee %#v", task.Assignee)
	}
	if got := task.DueDate.Format(DueDateLayout); got != "2023-06-15" {
		t.Fatalf("unexpected due date %q", got)
	}
}

func TestTaskSetStatus(t *testing.T) {
	task, err := NewTask(TaskInput{ID: 1, Title: "x"})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	changed, err := task.SetStatus(StatusTodo)
	if err != nil || changed {
		t.Fatalf("expected same-status move to be a no-op, got changed=%t err=%v", changed, err)
	}
	changed, err = task.SetStatus(StatusDone)
	if err != nil || !changed || task.Status != StatusDone {
		t.Fatalf("expected move to done, got changed=%t err=%v status=%q", changed, err, task.Status)
	}
	if _, err := task.SetStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if task.Status != StatusDone {
		t.Fatalf("invalid move must not change status, got %q", task.Status)
	}
}

func TestParseStatusAliases(t *testing.T) {
	cases := map[string]Status{
		"to-do":        StatusTodo,
		"todo":         StatusTodo,
		"inProgress":   StatusInProgress,
		" in_progress": StatusInProgress,
		"review":       StatusInReview,
		"DONE":         StatusDone,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseStatus("later"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusNavigation(t *testing.T) {
	if StatusTodo.Prev() != StatusTodo {
		t.Fatal("expected prev of to-do to clamp")
	}
	if StatusDone.Next() != StatusDone {
		t.Fatal("expected next of done to clamp")
	}
	if StatusInProgress.Next() != StatusInReview || StatusInProgress.Prev() != StatusTodo {
		t.Fatal("unexpected neighbours for in-progress")
	}
	if PriorityHigh.Next() != PriorityLow {
		t.Fatal("expected priority cycle to wrap")
	}
}

func TestDraftValidateAndInput(t *testing.T) {
	if err := (Draft{}).Validate(); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if !(Draft{}).IsZero() {
		t.Fatal("expected empty draft to be zero")
	}
	d := Draft{Title: "X", Priority: PriorityHigh}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	in := d.TaskInput(9)
	if in.ID != 9 || in.Comments != 0 || in.Subtasks != (Subtasks{}) {
		t.Fatalf("unexpected task input %#v", in)
	}
}

func TestLabels(t *testing.T) {
	if got := StatusInReview.Label(LocalePortuguese); got != "Em revisão" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := PriorityMedium.Label(LocaleEnglish); got != "Medium" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := StatusDone.Label("fr"); got != "Done" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if _, ok := ParseLocale("pt-br"); !ok {
		t.Fatal("expected case-insensitive locale parse")
	}
}
