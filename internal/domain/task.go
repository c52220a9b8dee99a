package domain

import (
	"strings"
	"time"
)

// DueDateLayout is the calendar-date layout used for due dates at every boundary.
const DueDateLayout = "2006-01-02"

// Assignee identifies the person responsible for a task.
type Assignee struct {
	Name     string
	Initials string
}

// Subtasks tracks checklist progress. Completed never exceeds Total.
type Subtasks struct {
	Completed int
	Total     int
}

// Valid reports whether both counts are non-negative and Completed <= Total.
func (s Subtasks) Valid() bool {
	return s.Completed >= 0 && s.Total >= 0 && s.Completed <= s.Total
}

// Task is one card on the board. Status is the only field mutated after creation.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Assignee    *Assignee
	DueDate     *time.Time
	Comments    int
	Subtasks    Subtasks
}

// TaskInput holds the fields accepted by NewTask.
type TaskInput struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Assignee    *Assignee
	DueDate     *time.Time
	Comments    int
	Subtasks    Subtasks
}

// NewTask validates input, applies the to-do and medium defaults, and returns a task.
func NewTask(in TaskInput) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.ID <= 0 {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !in.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	if in.Comments < 0 {
		return Task{}, ErrInvalidComments
	}
	if !in.Subtasks.Valid() {
		return Task{}, ErrInvalidSubtasks
	}
	assignee, err := normalizeAssignee(in.Assignee)
	if err != nil {
		return Task{}, err
	}

	return Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Assignee:    assignee,
		DueDate:     NormalizeDueDate(in.DueDate),
		Comments:    in.Comments,
		Subtasks:    in.Subtasks,
	}, nil
}

// Input returns the task's fields as a TaskInput, for re-validation on import.
func (t Task) Input() TaskInput {
	return TaskInput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Assignee:    t.Assignee,
		DueDate:     t.DueDate,
		Comments:    t.Comments,
		Subtasks:    t.Subtasks,
	}
}

// SetStatus moves the task to status and reports whether the value changed.
func (t *Task) SetStatus(status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	if t.Status == status {
		return false, nil
	}
	t.Status = status
	return true, nil
}

// Clone returns a deep copy so callers cannot alias pointer fields.
func (t Task) Clone() Task {
	out := t
	if t.Assignee != nil {
		a := *t.Assignee
		out.Assignee = &a
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}

// NormalizeDueDate truncates a due date to its UTC calendar day.
func NormalizeDueDate(due *time.Time) *time.Time {
	if due == nil || due.IsZero() {
		return nil
	}
	u := due.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// ParseDueDate parses a YYYY-MM-DD date; empty input means no due date.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(DueDateLayout, raw)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &ts, nil
}

// NewAssignee builds an assignee, deriving initials from the name when omitted.
func NewAssignee(name, initials string) (*Assignee, error) {
	return normalizeAssignee(&Assignee{Name: name, Initials: initials})
}

func normalizeAssignee(a *Assignee) (*Assignee, error) {
	if a == nil {
		return nil, nil
	}
	name := strings.TrimSpace(a.Name)
	initials := strings.ToUpper(strings.TrimSpace(a.Initials))
	if name == "" && initials == "" {
		return nil, nil
	}
	if name == "" {
		return nil, ErrInvalidAssignee
	}
	if initials == "" {
		initials = deriveInitials(name)
	}
	return &Assignee{Name: name, Initials: initials}, nil
}

// deriveInitials takes the first letter of the first and last words of name.
func deriveInitials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	first := []rune(words[0])
	out := string(first[0])
	if len(words) > 1 {
		last := []rune(words[len(words)-1])
		out += string(last[0])
	}
	return strings.ToUpper(out)
}
