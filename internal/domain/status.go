package domain

import (
	"slices"
	"strings"
)

// Status identifies the board column a task currently sits in.
type Status string

// Status values, in board order.
const (
	StatusTodo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusInReview   Status = "in-review"
	StatusDone       Status = "done"
)

var validStatuses = []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

// statusAliases maps loose spellings accepted at input boundaries onto canonical values.
var statusAliases = map[string]Status{
	"todo":        StatusTodo,
	"to_do":       StatusTodo,
	"inprogress":  StatusInProgress,
	"in_progress": StatusInProgress,
	"doing":       StatusInProgress,
	"review":      StatusInReview,
	"inreview":    StatusInReview,
	"in_review":   StatusInReview,
	"completed":   StatusDone,
}

// Statuses returns every status in board order.
func Statuses() []Status {
	return slices.Clone(validStatuses)
}

// Valid reports whether s is one of the board statuses.
func (s Status) Valid() bool {
	return slices.Contains(validStatuses, s)
}

// Index returns the board position of s, or -1 when s is unknown.
func (s Status) Index() int {
	return slices.Index(validStatuses, s)
}

// Next returns the status to the right of s, clamped at done.
func (s Status) Next() Status {
	idx := s.Index()
	if idx < 0 || idx == len(validStatuses)-1 {
		return s
	}
	return validStatuses[idx+1]
}

// Prev returns the status to the left of s, clamped at to-do.
func (s Status) Prev() Status {
	idx := s.Index()
	if idx <= 0 {
		return s
	}
	return validStatuses[idx-1]
}

// ParseStatus normalizes raw input into a canonical status.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", ErrInvalidStatus
	}
	if s := Status(key); s.Valid() {
		return s, nil
	}
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	return "", ErrInvalidStatus
}

// Priority ranks the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns every priority from lowest to highest.
func Priorities() []Priority {
	return slices.Clone(validPriorities)
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return slices.Contains(validPriorities, p)
}

// Next cycles p upward, wrapping from high back to low.
func (p Priority) Next() Priority {
	idx := slices.Index(validPriorities, p)
	if idx < 0 {
		return PriorityMedium
	}
	return validPriorities[(idx+1)%len(validPriorities)]
}

// ParsePriority normalizes raw input into a canonical priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}
