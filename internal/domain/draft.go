package domain

import (
	"strings"
	"time"
)

// Draft is the partially filled task held by the creation dialog before commit.
type Draft struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Assignee    *Assignee
	DueDate     *time.Time
}

// IsZero reports whether nothing has been entered yet.
func (d Draft) IsZero() bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		d.Status == "" &&
		d.Priority == "" &&
		d.Assignee == nil &&
		d.DueDate == nil
}

// Validate checks the only precondition a draft carries before commit.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrInvalidTitle
	}
	if d.Status != "" && !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskInput converts the draft into constructor input for id. Counts start at zero.
func (d Draft) TaskInput(id int64) TaskInput {
	return TaskInput{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Assignee:    d.Assignee,
		DueDate:     d.DueDate,
	}
}
