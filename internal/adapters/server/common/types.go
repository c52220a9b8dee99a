// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRequest reports malformed or invalid transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrConflict reports a write that collides with existing state.
var ErrConflict = errors.New("conflict")

// AssigneeView is the JSON form of an assignee.
type AssigneeView struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// SubtasksView is the JSON form of subtask progress.
type SubtasksView struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TaskView is the JSON form of one task.
type TaskView struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	StatusLabel   string        `json:"status_label"`
	Priority      string        `json:"priority"`
	PriorityLabel string        `json:"priority_label"`
	Assignee      *AssigneeView `json:"assignee,omitempty"`
	DueDate       string        `json:"due_date,omitempty"`
	Comments      int           `json:"comments"`
	Subtasks      SubtasksView  `json:"subtasks"`
}

// ColumnView is one status lane of the board.
type ColumnView struct {
	Status string     `json:"status"`
	Label  string     `json:"label"`
	Count  int        `json:"count"`
	Tasks  []TaskView `json:"tasks"`
}

// BoardView is the full board grouped by status.
type BoardView struct {
	Columns []ColumnView `json:"columns"`
	Total   int          `json:"total"`
}

// TaskMatchView is one ranked search hit.
type TaskMatchView struct {
	Task  TaskView `json:"task"`
	Score int      `json:"score"`
}

// ChangeEventView is one activity-ledger entry.
type ChangeEventView struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	Operation  string    `json:"operation"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DraftView carries draft or create-task fields. Empty strings mean unset.
type DraftView struct {
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Status           string `json:"status,omitempty"`
	Priority         string `json:"priority,omitempty"`
	AssigneeName     string `json:"assignee_name,omitempty"`
	AssigneeInitials string `json:"assignee_initials,omitempty"`
	DueDate          string `json:"due_date,omitempty"`
}

// ListTasksRequest filters the task list; an empty status lists everything.
type ListTasksRequest struct {
	Status string
}

// MoveTaskRequest asks for one status change.
type MoveTaskRequest struct {
	TaskID int64
	Status string
}

// MoveTaskResult reports a status change. Task is nil when the id matched nothing.
type MoveTaskResult struct {
	Matched bool      `json:"matched"`
	Changed bool      `json:"changed"`
	Task    *TaskView `json:"task,omitempty"`
}

// BoardService is the board surface shared by the HTTP and MCP transports.
type BoardService interface {
	ListTasks(context.Context, ListTasksRequest) ([]TaskView, error)
	CreateTask(context.Context, DraftView) (TaskView, error)
	MoveTask(context.Context, MoveTaskRequest) (MoveTaskResult, error)
	GetBoard(context.Context) (BoardView, error)
	SearchTasks(context.Context, string, int) ([]TaskMatchView, error)
	ListActivity(context.Context, int) ([]ChangeEventView, error)
}

// DraftService exposes the held creation draft.
type DraftService interface {
	GetDraft(context.Context) (DraftView, error)
	SetDraft(context.Context, DraftView) (DraftView, error)
	ResetDraft(context.Context) error
	CommitDraft(context.Context) (TaskView, error)
}
