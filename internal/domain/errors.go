package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidTitle     = errors.New("task title is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidAssignee  = errors.New("invalid assignee")
	ErrInvalidComments  = errors.New("invalid comment count")
	ErrInvalidSubtasks  = errors.New("invalid subtask progress")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrInvalidOperation = errors.New("invalid change operation")
)
