package app

import (
	"context"
	"time"

	"github.com/evanschultz/quadro/internal/domain"
)

// Repository is the storage port behind the board.
// ListTasks returns tasks in insertion order. UpdateTaskStatus returns ErrNotFound for unknown ids.
type Repository interface {
	ListTasks(context.Context) ([]domain.Task, error)
	CreateTask(context.Context, domain.Task, time.Time) error
	UpdateTaskStatus(context.Context, int64, domain.Status, time.Time) error
}

// IDSequencer is implemented by repositories that persist a task id counter.
// Ids it returns are never reused.
type IDSequencer interface {
	NextTaskID(context.Context) (int64, error)
}

// ChangeFeed is implemented by repositories that keep an activity ledger.
type ChangeFeed interface {
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}
