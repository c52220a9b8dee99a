// Package memory provides a process-local board repository. Nothing outlives the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

// Repository keeps tasks in insertion order behind a mutex. It implements app.Repository
// and app.ChangeFeed; ids come from the service's max+1 rule.
type Repository struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	index  map[int64]int
	events []domain.ChangeEvent
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{index: map[int64]int{}}
}

// ListTasks returns copies of every task in insertion order.
func (r *Repository) ListTasks(context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

// CreateTask appends one task and records a create event.
func (r *Repository) CreateTask(_ context.Context, t domain.Task, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[t.ID]; exists {
		return fmt.Errorf("%w: %d", app.ErrDuplicateID, t.ID)
	}
	r.index[t.ID] = len(r.tasks)
	r.tasks = append(r.tasks, t.Clone())
	r.appendEvent(domain.ChangeEvent{
		TaskID:     t.ID,
		Operation:  domain.ChangeOperationCreate,
		ToStatus:   t.Status,
		OccurredAt: at.UTC(),
	})
	return nil
}

// UpdateTaskStatus sets the status of one task. Unknown ids return app.ErrNotFound.
func (r *Repository) UpdateTaskStatus(_ context.Context, id int64, status domain.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.index[id]
	if !ok {
		return app.ErrNotFound
	}
	prev := r.tasks[idx].Status
	changed, err := r.tasks[idx].SetStatus(status)
	if err != nil || !changed {
		return err
	}
	r.appendEvent(domain.ChangeEvent{
		TaskID:     id,
		Operation:  domain.ChangeOperationMove,
		FromStatus: prev,
		ToStatus:   status,
		OccurredAt: at.UTC(),
	})
	return nil
}

// ListChangeEvents returns up to limit events, newest first.
func (r *Repository) ListChangeEvents(_ context.Context, limit int) ([]domain.ChangeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.events)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) appendEvent(ev domain.ChangeEvent) {
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
}
