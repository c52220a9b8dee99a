package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/quadro/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "quadro.snapshot.v1"

// Snapshot is the portable JSON form of a board. Tasks keep insertion order.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Tasks      []SnapshotTask `json:"tasks"`
}

// SnapshotTask represents snapshot task data used by this package.
type SnapshotTask struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.Status     `json:"status"`
	Priority    domain.Priority   `json:"priority"`
	Assignee    *SnapshotAssignee `json:"assignee,omitempty"`
	DueDate     string            `json:"due_date,omitempty"`
	Comments    int               `json:"comments"`
	Subtasks    SnapshotSubtasks  `json:"subtasks"`
}

// SnapshotAssignee represents snapshot assignee data used by this package.
type SnapshotAssignee struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// SnapshotSubtasks represents snapshot subtask progress.
type SnapshotSubtasks struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Tasks:      make([]SnapshotTask, 0, len(tasks)),
	}
	for _, task := range tasks {
		snap.Tasks = append(snap.Tasks, snapshotTaskFromDomain(task))
	}
	return snap, nil
}

// ImportSnapshot creates every snapshot task in order. A task whose id already exists is
// accepted only when its fields match, in which case its status is applied.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) (int, error) {
	tasks, err := snap.toDomain()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.ListTasks(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]domain.Task, len(existing))
	for _, task := range existing {
		byID[task.ID] = task
	}

	now := s.clock().UTC()
	created := 0
	for _, task := range tasks {
		current, ok := byID[task.ID]
		if !ok {
			if err := s.repo.CreateTask(ctx, task, now); err != nil {
				return created, fmt.Errorf("import task %d: %w", task.ID, err)
			}
			created++
			continue
		}
		if !sameContent(current, task) {
			return created, fmt.Errorf("%w: %d", ErrDuplicateID, task.ID)
		}
		if current.Status != task.Status {
			if err := s.repo.UpdateTaskStatus(ctx, task.ID, task.Status, now); err != nil {
				return created, fmt.Errorf("import task %d status: %w", task.ID, err)
			}
		}
	}
	return created, nil
}

// Validate validates the requested operation.
func (s Snapshot) Validate() error {
	_, err := s.toDomain()
	return err
}

// DecodeSnapshot parses snapshot JSON and validates it.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s Snapshot) toDomain() ([]domain.Task, error) {
	if s.Version != "" && s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}
	seen := map[int64]struct{}{}
	out := make([]domain.Task, 0, len(s.Tasks))
	for i, st := range s.Tasks {
		if _, dup := seen[st.ID]; dup {
			return nil, fmt.Errorf("%w: tasks[%d] repeats id %d", ErrDuplicateID, i, st.ID)
		}
		seen[st.ID] = struct{}{}
		task, err := st.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d]: %w", ErrInvalidSnapshot, i, err)
		}
		out = append(out, task)
	}
	return out, nil
}

func snapshotTaskFromDomain(t domain.Task) SnapshotTask {
	out := SnapshotTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Comments:    t.Comments,
		Subtasks:    SnapshotSubtasks{Total: t.Subtasks.Total, Completed: t.Subtasks.Completed},
	}
	if t.Assignee != nil {
		out.Assignee = &SnapshotAssignee{Name: t.Assignee.Name, Initials: t.Assignee.Initials}
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(domain.DueDateLayout)
	}
	return out
}

func (t SnapshotTask) toDomain() (domain.Task, error) {
	due, err := domain.ParseDueDate(t.DueDate)
	if err != nil {
		return domain.Task{}, err
	}
	var assignee *domain.Assignee
	if t.Assignee != nil {
		assignee = &domain.Assignee{Name: t.Assignee.Name, Initials: t.Assignee.Initials}
	}
	status, err := domain.ParseStatus(string(t.Status))
	if err != nil {
		return domain.Task{}, err
	}
	priority := t.Priority
	if strings.TrimSpace(string(priority)) != "" {
		if priority, err = domain.ParsePriority(string(priority)); err != nil {
			return domain.Task{}, err
		}
	}
	return domain.NewTask(domain.TaskInput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      status,
		Priority:    priority,
		Assignee:    assignee,
		DueDate:     due,
		Comments:    t.Comments,
		Subtasks:    domain.Subtasks{Total: t.Subtasks.Total, Completed: t.Subtasks.Completed},
	})
}

// sameContent compares every field except status.
func sameContent(a, b domain.Task) bool {
	a.Status, b.Status = "", ""
	sa, sb := snapshotTaskFromDomain(a), snapshotTaskFromDomain(b)
	return sa.ID == sb.ID &&
		sa.Title == sb.Title &&
		sa.Description == sb.Description &&
		sa.Priority == sb.Priority &&
		sa.DueDate == sb.DueDate &&
		sa.Comments == sb.Comments &&
		sa.Subtasks == sb.Subtasks &&
		slices.Equal(assigneeKey(sa.Assignee), assigneeKey(sb.Assignee))
}

func assigneeKey(a *SnapshotAssignee) []string {
	if a == nil {
		return nil
	}
	return []string{a.Name, a.Initials}
}
