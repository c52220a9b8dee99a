package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/evanschultz/quadro/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	Locale   domain.Locale
	Notifier Notifier
}

// IDGenerator returns unique identifiers for notices.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service is the board state manager. It owns the creation draft and reaches the
// task collection through a Repository. Mutations are serialized.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	idGen  IDGenerator
	clock  Clock
	locale domain.Locale
	notify Notifier
	draft  domain.Draft
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.Locale == "" {
		cfg.Locale = domain.LocaleEnglish
	}
	return &Service{
		repo:   repo,
		idGen:  idGen,
		clock:  clock,
		locale: cfg.Locale,
		notify: cfg.Notifier,
	}
}

// Locale returns the label locale used for notices.
func (s *Service) Locale() domain.Locale {
	return s.locale
}

// MoveResult reports the outcome of MoveTask.
// Matched is false when the id was unknown; Changed is false for same-status moves.
type MoveResult struct {
	Task    domain.Task
	Matched bool
	Changed bool
}

// MoveTask sets the status of one task. Unknown ids and same-status moves succeed without
// changing anything.
func (s *Service) MoveTask(ctx context.Context, taskID int64, status domain.Status) (MoveResult, error) {
	if !status.Valid() {
		return MoveResult{}, domain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return MoveResult{}, err
	}
	idx := slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == taskID })
	if idx < 0 {
		return MoveResult{}, nil
	}

	task := tasks[idx].Clone()
	changed, err := task.SetStatus(status)
	if err != nil {
		return MoveResult{}, err
	}
	if changed {
		if err := s.repo.UpdateTaskStatus(ctx, taskID, status, s.clock().UTC()); err != nil {
			if errors.Is(err, ErrNotFound) {
				return MoveResult{}, nil
			}
			return MoveResult{}, fmt.Errorf("update task %d status: %w", taskID, err)
		}
	}
	s.notifyMoved(status)
	return MoveResult{Task: task, Matched: true, Changed: changed}, nil
}

// CreateTask validates draft and appends a new task with a fresh id, then clears the held draft.
// An empty title yields domain.ErrInvalidTitle and nothing is stored.
func (s *Service) CreateTask(ctx context.Context, draft domain.Draft) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createTaskLocked(ctx, draft)
}

// CommitDraft creates a task from the held draft. The draft is cleared on success and kept on failure.
func (s *Service) CommitDraft(ctx context.Context) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createTaskLocked(ctx, s.draft)
}

// Draft returns the held creation draft.
func (s *Service) Draft() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the held creation draft. Values are checked at commit, not here.
func (s *Service) SetDraft(draft domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

// ResetDraft clears the held creation draft.
func (s *Service) ResetDraft() {
	s.SetDraft(domain.Draft{})
}

func (s *Service) createTaskLocked(ctx context.Context, draft domain.Draft) (domain.Task, error) {
	if err := draft.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidTitle) {
			s.notifyTitleMissing()
		}
		return domain.Task{}, err
	}

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	id, err := s.nextTaskID(ctx, tasks)
	if err != nil {
		return domain.Task{}, err
	}
	if slices.ContainsFunc(tasks, func(t domain.Task) bool { return t.ID == id }) {
		return domain.Task{}, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	task, err := domain.NewTask(draft.TaskInput(id))
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, task, s.clock().UTC()); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.draft = domain.Draft{}
	s.notifyAdded()
	return task, nil
}

// nextTaskID prefers a persistent sequence and falls back to max+1.
func (s *Service) nextTaskID(ctx context.Context, tasks []domain.Task) (int64, error) {
	if seq, ok := s.repo.(IDSequencer); ok {
		id, err := seq.NextTaskID(ctx)
		if err != nil {
			return 0, fmt.Errorf("allocate task id: %w", err)
		}
		return id, nil
	}
	return NextTaskID(tasks), nil
}

// NextTaskID returns one more than the highest id in tasks, or 1 when tasks is empty.
func NextTaskID(tasks []domain.Task) int64 {
	var maxID int64
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	return maxID + 1
}

// ListTasks returns every task in insertion order.
func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx)
}

// FilterByStatus returns a restartable sequence over the tasks in status, in insertion order.
// The sequence reads the collection as it was when FilterByStatus was called.
func (s *Service) FilterByStatus(ctx context.Context, status domain.Status) (iter.Seq[domain.Task], error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTasks(tasks, status), nil
}

// FilterTasks is the stable status filter over an existing slice.
func FilterTasks(tasks []domain.Task, status domain.Status) iter.Seq[domain.Task] {
	return func(yield func(domain.Task) bool) {
		for _, t := range tasks {
			if t.Status != status {
				continue
			}
			if !yield(t.Clone()) {
				return
			}
		}
	}
}

// Column is one status lane of the board.
type Column struct {
	Status domain.Status
	Label  string
	Tasks  []domain.Task
}

// Board groups every task into the four status columns, in board order.
func (s *Service) Board(ctx context.Context) ([]Column, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return GroupColumns(tasks, s.locale), nil
}

// GroupColumns splits tasks into status columns using labels for locale.
func GroupColumns(tasks []domain.Task, locale domain.Locale) []Column {
	statuses := domain.Statuses()
	out := make([]Column, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, Column{
			Status: status,
			Label:  status.Label(locale),
			Tasks:  slices.Collect(FilterTasks(tasks, status)),
		})
	}
	return out
}

// ListChangeEvents returns the newest activity entries, or none when the repository keeps no ledger.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	feed, ok := s.repo.(ChangeFeed)
	if !ok {
		return []domain.ChangeEvent{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return feed.ListChangeEvents(ctx, limit)
}

// SeedFixtures loads the sample board into an empty repository and reports how many tasks it added.
func (s *Service) SeedFixtures(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return 0, err
	}
	if len(tasks) > 0 {
		return 0, nil
	}
	fixtures, err := FixtureTasks()
	if err != nil {
		return 0, err
	}
	now := s.clock().UTC()
	for _, task := range fixtures {
		if err := s.repo.CreateTask(ctx, task, now); err != nil {
			return 0, fmt.Errorf("seed task %d: %w", task.ID, err)
		}
	}
	return len(fixtures), nil
}
