package common

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service board APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// ListTasks lists tasks, filtered by status when one is given.
func (a *AppServiceAdapter) ListTasks(ctx context.Context, in ListTasksRequest) ([]TaskView, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(in.Status)
	if raw == "" {
		tasks, err := a.service.ListTasks(ctx)
		if err != nil {
			return nil, mapAppError("list tasks", err)
		}
		return a.taskViews(tasks), nil
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, mapAppError("list tasks", err)
	}
	seq, err := a.service.FilterByStatus(ctx, status)
	if err != nil {
		return nil, mapAppError("list tasks", err)
	}
	return a.taskViews(slices.Collect(seq)), nil
}

// CreateTask creates one task from draft-shaped input.
func (a *AppServiceAdapter) CreateTask(ctx context.Context, in DraftView) (TaskView, error) {
	if err := a.ready(); err != nil {
		return TaskView{}, err
	}
	draft, err := DraftFromView(in)
	if err != nil {
		return TaskView{}, mapAppError("create task", err)
	}
	task, err := a.service.CreateTask(ctx, draft)
	if err != nil {
		return TaskView{}, mapAppError("create task", err)
	}
	return TaskViewFromDomain(task, a.service.Locale()), nil
}

// MoveTask changes one task's status. Unknown ids report Matched=false without error.
func (a *AppServiceAdapter) MoveTask(ctx context.Context, in MoveTaskRequest) (MoveTaskResult, error) {
	if err := a.ready(); err != nil {
		return MoveTaskResult{}, err
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return MoveTaskResult{}, mapAppError("move task", err)
	}
	res, err := a.service.MoveTask(ctx, in.TaskID, status)
	if err != nil {
		return MoveTaskResult{}, mapAppError("move task", err)
	}
	out := MoveTaskResult{Matched: res.Matched, Changed: res.Changed}
	if res.Matched {
		view := TaskViewFromDomain(res.Task, a.service.Locale())
		out.Task = &view
	}
	return out, nil
}

// GetBoard returns every column with its tasks.
func (a *AppServiceAdapter) GetBoard(ctx context.Context) (BoardView, error) {
	if err := a.ready(); err != nil {
		return BoardView{}, err
	}
	columns, err := a.service.Board(ctx)
	if err != nil {
		return BoardView{}, mapAppError("get board", err)
	}
	out := BoardView{Columns: make([]ColumnView, 0, len(columns))}
	for _, col := range columns {
		out.Columns = append(out.Columns, ColumnView{
			Status: string(col.Status),
			Label:  col.Label,
			Count:  len(col.Tasks),
			Tasks:  a.taskViews(col.Tasks),
		})
		out.Total += len(col.Tasks)
	}
	return out, nil
}

// SearchTasks returns up to limit ranked matches; limit <= 0 means no cap.
func (a *AppServiceAdapter) SearchTasks(ctx context.Context, query string, limit int) ([]TaskMatchView, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	matches, err := a.service.SearchTasks(ctx, query)
	if err != nil {
		return nil, mapAppError("search tasks", err)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]TaskMatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, TaskMatchView{Task: TaskViewFromDomain(m.Task, a.service.Locale()), Score: m.Score})
	}
	return out, nil
}

// ListActivity returns the newest change events.
func (a *AppServiceAdapter) ListActivity(ctx context.Context, limit int) ([]ChangeEventView, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	events, err := a.service.ListChangeEvents(ctx, limit)
	if err != nil {
		return nil, mapAppError("list activity", err)
	}
	out := make([]ChangeEventView, 0, len(events))
	for _, ev := range events {
		out = append(out, ChangeEventView{
			ID:         ev.ID,
			TaskID:     ev.TaskID,
			Operation:  string(ev.Operation),
			FromStatus: string(ev.FromStatus),
			ToStatus:   string(ev.ToStatus),
			OccurredAt: ev.OccurredAt.UTC(),
		})
	}
	return out, nil
}

// GetDraft returns the held creation draft.
func (a *AppServiceAdapter) GetDraft(_ context.Context) (DraftView, error) {
	if err := a.ready(); err != nil {
		return DraftView{}, err
	}
	return DraftViewFromDomain(a.service.Draft()), nil
}

// SetDraft replaces the held draft. A missing title is allowed until commit.
func (a *AppServiceAdapter) SetDraft(_ context.Context, in DraftView) (DraftView, error) {
	if err := a.ready(); err != nil {
		return DraftView{}, err
	}
	draft, err := DraftFromView(in)
	if err != nil {
		return DraftView{}, mapAppError("set draft", err)
	}
	a.service.SetDraft(draft)
	return DraftViewFromDomain(draft), nil
}

// ResetDraft clears the held draft.
func (a *AppServiceAdapter) ResetDraft(_ context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.service.ResetDraft()
	return nil
}

// CommitDraft creates a task from the held draft.
func (a *AppServiceAdapter) CommitDraft(ctx context.Context) (TaskView, error) {
	if err := a.ready(); err != nil {
		return TaskView{}, err
	}
	task, err := a.service.CommitDraft(ctx)
	if err != nil {
		return TaskView{}, mapAppError("commit draft", err)
	}
	return TaskViewFromDomain(task, a.service.Locale()), nil
}

func (a *AppServiceAdapter) ready() error {
	if a == nil || a.service == nil {
		return errors.New("app service adapter is not configured")
	}
	return nil
}

func (a *AppServiceAdapter) taskViews(tasks []domain.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, TaskViewFromDomain(task, a.service.Locale()))
	}
	return out
}

// TaskViewFromDomain converts one task into its JSON view.
func TaskViewFromDomain(t domain.Task, locale domain.Locale) TaskView {
	out := TaskView{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		StatusLabel:   t.Status.Label(locale),
		Priority:      string(t.Priority),
		PriorityLabel: t.Priority.Label(locale),
		Comments:      t.Comments,
		Subtasks:      SubtasksView{Total: t.Subtasks.Total, Completed: t.Subtasks.Completed},
	}
	if t.Assignee != nil {
		out.Assignee = &AssigneeView{Name: t.Assignee.Name, Initials: t.Assignee.Initials}
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(domain.DueDateLayout)
	}
	return out
}

// DraftFromView parses transport draft fields. Title is not checked here.
func DraftFromView(in DraftView) (domain.Draft, error) {
	draft := domain.Draft{
		Title:       in.Title,
		Description: in.Description,
	}
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.Draft{}, err
		}
		draft.Status = status
	}
	if raw := strings.TrimSpace(in.Priority); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return domain.Draft{}, err
		}
		draft.Priority = priority
	}
	assignee, err := domain.NewAssignee(in.AssigneeName, in.AssigneeInitials)
	if err != nil {
		return domain.Draft{}, err
	}
	draft.Assignee = assignee
	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return domain.Draft{}, err
	}
	draft.DueDate = due
	return draft, nil
}

// DraftViewFromDomain converts a draft into its JSON view.
func DraftViewFromDomain(d domain.Draft) DraftView {
	out := DraftView{
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
	}
	if d.Assignee != nil {
		out.AssigneeName = d.Assignee.Name
		out.AssigneeInitials = d.Assignee.Initials
	}
	if d.DueDate != nil {
		out.DueDate = d.DueDate.Format(domain.DueDateLayout)
	}
	return out
}

// mapAppError maps app and domain errors onto transport sentinels.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, app.ErrDuplicateID):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrConflict, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidAssignee),
		errors.Is(err, domain.ErrInvalidComments),
		errors.Is(err, domain.ErrInvalidSubtasks),
		errors.Is(err, domain.ErrInvalidDueDate):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
