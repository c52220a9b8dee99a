package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evanschultz/quadro/internal/adapters/storage/memory"
	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

func newSeededAdapter(t *testing.T) *AppServiceAdapter {
	t.Helper()
	svc := app.NewService(memory.New(), nil, func() time.Time {
		return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	}, app.ServiceConfig{})
	if _, err := svc.SeedFixtures(context.Background()); err != nil {
		t.Fatalf("SeedFixtures() error = %v", err)
	}
	return NewAppServiceAdapter(svc)
}

func TestAppServiceAdapterListTasksFiltersByStatusAlias(t *testing.T) {
	adapter := newSeededAdapter(t)
	tasks, err := adapter.ListTasks(context.Background(), ListTasksRequest{Status: "inProgress"})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 3 || tasks[1].ID != 4 {
		t.Fatalf("unexpected in-progress tasks %#v", tasks)
	}
	if tasks[0].StatusLabel != "In Progress" || tasks[0].Assignee == nil || tasks[0].DueDate != "2023-06-20" {
		t.Fatalf("unexpected view %#v", tasks[0])
	}
	if _, err := adapter.ListTasks(context.Background(), ListTasksRequest{Status: "later"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestAppServiceAdapterCreateAndMove(t *testing.T) {
	adapter := newSeededAdapter(t)
	ctx := context.Background()

	if _, err := adapter.CreateTask(ctx, DraftView{Title: " "}); !errors.Is(err, ErrInvalidRequest) || !errors.Is(err, domain.ErrInvalidTitle) {
		t.Fatalf("expected invalid title request error, got %v", err)
	}
	created, err := adapter.CreateTask(ctx, DraftView{Title: "New", Priority: "high", AssigneeName: "Juliana Costa", DueDate: "2023-07-01"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID != 7 || created.Status != "to-do" || created.Priority != "high" || created.Assignee.Initials != "JC" {
		t.Fatalf("unexpected created task %#v", created)
	}

	res, err := adapter.MoveTask(ctx, MoveTaskRequest{TaskID: created.ID, Status: "review"})
	if err != nil {
		t.Fatalf("MoveTask() error = %v", err)
	}
	if !res.Matched || !res.Changed || res.Task == nil || res.Task.Status != "in-review" {
		t.Fatalf("unexpected move result %#v", res)
	}
	res, err = adapter.MoveTask(ctx, MoveTaskRequest{TaskID: 404, Status: "done"})
	if err != nil || res.Matched || res.Task != nil {
		t.Fatalf("expected unmatched move, got %#v, %v", res, err)
	}

	board, err := adapter.GetBoard(ctx)
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if board.Total != 7 || board.Columns[2].Count != 2 {
		t.Fatalf("unexpected board %#v", board)
	}

	activity, err := adapter.ListActivity(ctx, 1)
	if err != nil || len(activity) != 1 || activity[0].Operation != "move" {
		t.Fatalf("unexpected activity %#v, %v", activity, err)
	}
}

func TestAppServiceAdapterDraftFlow(t *testing.T) {
	adapter := newSeededAdapter(t)
	ctx := context.Background()

	if _, err := adapter.SetDraft(ctx, DraftView{Description: "untitled", Priority: "low"}); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}
	if _, err := adapter.CommitDraft(ctx); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	draft, _ := adapter.GetDraft(ctx)
	if draft.Description != "untitled" || draft.Priority != "low" {
		t.Fatalf("expected preserved draft, got %#v", draft)
	}
	draft.Title = "Titled"
	if _, err := adapter.SetDraft(ctx, draft); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}
	task, err := adapter.CommitDraft(ctx)
	if err != nil || task.Title != "Titled" {
		t.Fatalf("CommitDraft() = %#v, %v", task, err)
	}
	draft, _ = adapter.GetDraft(ctx)
	if draft != (DraftView{}) {
		t.Fatalf("expected cleared draft, got %#v", draft)
	}
	if _, err := adapter.SetDraft(ctx, DraftView{Status: "blocked"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestAppServiceAdapterSearchLimit(t *testing.T) {
	adapter := newSeededAdapter(t)
	matches, err := adapter.SearchTasks(context.Background(), "", 2)
	if err != nil || len(matches) != 2 {
		t.Fatalf("SearchTasks() = %d, %v", len(matches), err)
	}
}

func TestNilAdapterIsNotConfigured(t *testing.T) {
	var adapter *AppServiceAdapter
	if _, err := adapter.ListTasks(context.Background(), ListTasksRequest{}); err == nil {
		t.Fatal("expected error from nil adapter")
	}
}
