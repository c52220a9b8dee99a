package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evanschultz/quadro/internal/adapters/server/common"
)

// stubBoardService provides deterministic board responses for handler tests.
type stubBoardService struct {
	tasks      []common.TaskView
	created    common.TaskView
	move       common.MoveTaskResult
	board      common.BoardView
	matches    []common.TaskMatchView
	events     []common.ChangeEventView
	err        error
	lastList   common.ListTasksRequest
	lastCreate common.DraftView
	lastMove   common.MoveTaskRequest
	lastQuery  string
	lastLimit  int
}

// ListTasks records the request and returns the configured tasks.
func (s *stubBoardService) ListTasks(_ context.Context, req common.ListTasksRequest) ([]common.TaskView, error) {
	s.lastList = req
	if s.err != nil {
		return nil, s.err
	}
	return append([]common.TaskView(nil), s.tasks...), nil
}

// CreateTask records the request and returns the configured task.
func (s *stubBoardService) CreateTask(_ context.Context, req common.DraftView) (common.TaskView, error) {
	s.lastCreate = req
	if s.err != nil {
		return common.TaskView{}, s.err
	}
	return s.created, nil
}

// MoveTask records the request and returns the configured result.
func (s *stubBoardService) MoveTask(_ context.Context, req common.MoveTaskRequest) (common.MoveTaskResult, error) {
	s.lastMove = req
	if s.err != nil {
		return common.MoveTaskResult{}, s.err
	}
	return s.move, nil
}

// GetBoard returns the configured board.
func (s *stubBoardService) GetBoard(context.Context) (common.BoardView, error) {
	return s.board, s.err
}

// SearchTasks records the query and returns the configured matches.
func (s *stubBoardService) SearchTasks(_ context.Context, query string, limit int) ([]common.TaskMatchView, error) {
	s.lastQuery, s.lastLimit = query, limit
	return s.matches, s.err
}

// ListActivity records the limit and returns the configured events.
func (s *stubBoardService) ListActivity(_ context.Context, limit int) ([]common.ChangeEventView, error) {
	s.lastLimit = limit
	return s.events, s.err
}

// stubDraftService keeps one draft in memory.
type stubDraftService struct {
	draft     common.DraftView
	commitErr error
}

func (s *stubDraftService) GetDraft(context.Context) (common.DraftView, error) { return s.draft, nil }

func (s *stubDraftService) SetDraft(_ context.Context, in common.DraftView) (common.DraftView, error) {
	s.draft = in
	return in, nil
}

func (s *stubDraftService) ResetDraft(context.Context) error {
	s.draft = common.DraftView{}
	return nil
}

func (s *stubDraftService) CommitDraft(context.Context) (common.TaskView, error) {
	if s.commitErr != nil {
		return common.TaskView{}, s.commitErr
	}
	task := common.TaskView{ID: 9, Title: s.draft.Title}
	s.draft = common.DraftView{}
	return task, nil
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestHandlerListTasksPassesStatusFilter verifies query mapping for task listing.
func TestHandlerListTasksPassesStatusFilter(t *testing.T) {
	board := &stubBoardService{tasks: []common.TaskView{{ID: 6, Status: "done"}}}
	rec := serve(NewHandler(board, nil), http.MethodGet, "/tasks?status=done", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got struct {
		Tasks []common.TaskView `json:"tasks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != 6 {
		t.Fatalf("unexpected tasks %#v", got.Tasks)
	}
	if board.lastList.Status != "done" {
		t.Fatalf("status filter = %q, want done", board.lastList.Status)
	}
}

// TestHandlerCreateTask verifies create decoding and error mapping.
func TestHandlerCreateTask(t *testing.T) {
	board := &stubBoardService{created: common.TaskView{ID: 7, Title: "X", Status: "to-do"}}
	h := NewHandler(board, nil)

	rec := serve(h, http.MethodPost, "/tasks", `{"title":"X","priority":"high"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if board.lastCreate.Title != "X" || board.lastCreate.Priority != "high" {
		t.Fatalf("unexpected create request %#v", board.lastCreate)
	}

	board.err = fmt.Errorf("create task: %w", common.ErrInvalidRequest)
	rec = serve(h, http.MethodPost, "/tasks", `{"title":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var env ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if env.Error.Code != "invalid_request" {
		t.Fatalf("error code = %q, want invalid_request", env.Error.Code)
	}
}

// TestHandlerRejectsMalformedBodies verifies strict JSON decoding.
func TestHandlerRejectsMalformedBodies(t *testing.T) {
	h := NewHandler(&stubBoardService{}, nil)
	cases := map[string]string{
		"unknown field": `{"title":"x","owner":"me"}`,
		"trailing":      `{"title":"x"}{"title":"y"}`,
		"not json":      `title=x`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/tasks", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

// TestHandlerMoveTask verifies move routing, unmatched ids, and method guards.
func TestHandlerMoveTask(t *testing.T) {
	board := &stubBoardService{move: common.MoveTaskResult{Matched: true, Changed: true, Task: &common.TaskView{ID: 2, Status: "done"}}}
	h := NewHandler(board, nil)

	rec := serve(h, http.MethodPost, "/tasks/2/move", `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if board.lastMove.TaskID != 2 || board.lastMove.Status != "done" {
		t.Fatalf("unexpected move request %#v", board.lastMove)
	}

	board.move = common.MoveTaskResult{}
	rec = serve(h, http.MethodPost, "/tasks/99/move", `{"status":"done"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = serve(h, http.MethodGet, "/tasks/2/move", "")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("unexpected method guard %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}

	rec = serve(h, http.MethodPost, "/tasks/abc/move", `{"status":"done"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d for non-numeric id", rec.Code, http.StatusNotFound)
	}
}

// TestHandlerSearchAndActivityLimits verifies limit parsing.
func TestHandlerSearchAndActivityLimits(t *testing.T) {
	board := &stubBoardService{}
	h := NewHandler(board, nil)

	rec := serve(h, http.MethodGet, "/search?q=chatbot&limit=3", "")
	if rec.Code != http.StatusOK || board.lastQuery != "chatbot" || board.lastLimit != 3 {
		t.Fatalf("unexpected search handling code=%d query=%q limit=%d", rec.Code, board.lastQuery, board.lastLimit)
	}
	rec = serve(h, http.MethodGet, "/activity", "")
	if rec.Code != http.StatusOK || board.lastLimit != defaultActivityLimit {
		t.Fatalf("unexpected activity handling code=%d limit=%d", rec.Code, board.lastLimit)
	}
	rec = serve(h, http.MethodGet, "/activity?limit=-2", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandlerDraftRoutes verifies the draft lifecycle endpoints.
func TestHandlerDraftRoutes(t *testing.T) {
	drafts := &stubDraftService{}
	h := NewHandler(&stubBoardService{}, drafts)

	rec := serve(h, http.MethodPut, "/draft", `{"title":"Draft me"}`)
	if rec.Code != http.StatusOK || drafts.draft.Title != "Draft me" {
		t.Fatalf("unexpected put handling code=%d draft=%#v", rec.Code, drafts.draft)
	}
	rec = serve(h, http.MethodPost, "/draft/commit", "")
	if rec.Code != http.StatusCreated || drafts.draft.Title != "" {
		t.Fatalf("unexpected commit handling code=%d draft=%#v", rec.Code, drafts.draft)
	}

	drafts.draft = common.DraftView{Description: "kept"}
	drafts.commitErr = errors.Join(common.ErrInvalidRequest, errors.New("task title is required"))
	rec = serve(h, http.MethodPost, "/draft/commit", "")
	if rec.Code != http.StatusBadRequest || drafts.draft.Description != "kept" {
		t.Fatalf("expected rejected commit to keep draft, code=%d draft=%#v", rec.Code, drafts.draft)
	}

	rec = serve(h, http.MethodDelete, "/draft", "")
	if rec.Code != http.StatusNoContent || drafts.draft != (common.DraftView{}) {
		t.Fatalf("unexpected delete handling code=%d", rec.Code)
	}

	rec = serve(NewHandler(&stubBoardService{}, nil), http.MethodGet, "/draft", "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotImplemented)
	}
}

// TestHandlerErrorMapping verifies structured status mapping for adapter errors.
func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{name: "not found", err: common.ErrNotFound, code: http.StatusNotFound},
		{name: "conflict", err: common.ErrConflict, code: http.StatusConflict},
		{name: "invalid", err: common.ErrInvalidRequest, code: http.StatusBadRequest},
		{name: "internal", err: errors.New("disk on fire"), code: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(NewHandler(&stubBoardService{err: tc.err}, nil), http.MethodGet, "/board", "")
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
		})
	}
}

// TestHandlerUnknownRouteAndNilBoard verifies fallback responses.
func TestHandlerUnknownRouteAndNilBoard(t *testing.T) {
	rec := serve(NewHandler(&stubBoardService{}, nil), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	rec = serve(NewHandler(nil, nil), http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	rec = serve(NewHandler(&stubBoardService{}, nil), http.MethodDelete, "/tasks", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
