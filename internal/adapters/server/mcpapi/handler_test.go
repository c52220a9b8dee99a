package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/evanschultz/quadro/internal/adapters/server/common"
	"github.com/mark3labs/mcp-go/mcp"
)

// stubBoardService provides deterministic board responses for MCP tool tests.
type stubBoardService struct {
	tasks      []common.TaskView
	created    common.TaskView
	moved      common.MoveTaskResult
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

func (s *stubBoardService) ListTasks(_ context.Context, req common.ListTasksRequest) ([]common.TaskView, error) {
	s.lastList = req
	if s.err != nil {
		return nil, s.err
	}
	return append([]common.TaskView(nil), s.tasks...), nil
}

func (s *stubBoardService) CreateTask(_ context.Context, in common.DraftView) (common.TaskView, error) {
	s.lastCreate = in
	if s.err != nil {
		return common.TaskView{}, s.err
	}
	return s.created, nil
}

func (s *stubBoardService) MoveTask(_ context.Context, req common.MoveTaskRequest) (common.MoveTaskResult, error) {
	s.lastMove = req
	if s.err != nil {
		return common.MoveTaskResult{}, s.err
	}
	return s.moved, nil
}

func (s *stubBoardService) GetBoard(context.Context) (common.BoardView, error) {
	if s.err != nil {
		return common.BoardView{}, s.err
	}
	return s.board, nil
}

func (s *stubBoardService) SearchTasks(_ context.Context, query string, limit int) ([]common.TaskMatchView, error) {
	s.lastQuery = query
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

func (s *stubBoardService) ListActivity(_ context.Context, limit int) ([]common.ChangeEventView, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

// jsonRPCResponse models minimal JSON-RPC response fields used in MCP adapter tests.
type jsonRPCResponse struct {
	ID     float64        `json:"id"`
	Result map[string]any `json:"result"`
}

// callToolRequest constructs one tools/call JSON-RPC request payload.
func callToolRequest(id int, toolName string, arguments map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": arguments,
		},
	}
}

// toolResultText decodes the first text entry from one tool-call result payload.
func toolResultText(t *testing.T, result map[string]any) string {
	t.Helper()
	contentRaw, ok := result["content"].([]any)
	if !ok || len(contentRaw) == 0 {
		t.Fatalf("content missing in tool result: %#v", result)
	}
	first, ok := contentRaw[0].(map[string]any)
	if !ok {
		t.Fatalf("first content entry has unexpected type: %#v", contentRaw[0])
	}
	text, ok := first["text"].(string)
	if !ok {
		t.Fatalf("content text missing in tool result: %#v", first)
	}
	return text
}

// toolResultStructured decodes structuredContent as one map.
func toolResultStructured(t *testing.T, result map[string]any) map[string]any {
	t.Helper()
	structured, ok := result["structuredContent"].(map[string]any)
	if !ok {
		t.Fatalf("structuredContent missing in tool result: %#v", result)
	}
	return structured
}

// postJSONRPC sends one JSON-RPC payload and decodes the response body.
func postJSONRPC(t *testing.T, client *http.Client, url string, payload any) (*http.Response, jsonRPCResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var decoded jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return resp, decoded
}

// initializeRequest builds an MCP initialize request payload.
func initializeRequest() map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]any{
				"name":    "quadro-test",
				"version": "1.0.0",
			},
		},
	}
}

// callToolResultText decodes the first textual content block from a CallToolResult.
func callToolResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatalf("result = nil, want non-nil")
	}
	if len(result.Content) == 0 {
		t.Fatalf("result content is empty")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] has unexpected type %T", result.Content[0])
	}
	return text.Text
}

func newTestServer(t *testing.T, board common.BoardService) *httptest.Server {
	t.Helper()
	handler, err := NewHandler(Config{}, board)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	return server
}

// TestNewHandlerRequiresBoard verifies constructor validation.
func TestNewHandlerRequiresBoard(t *testing.T) {
	if _, err := NewHandler(Config{}, nil); err == nil {
		t.Fatal("expected error for nil board service")
	}
}

// TestHandlerUsesStatelessTransport verifies MCP transport does not issue session ids.
func TestHandlerUsesStatelessTransport(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubBoardService{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, decoded := postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if decoded.ID != 1 {
		t.Fatalf("id = %v, want 1", decoded.ID)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got != "" {
		t.Fatalf("Mcp-Session-Id header = %q, want empty (stateless transport)", got)
	}
}

// TestHandlerRegistersBoardTools verifies tool discovery lists every board tool.
func TestHandlerRegistersBoardTools(t *testing.T) {
	server := newTestServer(t, &stubBoardService{})
	_, toolsResp := postJSONRPC(t, server.Client(), server.URL, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	})

	toolsRaw, ok := toolsResp.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools list payload missing tools: %#v", toolsResp.Result)
	}
	toolNames := make([]string, 0, len(toolsRaw))
	for _, toolRaw := range toolsRaw {
		toolMap, ok := toolRaw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		toolNames = append(toolNames, name)
	}
	for _, required := range []string{
		"quadro.list_tasks",
		"quadro.filter_by_status",
		"quadro.get_board",
		"quadro.search_tasks",
		"quadro.list_activity",
		"quadro.create_task",
		"quadro.move_task",
	} {
		if !slices.Contains(toolNames, required) {
			t.Fatalf("tool list missing %s: %#v", required, toolNames)
		}
	}
}

// TestHandlerFilterByStatusTool verifies the status argument reaches the service.
func TestHandlerFilterByStatusTool(t *testing.T) {
	board := &stubBoardService{tasks: []common.TaskView{{ID: 3, Title: "Implementar autenticação", Status: "in-progress"}}}
	server := newTestServer(t, board)

	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "quadro.filter_by_status", map[string]any{
		"status": "in-progress",
	}))
	if isError, _ := resp.Result["isError"].(bool); isError {
		t.Fatalf("unexpected tool error %q", toolResultText(t, resp.Result))
	}
	if board.lastList.Status != "in-progress" {
		t.Fatalf("status = %q, want in-progress", board.lastList.Status)
	}
	structured := toolResultStructured(t, resp.Result)
	tasks, ok := structured["tasks"].([]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("unexpected tasks payload %#v", structured)
	}
}

// TestHandlerCreateAndMoveTools verifies write tools map arguments onto requests.
func TestHandlerCreateAndMoveTools(t *testing.T) {
	board := &stubBoardService{
		created: common.TaskView{ID: 7, Title: "Revisar contrato", Status: "to-do", Priority: "high"},
		moved:   common.MoveTaskResult{Matched: true, Changed: true, Task: &common.TaskView{ID: 7, Status: "done"}},
	}
	server := newTestServer(t, board)

	_, createResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "quadro.create_task", map[string]any{
		"title":         "Revisar contrato",
		"priority":      "high",
		"assignee_name": "Juliana Costa",
		"due_date":      "2023-07-01",
	}))
	if isError, _ := createResp.Result["isError"].(bool); isError {
		t.Fatalf("unexpected tool error %q", toolResultText(t, createResp.Result))
	}
	if board.lastCreate.Title != "Revisar contrato" || board.lastCreate.Priority != "high" || board.lastCreate.AssigneeName != "Juliana Costa" || board.lastCreate.DueDate != "2023-07-01" {
		t.Fatalf("unexpected create request %#v", board.lastCreate)
	}
	if got := toolResultStructured(t, createResp.Result)["id"]; got != float64(7) {
		t.Fatalf("created id = %v, want 7", got)
	}

	_, moveResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "quadro.move_task", map[string]any{
		"task_id": 7,
		"status":  "done",
	}))
	if isError, _ := moveResp.Result["isError"].(bool); isError {
		t.Fatalf("unexpected tool error %q", toolResultText(t, moveResp.Result))
	}
	if board.lastMove.TaskID != 7 || board.lastMove.Status != "done" {
		t.Fatalf("unexpected move request %#v", board.lastMove)
	}
	if matched, _ := toolResultStructured(t, moveResp.Result)["matched"].(bool); !matched {
		t.Fatalf("matched = false, want true")
	}
}

// TestHandlerMoveToolReportsUnmatched verifies unknown ids are not tool errors.
func TestHandlerMoveToolReportsUnmatched(t *testing.T) {
	board := &stubBoardService{moved: common.MoveTaskResult{}}
	server := newTestServer(t, board)

	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "quadro.move_task", map[string]any{
		"task_id": 404,
		"status":  "done",
	}))
	if isError, _ := resp.Result["isError"].(bool); isError {
		t.Fatalf("unexpected tool error %q", toolResultText(t, resp.Result))
	}
	structured := toolResultStructured(t, resp.Result)
	if matched, _ := structured["matched"].(bool); matched {
		t.Fatalf("matched = true, want false")
	}
	if _, ok := structured["task"]; ok {
		t.Fatalf("unexpected task in unmatched result %#v", structured)
	}
}

// TestHandlerSearchAndActivityLimits verifies optional numeric arguments and defaults.
func TestHandlerSearchAndActivityLimits(t *testing.T) {
	board := &stubBoardService{}
	server := newTestServer(t, board)

	_, _ = postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "quadro.search_tasks", map[string]any{
		"query": "whatsapp",
		"limit": 3,
	}))
	if board.lastQuery != "whatsapp" || board.lastLimit != 3 {
		t.Fatalf("search query=%q limit=%d", board.lastQuery, board.lastLimit)
	}

	_, _ = postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "quadro.list_activity", map[string]any{}))
	if board.lastLimit != 25 {
		t.Fatalf("activity limit = %d, want 25", board.lastLimit)
	}
}

// TestHandlerToolCallErrorPaths verifies required-arg and mapped-service errors.
func TestHandlerToolCallErrorPaths(t *testing.T) {
	board := &stubBoardService{err: errors.Join(common.ErrInvalidRequest, errors.New("bad status"))}
	server := newTestServer(t, board)

	_, missingArgResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "quadro.move_task", map[string]any{
		"status": "done",
	}))
	if isError, _ := missingArgResp.Result["isError"].(bool); !isError {
		t.Fatalf("isError = %v, want true", missingArgResp.Result["isError"])
	}
	if got := toolResultText(t, missingArgResp.Result); !strings.Contains(got, "task_id") {
		t.Fatalf("error text = %q, want task_id message", got)
	}

	_, mappedErrResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "quadro.create_task", map[string]any{
		"title": "x",
	}))
	if isError, _ := mappedErrResp.Result["isError"].(bool); !isError {
		t.Fatalf("isError = %v, want true", mappedErrResp.Result["isError"])
	}
	if got := toolResultText(t, mappedErrResp.Result); !strings.HasPrefix(got, "invalid_request:") {
		t.Fatalf("error text = %q, want prefix invalid_request:", got)
	}
}

// TestToolResultFromError verifies stable error prefixes.
func TestToolResultFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{name: "nil", err: nil, wantPrefix: "unknown error"},
		{name: "invalid", err: errors.Join(common.ErrInvalidRequest, errors.New("bad")), wantPrefix: "invalid_request:"},
		{name: "not found", err: errors.Join(common.ErrNotFound, errors.New("missing")), wantPrefix: "not_found:"},
		{name: "conflict", err: errors.Join(common.ErrConflict, errors.New("dup")), wantPrefix: "conflict:"},
		{name: "internal", err: errors.New("boom"), wantPrefix: "internal_error:"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result := toolResultFromError(tt.err)
			if !result.IsError {
				t.Fatalf("IsError = false, want true")
			}
			if got := callToolResultText(t, result); !strings.HasPrefix(got, tt.wantPrefix) {
				t.Fatalf("text = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}

// TestNormalizeConfig verifies defaults and endpoint cleanup.
func TestNormalizeConfig(t *testing.T) {
	got := normalizeConfig(Config{EndpointPath: "tools/mcp/"})
	if got.ServerName != "quadro" || got.ServerVersion != "dev" || got.EndpointPath != "/tools/mcp" {
		t.Fatalf("unexpected config %#v", got)
	}
}
