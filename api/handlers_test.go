package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stellarlinkco/agent-eval/internal/config"
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/store"
)

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := doJSON(t, s, http.MethodGet, "/api/health", nil)
	wantStatus(t, w, http.StatusOK)

	var body map[string]any
	decodeBody(t, w, &body)
	if body["status"] != "ok" {
		t.Fatalf("status field: got %v", body["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	t.Setenv("AGENT_EVAL_DISABLE_AUTH", "")
	t.Setenv("AGENT_EVAL_API_KEY", "")

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	if _, err := NewServer(config.Default(), st, llm.NewRegistry()); err == nil {
		t.Fatal("expected NewServer to fail without auth configuration")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	t.Setenv("AGENT_EVAL_API_KEY", "secret")

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	s, err := NewServer(config.Default(), st, llm.NewRegistry())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	wantStatus(t, w, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	wantStatus(t, w, http.StatusOK)
}

func TestToolCRUD(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/tools", map[string]any{
		"name":        "get_weather",
		"description": "weather lookup",
		"parameters":  map[string]any{"type": "object"},
		"mock_config": map[string]any{
			"enabled":         true,
			"response_type":   "static",
			"static_response": map[string]any{"temperature": 21},
		},
	})
	wantStatus(t, w, http.StatusOK)

	var created store.ToolRecord
	decodeBody(t, w, &created)
	if created.ID == "" {
		t.Fatal("expected generated tool id")
	}

	w = doJSON(t, s, http.MethodGet, "/api/tools/"+created.ID, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, s, http.MethodGet, "/api/tools", nil)
	wantStatus(t, w, http.StatusOK)
	var list []store.ToolRecord
	decodeBody(t, w, &list)
	if len(list) != 1 || list[0].Name != "get_weather" {
		t.Fatalf("list: got %+v", list)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/tools/"+created.ID, nil)
	wantStatus(t, w, http.StatusNoContent)

	w = doJSON(t, s, http.MethodGet, "/api/tools/"+created.ID, nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestUpsertToolRejectsBadMockConfig(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/tools", map[string]any{
		"name": "broken",
		"mock_config": map[string]any{
			"enabled":       true,
			"response_type": "static",
		},
	})
	wantStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "static_response") {
		t.Fatalf("error body: %s", w.Body.String())
	}
}

func TestRunEndpoint(t *testing.T) {
	provider := &scriptedProvider{
		results: []*llm.InvokeResult{
			{
				Status: "success",
				ToolCalls: []llm.ToolCall{
					{ID: "c1", Name: "get_weather", Arguments: `{"city": "Paris"}`},
				},
				Metrics: llm.Metrics{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			},
			{
				Status:  "success",
				Output:  "It is 21 degrees and sunny in Paris.",
				Metrics: llm.Metrics{PromptTokens: 20, CompletionTokens: 8, TotalTokens: 28},
			},
		},
	}
	s, _ := newTestServer(t, provider)

	w := doJSON(t, s, http.MethodPost, "/api/run", map[string]any{
		"prompt": "What is the weather in Paris?",
		"tools": []map[string]any{
			{"type": "function", "function": map[string]any{"name": "get_weather"}},
		},
		"mock_configs": map[string]any{
			"get_weather": map[string]any{
				"enabled":         true,
				"response_type":   "static",
				"static_response": map[string]any{"temperature": "21 degrees and sunny"},
				"latency_ms":      map[string]any{"min": 0, "max": 0},
			},
		},
		"expected_output": "It is 21 degrees and sunny in Paris.",
		"expected_tool_calls": []map[string]any{
			{"name": "get_weather", "arguments": map[string]any{"city": "Paris"}},
		},
	})
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		RunID  string `json:"run_id"`
		Result struct {
			Status  string `json:"status"`
			Output  string `json:"output"`
			Metrics struct {
				TotalTokens int `json:"total_tokens"`
			} `json:"metrics"`
			ToolCallHistory []map[string]any `json:"tool_call_history"`
		} `json:"result"`
		Score      *float64       `json:"score"`
		Evaluation map[string]any `json:"evaluation"`
	}
	decodeBody(t, w, &resp)

	if resp.RunID == "" {
		t.Fatal("expected run_id")
	}
	if resp.Result.Status != "success" {
		t.Fatalf("result status: got %q", resp.Result.Status)
	}
	if resp.Result.Metrics.TotalTokens != 43 {
		t.Fatalf("total tokens: got %d want 43", resp.Result.Metrics.TotalTokens)
	}
	if len(resp.Result.ToolCallHistory) != 1 {
		t.Fatalf("tool call history: got %d entries", len(resp.Result.ToolCallHistory))
	}
	if resp.Score == nil || *resp.Score <= 0.9 {
		t.Fatalf("score: got %v want > 0.9", resp.Score)
	}
	if resp.Evaluation == nil {
		t.Fatal("expected evaluation details")
	}
}

func TestRunEndpointMissingPrompt(t *testing.T) {
	s, _ := newTestServer(t, &scriptedProvider{})

	w := doJSON(t, s, http.MethodPost, "/api/run", map[string]any{})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestRunEndpointFromStoredTestCase(t *testing.T) {
	provider := &scriptedProvider{
		results: []*llm.InvokeResult{
			{Status: "success", Output: "hello there"},
		},
	}
	s, st := newTestServer(t, provider)

	tc := &store.TestCaseRecord{
		Name:           "greeting",
		Prompt:         "Say hello.",
		SystemPrompt:   "Be brief.",
		ExpectedOutput: "hello there",
		UseMock:        true,
	}
	if err := st.SaveTestCase(t.Context(), tc); err != nil {
		t.Fatalf("SaveTestCase: %v", err)
	}

	w := doJSON(t, s, http.MethodPost, "/api/run", map[string]any{
		"test_case_id": tc.ID,
	})
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		Score *float64 `json:"score"`
	}
	decodeBody(t, w, &resp)
	if resp.Score == nil || *resp.Score != 1.0 {
		t.Fatalf("score: got %v want 1.0", resp.Score)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("provider calls: got %d want 1", len(provider.requests))
	}
	if provider.requests[0].SystemPrompt != "Be brief." {
		t.Fatalf("system prompt: got %q", provider.requests[0].SystemPrompt)
	}
}

func TestValidateMockEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/mock/validate", map[string]any{
		"enabled":         true,
		"response_type":   "static",
		"static_response": map[string]any{"ok": true},
	})
	wantStatus(t, w, http.StatusOK)
	var body map[string]any
	decodeBody(t, w, &body)
	if body["valid"] != true {
		t.Fatalf("valid: got %v", body["valid"])
	}

	w = doJSON(t, s, http.MethodPost, "/api/mock/validate", map[string]any{
		"enabled":       true,
		"response_type": "template",
	})
	wantStatus(t, w, http.StatusOK)
	body = nil
	decodeBody(t, w, &body)
	if body["valid"] != false {
		t.Fatalf("valid: got %v", body["valid"])
	}
}

func TestPresetEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := doJSON(t, s, http.MethodGet, "/api/mock/presets", nil)
	wantStatus(t, w, http.StatusOK)
	var mockPresets []map[string]any
	decodeBody(t, w, &mockPresets)
	if len(mockPresets) == 0 {
		t.Fatal("expected mock presets")
	}

	w = doJSON(t, s, http.MethodGet, "/api/presets", nil)
	wantStatus(t, w, http.StatusOK)
	var modelPresets []map[string]any
	decodeBody(t, w, &modelPresets)
	if len(modelPresets) == 0 {
		t.Fatal("expected model presets")
	}
}

func TestGenerateMockEndpointSaves(t *testing.T) {
	provider := &scriptedProvider{
		results: []*llm.InvokeResult{
			{
				Status: "success",
				Output: `{"enabled": true, "response_type": "static", "static_response": {"ok": true}}`,
			},
		},
	}
	s, st := newTestServer(t, provider)

	tool := &store.ToolRecord{Name: "search"}
	if err := st.SaveTool(t.Context(), tool); err != nil {
		t.Fatalf("SaveTool: %v", err)
	}

	w := doJSON(t, s, http.MethodPost, "/api/mock/generate", map[string]any{
		"tool_id": tool.ID,
		"save":    true,
	})
	wantStatus(t, w, http.StatusOK)

	var body map[string]any
	decodeBody(t, w, &body)
	if body["status"] != "success" {
		t.Fatalf("status: got %v (%v)", body["status"], body["validation_error"])
	}
	if body["saved"] != true {
		t.Fatalf("saved: got %v", body["saved"])
	}

	got, err := st.GetTool(t.Context(), tool.ID)
	if err != nil {
		t.Fatalf("GetTool: %v", err)
	}
	if got.MockConfig == nil || got.MockConfig["response_type"] != "static" {
		t.Fatalf("persisted mock config: got %v", got.MockConfig)
	}
}
