package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.db")
	st, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSQLiteStore_SaveToolGetTool(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tool := &ToolRecord{
		Name:        "get_weather",
		Description: "Look up current weather for a city",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string"},
			},
			"required": []any{"city"},
		},
		MockConfig: map[string]any{
			"enabled":         true,
			"response_type":   "static",
			"static_response": map[string]any{"temperature": 21},
		},
	}
	if err := st.SaveTool(ctx, tool); err != nil {
		t.Fatalf("SaveTool: %v", err)
	}
	if tool.ID == "" {
		t.Fatal("SaveTool: expected generated ID")
	}
	if tool.CreatedAt.IsZero() || tool.UpdatedAt.IsZero() {
		t.Fatal("SaveTool: expected timestamps")
	}

	got, err := st.GetTool(ctx, tool.ID)
	if err != nil {
		t.Fatalf("GetTool: %v", err)
	}
	if got.Name != tool.Name {
		t.Fatalf("Name: got %q want %q", got.Name, tool.Name)
	}
	if got.Description != tool.Description {
		t.Fatalf("Description: got %q want %q", got.Description, tool.Description)
	}
	props, ok := got.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatalf("Parameters.properties: got %#v", got.Parameters["properties"])
	}
	if _, ok := props["city"]; !ok {
		t.Fatal("Parameters: missing city property")
	}
	if v, ok := got.MockConfig["response_type"].(string); !ok || v != "static" {
		t.Fatalf("MockConfig.response_type: got %#v", got.MockConfig["response_type"])
	}
}

func TestSQLiteStore_SaveToolUpdatesExisting(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tool := &ToolRecord{Name: "search"}
	if err := st.SaveTool(ctx, tool); err != nil {
		t.Fatalf("SaveTool: %v", err)
	}

	tool.Description = "updated"
	if err := st.SaveTool(ctx, tool); err != nil {
		t.Fatalf("SaveTool update: %v", err)
	}

	got, err := st.GetTool(ctx, tool.ID)
	if err != nil {
		t.Fatalf("GetTool: %v", err)
	}
	if got.Description != "updated" {
		t.Fatalf("Description: got %q want %q", got.Description, "updated")
	}

	tools, err := st.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("ListTools: got %d want 1", len(tools))
	}
}

func TestSQLiteStore_DeleteTool(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tool := &ToolRecord{Name: "ping"}
	if err := st.SaveTool(ctx, tool); err != nil {
		t.Fatalf("SaveTool: %v", err)
	}
	if err := st.DeleteTool(ctx, tool.ID); err != nil {
		t.Fatalf("DeleteTool: %v", err)
	}

	if _, err := st.GetTool(ctx, tool.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTool after delete: got %v want ErrNotFound", err)
	}
	if err := st.DeleteTool(ctx, tool.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTool twice: got %v want ErrNotFound", err)
	}
}

func TestSQLiteStore_SaveTestCaseRoundtrip(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	tc := &TestCaseRecord{
		Name:           "weather-lookup",
		Description:    "asks for the weather and expects one tool call",
		Prompt:         "What is the weather in Paris?",
		SystemPrompt:   "You are a helpful assistant.",
		ToolIDs:        []string{"tool-1"},
		ExpectedOutput: "sunny",
		ExpectedToolCalls: []map[string]any{
			{"name": "get_weather", "arguments": map[string]any{"city": "Paris"}},
		},
		Criteria:      map[string]any{"must_contain": []any{"paris"}},
		Weights:       map[string]int{"tool_calls": 70, "text_similarity": 20, "custom_criteria": 10},
		MaxIterations: 3,
		UseMock:       true,
	}
	if err := st.SaveTestCase(ctx, tc); err != nil {
		t.Fatalf("SaveTestCase: %v", err)
	}

	got, err := st.GetTestCase(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetTestCase: %v", err)
	}
	if got.Prompt != tc.Prompt {
		t.Fatalf("Prompt: got %q want %q", got.Prompt, tc.Prompt)
	}
	if len(got.ToolIDs) != 1 || got.ToolIDs[0] != "tool-1" {
		t.Fatalf("ToolIDs: got %v", got.ToolIDs)
	}
	if len(got.ExpectedToolCalls) != 1 {
		t.Fatalf("ExpectedToolCalls: got %d want 1", len(got.ExpectedToolCalls))
	}
	if got.Weights["tool_calls"] != 70 {
		t.Fatalf("Weights: got %v", got.Weights)
	}
	if got.MaxIterations != 3 {
		t.Fatalf("MaxIterations: got %d want 3", got.MaxIterations)
	}
	if !got.UseMock {
		t.Fatal("UseMock: got false want true")
	}
}

func TestSQLiteStore_SaveTestCaseValidation(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := st.SaveTestCase(ctx, &TestCaseRecord{Prompt: "p"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := st.SaveTestCase(ctx, &TestCaseRecord{Name: "n"}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if err := st.SaveTestCase(ctx, nil); err == nil {
		t.Fatal("expected error for nil test case")
	}
}

func TestSQLiteStore_ModelRoundtrip(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	mc := &ModelRecord{
		Name:        "fast-claude",
		Provider:    "claude",
		Model:       "claude-3-haiku-20240307",
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	if err := st.SaveModel(ctx, mc); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	got, err := st.GetModel(ctx, mc.ID)
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if got.Provider != "claude" || got.Model != mc.Model {
		t.Fatalf("GetModel: got %+v", got)
	}
	if got.Temperature != 0.2 || got.MaxTokens != 1024 {
		t.Fatalf("GetModel params: got temp=%v max=%d", got.Temperature, got.MaxTokens)
	}

	models, err := st.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("ListModels: got %d want 1", len(models))
	}

	if err := st.DeleteModel(ctx, mc.ID); err != nil {
		t.Fatalf("DeleteModel: %v", err)
	}
	if _, err := st.GetModel(ctx, mc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetModel after delete: got %v want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListOrdersByName(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := st.SaveTool(ctx, &ToolRecord{Name: name}); err != nil {
			t.Fatalf("SaveTool %q: %v", name, err)
		}
	}

	tools, err := st.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(tools) != 3 {
		t.Fatalf("ListTools: got %d want 3", len(tools))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if tools[i].Name != want {
			t.Fatalf("ListTools[%d]: got %q want %q", i, tools[i].Name, want)
		}
	}
}
