package llm

import (
	"testing"
)

func TestToClaudeMessages(t *testing.T) {
	t.Parallel()

	msgs := toClaudeMessages(&InvokeRequest{
		Content: "next question",
		History: []Message{
			{Role: "system", Content: "ignored here"},
			{Role: "user", Content: "first question"},
			{Role: "assistant", Content: "looking it up", ToolCalls: []ToolCall{
				{ID: "c1", Name: "lookup", Arguments: `{"q":"x"}`},
			}},
			{Role: "tool", ToolCallID: "c1", Content: `{"answer":42}`},
			{Role: "tool", ToolCallID: "c2", Content: `{"answer":43}`},
			{Role: "assistant", Content: "it is 42"},
		},
	})

	// system dropped; two tool results collapse into one user turn; trailing
	// request content becomes the final user turn.
	if len(msgs) != 5 {
		t.Fatalf("len(msgs): got %d want %d", len(msgs), 5)
	}
	if msgs[0].Role != "user" {
		t.Fatalf("msgs[0].Role: got %q", msgs[0].Role)
	}
	if msgs[1].Role != "assistant" || len(msgs[1].Content) != 2 {
		t.Fatalf("msgs[1]: role=%q blocks=%d", msgs[1].Role, len(msgs[1].Content))
	}
	if msgs[2].Role != "user" || len(msgs[2].Content) != 2 {
		t.Fatalf("msgs[2]: role=%q blocks=%d", msgs[2].Role, len(msgs[2].Content))
	}
	if msgs[3].Role != "assistant" {
		t.Fatalf("msgs[3].Role: got %q", msgs[3].Role)
	}
	if msgs[4].Role != "user" {
		t.Fatalf("msgs[4].Role: got %q", msgs[4].Role)
	}
}

func TestToClaudeMessagesMalformedArguments(t *testing.T) {
	t.Parallel()

	msgs := toClaudeMessages(&InvokeRequest{
		History: []Message{
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "c1", Name: "lookup", Arguments: "{not json"},
			}},
		},
	})
	if len(msgs) != 1 || msgs[0].Role != "assistant" {
		t.Fatalf("msgs: %#v", msgs)
	}
	if len(msgs[0].Content) != 1 {
		t.Fatalf("blocks: got %d want %d", len(msgs[0].Content), 1)
	}
}

func TestToClaudeTools(t *testing.T) {
	t.Parallel()

	if got := toClaudeTools(nil); got != nil {
		t.Fatalf("toClaudeTools(nil): expected nil")
	}

	tools := toClaudeTools([]ToolSchema{
		{Type: "function", Function: ToolFunction{Name: "  "}},
		{Type: "function", Function: ToolFunction{
			Name:        " get_weather ",
			Description: " city weather ",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string"},
				},
				"required":             []any{"city"},
				"additionalProperties": false,
			},
		}},
	})
	if len(tools) != 1 {
		t.Fatalf("len(tools): got %d want %d", len(tools), 1)
	}
	tool := tools[0].OfTool
	if tool == nil || tool.Name != "get_weather" {
		t.Fatalf("tool: %#v", tools[0])
	}
	if tool.InputSchema.Properties == nil {
		t.Fatalf("InputSchema.Properties: nil")
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "city" {
		t.Fatalf("Required: %#v", tool.InputSchema.Required)
	}
	if _, ok := tool.InputSchema.ExtraFields["additionalProperties"]; !ok {
		t.Fatalf("ExtraFields: %#v", tool.InputSchema.ExtraFields)
	}
}

func TestToStringSlice(t *testing.T) {
	t.Parallel()

	if got := toStringSlice([]string{"a"}); len(got) != 1 || got[0] != "a" {
		t.Fatalf("[]string: got %v", got)
	}
	if got := toStringSlice([]any{"a", 1, "b"}); len(got) != 2 || got[1] != "b" {
		t.Fatalf("[]any: got %v", got)
	}
	if got := toStringSlice(42); got != nil {
		t.Fatalf("int: got %v", got)
	}
}
