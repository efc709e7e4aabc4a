package llm

import "context"

// Provider is the model invocation contract. The core never talks to a
// provider HTTP API directly; it only sees this interface.
type Provider interface {
	Name() string
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResult, error)
}

// Message roles. The conversation is an append-only ordered sequence; callers
// extend it, never mutate prior entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of a conversation. Assistant messages may carry tool
// calls; tool messages carry the originating tool call ID and a JSON-encoded
// result payload in Content.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-issued request to invoke a named function. Arguments
// arrive as the raw JSON text the model produced; use ParseArguments to decode
// it defensively.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSchema follows the common function-calling shape
// {type:"function", function:{name, description, parameters}}.
type ToolSchema struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Params are optional generation parameters; zero values mean provider
// defaults.
type Params struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type InvokeRequest struct {
	Content      string
	SystemPrompt string
	Params       Params
	Tools        []ToolSchema
	History      []Message
}

// Metrics reports token usage and cost for one invocation.
type Metrics struct {
	ResponseTime     float64 `json:"response_time"` // seconds
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

type InvokeResult struct {
	Output       string     `json:"output"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	Metrics      Metrics    `json:"metrics"`
	Status       string     `json:"status"` // "success" or "error"
	ErrorMessage string     `json:"error_message,omitempty"`
}
