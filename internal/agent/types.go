package agent

import (
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

// Status is the terminal state of an orchestration run.
type Status string

const (
	// StatusSuccess: the model produced a final answer.
	StatusSuccess Status = "success"
	// StatusError: the model invocation failed; the run aborted without retry.
	StatusError Status = "error"
	// StatusMaxIterations: the iteration bound was hit while the model was
	// still requesting tools. Not a hard failure; the partial transcript is
	// returned so callers can inspect and penalize it in scoring.
	StatusMaxIterations Status = "max_iterations_reached"
)

// RunRequest describes one orchestration run.
type RunRequest struct {
	Content       string
	SystemPrompt  string
	Params        llm.Params
	Tools         []llm.ToolSchema
	MockConfigs   map[string]*mock.Config
	History       []llm.Message
	UseMock       bool
	MaxIterations int
}

// ToolCallRecord is one executed tool call. Records are immutable once
// appended; the ordered list forms the run's tool call history.
type ToolCallRecord struct {
	Iteration  int            `json:"iteration"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments"`
	Result     map[string]any `json:"result"`
	ToolCallID string         `json:"tool_call_id"`
}

// Metrics accumulates token usage and cost across all iterations of a run.
type Metrics struct {
	TotalIterations       int     `json:"total_iterations"`
	TotalPromptTokens     int     `json:"total_prompt_tokens"`
	TotalCompletionTokens int     `json:"total_completion_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	EstimatedCost         float64 `json:"estimated_cost"`
	ResponseTime          float64 `json:"response_time"`
}

// RunResult is the transcript of one run: final output, accumulated metrics,
// tool call history and the full conversation.
type RunResult struct {
	Output          string           `json:"output"`
	Metrics         Metrics          `json:"metrics"`
	Status          Status           `json:"status"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	Warning         string           `json:"warning,omitempty"`
	ToolCallHistory []ToolCallRecord `json:"tool_call_history"`
	Conversation    []llm.Message    `json:"conversation_history"`
}
