package store

import (
	"context"
	"time"
)

// ToolStore defines persistence for tool definitions and their mock
// configurations.
type ToolStore interface {
	SaveTool(ctx context.Context, tool *ToolRecord) error
	GetTool(ctx context.Context, id string) (*ToolRecord, error)
	ListTools(ctx context.Context) ([]*ToolRecord, error)
	DeleteTool(ctx context.Context, id string) error
}

// TestCaseStore defines persistence for test case definitions.
type TestCaseStore interface {
	SaveTestCase(ctx context.Context, tc *TestCaseRecord) error
	GetTestCase(ctx context.Context, id string) (*TestCaseRecord, error)
	ListTestCases(ctx context.Context) ([]*TestCaseRecord, error)
	DeleteTestCase(ctx context.Context, id string) error
}

// ModelStore defines persistence for model configurations.
type ModelStore interface {
	SaveModel(ctx context.Context, mc *ModelRecord) error
	GetModel(ctx context.Context, id string) (*ModelRecord, error)
	ListModels(ctx context.Context) ([]*ModelRecord, error)
	DeleteModel(ctx context.Context, id string) error
}

// Store defines persistence for the definitions an evaluation run consumes.
// Run transcripts and scores are not persisted; they live only for the
// duration of one request.
type Store interface {
	ToolStore
	TestCaseStore
	ModelStore
	Close() error
}

// ToolRecord stores one tool definition.
type ToolRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`  // JSON-Schema-like parameter object
	MockConfig  map[string]any `json:"mock_config,omitempty"` // Raw mock configuration, validated on use
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TestCaseRecord stores one test case definition.
type TestCaseRecord struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Prompt            string           `json:"prompt"`
	SystemPrompt      string           `json:"system_prompt,omitempty"`
	ToolIDs           []string         `json:"tool_ids,omitempty"`
	ExpectedOutput    string           `json:"expected_output,omitempty"`
	ExpectedToolCalls []map[string]any `json:"expected_tool_calls,omitempty"`
	Criteria          map[string]any   `json:"criteria,omitempty"`
	Weights           map[string]int   `json:"weights,omitempty"`
	MaxIterations     int              `json:"max_iterations,omitempty"`
	UseMock           bool             `json:"use_mock"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ModelRecord stores one model configuration.
type ModelRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	BaseURL     string    `json:"base_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
