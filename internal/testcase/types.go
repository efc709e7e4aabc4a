package testcase

import (
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

// Suite defines a suite of evaluation cases sharing a tool set.
type Suite struct {
	Suite       string `yaml:"suite"`
	Description string `yaml:"description,omitempty"`
	Tools       []Tool `yaml:"tools,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// Tool defines a tool available to every case in the suite, together with
// its mock configuration.
type Tool struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Parameters  map[string]any `yaml:"parameters,omitempty"` // JSON-Schema-like object
	Mock        *mock.Config   `yaml:"mock,omitempty"`
}

// Case defines a single evaluation case.
type Case struct {
	ID                string           `yaml:"id"`
	Description       string           `yaml:"description,omitempty"`
	Prompt            string           `yaml:"prompt"`
	SystemPrompt      string           `yaml:"system_prompt,omitempty"`
	ExpectedOutput    string           `yaml:"expected_output,omitempty"`
	ExpectedToolCalls []map[string]any `yaml:"expected_tool_calls,omitempty"`
	Criteria          map[string]any   `yaml:"criteria,omitempty"`
	Weights           map[string]int   `yaml:"weights,omitempty"`
	MaxIterations     int              `yaml:"max_iterations,omitempty"`
	UseMock           *bool            `yaml:"use_mock,omitempty"` // default true
	Temperature       *float64         `yaml:"temperature,omitempty"`
	MaxTokens         int              `yaml:"max_tokens,omitempty"`
}

// Mocked reports whether the case runs against mocked tools. Unset defaults
// to true: real side effects are never the default for an evaluation.
func (c *Case) Mocked() bool {
	if c.UseMock == nil {
		return true
	}
	return *c.UseMock
}

// ToolSchemas converts the suite's tools into the wire shape the model
// invocation contract expects.
func (s *Suite) ToolSchemas() []llm.ToolSchema {
	if len(s.Tools) == 0 {
		return nil
	}
	out := make([]llm.ToolSchema, 0, len(s.Tools))
	for _, t := range s.Tools {
		out = append(out, llm.ToolSchema{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// MockConfigs collects the per-tool mock configurations keyed by tool name.
// Tools without a mock block are omitted; the execution engine falls back to
// its default envelope for them.
func (s *Suite) MockConfigs() map[string]*mock.Config {
	out := make(map[string]*mock.Config)
	for _, t := range s.Tools {
		if t.Mock != nil {
			out[t.Name] = t.Mock
		}
	}
	return out
}
