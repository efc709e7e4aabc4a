// Package mockgen drafts mock configurations for tools by delegating to an
// LLM. Generated configs are validated before they are returned; callers
// decide whether to persist them.
package mockgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

// Generation outcome statuses.
const (
	StatusSuccess          = "success"
	StatusError            = "error"
	StatusInvalidOutput    = "invalid_output"
	StatusValidationFailed = "validation_failed"
)

// Generator drafts mock configurations using a model.
type Generator struct {
	Provider llm.Provider
}

// Scenario is a caller-supplied hint describing one behavior the mock should
// cover.
type Scenario struct {
	Title            string         `json:"title"`
	Type             string         `json:"type,omitempty"` // success or error
	Arguments        map[string]any `json:"arguments,omitempty"`
	ExpectedBehavior string         `json:"expected_behavior,omitempty"`
	ExpectedResponse map[string]any `json:"expected_response,omitempty"`
}

// Request describes the tool to generate a mock configuration for.
type Request struct {
	ToolName              string
	ToolDescription       string
	Parameters            map[string]any // JSON-Schema-like parameter object
	ExistingMock          *mock.Config   // Optional, offered to the model for improvement
	Scenarios             []Scenario
	ResponseType          string // Preferred response_type, default template
	IncludeErrorScenarios bool
	Prompt                string // Extra free-form guidance
}

// Result carries the generated configuration or the reason it was rejected.
type Result struct {
	Status          string
	MockConfig      *mock.Config
	ValidationError string
	RawOutput       string
	Metrics         llm.Metrics
}

const systemPrompt = `You are an expert mock configuration generator for developer tools.
Always respond with a single JSON object that adheres to the requested schema.`

// Generate asks the model for a mock configuration and validates the result.
func (g *Generator) Generate(ctx context.Context, req *Request) (*Result, error) {
	if g == nil || g.Provider == nil {
		return nil, errors.New("mockgen: nil provider")
	}
	if req == nil {
		return nil, errors.New("mockgen: nil request")
	}
	if strings.TrimSpace(req.ToolName) == "" {
		return nil, errors.New("mockgen: empty tool name")
	}

	res, err := g.Provider.Invoke(ctx, &llm.InvokeRequest{
		Content:      buildPrompt(req),
		SystemPrompt: systemPrompt,
		Params:       llm.Params{Temperature: 0.2},
	})
	if err != nil {
		out := &Result{Status: StatusError, ValidationError: err.Error()}
		if res != nil {
			out.RawOutput = res.Output
			out.Metrics = res.Metrics
		}
		return out, nil
	}

	var cfg mock.Config
	if err := llm.ParseJSON(res.Output, &cfg); err != nil {
		return &Result{
			Status:          StatusInvalidOutput,
			ValidationError: "model output is not a valid mock configuration: " + err.Error(),
			RawOutput:       res.Output,
			Metrics:         res.Metrics,
		}, nil
	}

	if err := mock.Validate(&cfg); err != nil {
		return &Result{
			Status:          StatusValidationFailed,
			MockConfig:      &cfg,
			ValidationError: err.Error(),
			RawOutput:       res.Output,
			Metrics:         res.Metrics,
		}, nil
	}

	return &Result{
		Status:     StatusSuccess,
		MockConfig: &cfg,
		RawOutput:  res.Output,
		Metrics:    res.Metrics,
	}, nil
}

func buildPrompt(req *Request) string {
	preferredType := strings.TrimSpace(req.ResponseType)
	if preferredType == "" {
		preferredType = mock.ResponseTemplate
	}

	instructions := []string{
		"Output must be a single JSON object with no extra text.",
		"The enabled field must be true.",
		"Provide a latency_ms object with min and max in milliseconds.",
		fmt.Sprintf("Prefer response_type %q.", preferredType),
		"When response_type is template, provide a response_templates array.",
		"Each template pairs a condition over the tool arguments with a response object.",
		`A condition of {"_default": true} marks the fallback template.`,
	}
	if req.IncludeErrorScenarios {
		instructions = append(instructions,
			"Provide an error_scenarios array with probability, error, and error_code fields.")
	}
	if strings.TrimSpace(req.Prompt) != "" {
		instructions = append(instructions, "Additional guidance: "+req.Prompt)
	}

	sections := []string{
		"Tool name: " + req.ToolName,
		"Tool description: " + req.ToolDescription,
	}
	if req.Parameters != nil {
		sections = append(sections, "Parameter definition (JSON Schema):", mustJSON(req.Parameters))
	}
	if req.ExistingMock != nil {
		sections = append(sections, "Current mock configuration (for reference, improve on it):", mustJSON(req.ExistingMock))
	}
	if len(req.Scenarios) > 0 {
		sections = append(sections, "Scenarios the mock should cover:")
		for i, sc := range req.Scenarios {
			sections = append(sections, fmt.Sprintf("Scenario %d:\n%s", i+1, mustJSON(sc)))
		}
	}

	var items strings.Builder
	for _, item := range instructions {
		items.WriteString("- ")
		items.WriteString(item)
		items.WriteString("\n")
	}
	sections = append(sections, "Requirements:", strings.TrimRight(items.String(), "\n"))

	return strings.Join(sections, "\n")
}

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
