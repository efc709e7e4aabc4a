package mockgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

type fakeProvider struct {
	result   *llm.InvokeResult
	err      error
	requests []*llm.InvokeRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Invoke(_ context.Context, req *llm.InvokeRequest) (*llm.InvokeResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		result: &llm.InvokeResult{
			Status: "success",
			Output: "```json\n" + `{
				"enabled": true,
				"response_type": "static",
				"static_response": {"result": "ok"},
				"latency_ms": {"min": 10, "max": 50}
			}` + "\n```",
			Metrics: llm.Metrics{TotalTokens: 42},
		},
	}
	gen := &Generator{Provider: provider}

	res, err := gen.Generate(context.Background(), &Request{
		ToolName:        "get_weather",
		ToolDescription: "Look up the weather",
		Parameters:      map[string]any{"type": "object"},
		Scenarios: []Scenario{
			{Title: "sunny day", Type: "success", Arguments: map[string]any{"city": "Paris"}},
		},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("Status: got %q want %q (%s)", res.Status, StatusSuccess, res.ValidationError)
	}
	if res.MockConfig == nil || !res.MockConfig.Enabled {
		t.Fatalf("MockConfig: got %+v", res.MockConfig)
	}
	if res.MockConfig.ResponseType != mock.ResponseStatic {
		t.Fatalf("ResponseType: got %q", res.MockConfig.ResponseType)
	}
	if res.Metrics.TotalTokens != 42 {
		t.Fatalf("Metrics: got %+v", res.Metrics)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("requests: got %d want 1", len(provider.requests))
	}
	req := provider.requests[0]
	if req.SystemPrompt == "" {
		t.Fatal("expected a system prompt")
	}
	if !strings.Contains(req.Content, "get_weather") {
		t.Fatalf("prompt is missing the tool name: %q", req.Content)
	}
	if !strings.Contains(req.Content, "sunny day") {
		t.Fatalf("prompt is missing the scenario: %q", req.Content)
	}
	if req.Params.Temperature != 0.2 {
		t.Fatalf("Temperature: got %v want 0.2", req.Params.Temperature)
	}
}

func TestGenerateInvalidOutput(t *testing.T) {
	t.Parallel()

	gen := &Generator{Provider: &fakeProvider{
		result: &llm.InvokeResult{Status: "success", Output: "sorry, I cannot help with that"},
	}}

	res, err := gen.Generate(context.Background(), &Request{ToolName: "t"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != StatusInvalidOutput {
		t.Fatalf("Status: got %q want %q", res.Status, StatusInvalidOutput)
	}
	if res.RawOutput == "" {
		t.Fatal("RawOutput: expected the raw model output for debugging")
	}
}

func TestGenerateValidationFailed(t *testing.T) {
	t.Parallel()

	// Parses fine but declares a static mock without static_response.
	gen := &Generator{Provider: &fakeProvider{
		result: &llm.InvokeResult{
			Status: "success",
			Output: `{"enabled": true, "response_type": "static"}`,
		},
	}}

	res, err := gen.Generate(context.Background(), &Request{ToolName: "t"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != StatusValidationFailed {
		t.Fatalf("Status: got %q want %q", res.Status, StatusValidationFailed)
	}
	if res.MockConfig == nil {
		t.Fatal("MockConfig: rejected config should still be returned for inspection")
	}
	if !strings.Contains(res.ValidationError, "static_response") {
		t.Fatalf("ValidationError: got %q", res.ValidationError)
	}
}

func TestGenerateProviderError(t *testing.T) {
	t.Parallel()

	gen := &Generator{Provider: &fakeProvider{err: errors.New("connection refused")}}

	res, err := gen.Generate(context.Background(), &Request{ToolName: "t"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != StatusError {
		t.Fatalf("Status: got %q want %q", res.Status, StatusError)
	}
	if !strings.Contains(res.ValidationError, "connection refused") {
		t.Fatalf("ValidationError: got %q", res.ValidationError)
	}
}

func TestGenerateArgumentValidation(t *testing.T) {
	t.Parallel()

	gen := &Generator{Provider: &fakeProvider{}}
	if _, err := gen.Generate(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
	if _, err := gen.Generate(context.Background(), &Request{}); err == nil {
		t.Fatal("expected error for empty tool name")
	}

	var nilGen *Generator
	if _, err := nilGen.Generate(context.Background(), &Request{ToolName: "t"}); err == nil {
		t.Fatal("expected error for nil generator")
	}
}
