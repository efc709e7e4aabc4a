package testcase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellarlinkco/agent-eval/internal/mock"
)

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")

	const in = `
suite: weather_suite
description: Weather lookup scenarios
tools:
  - name: get_weather
    description: Look up the current weather for a city
    parameters:
      type: object
      properties:
        city:
          type: string
      required: [city]
    mock:
      enabled: true
      response_type: template
      response_templates:
        - condition:
            city: Paris
          response:
            temperature: 21
            conditions: sunny
        - condition:
            _default: true
          response:
            temperature: 15
            conditions: cloudy
      latency_ms:
        min: 0
        max: 0
cases:
  - id: paris_weather
    prompt: What is the weather in Paris?
    system_prompt: You are a helpful assistant.
    expected_output: It is sunny in Paris.
    expected_tool_calls:
      - name: get_weather
        arguments:
          city: Paris
    criteria:
      must_contain: [Paris]
    weights:
      tool_calls: 70
      text_similarity: 20
      custom_criteria: 10
    max_iterations: 3
  - id: no_mock
    prompt: Say hello.
    expected_output: hello
    use_mock: false
`
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if s.Suite != "weather_suite" {
		t.Fatalf("Suite: got %q want %q", s.Suite, "weather_suite")
	}
	if len(s.Tools) != 1 {
		t.Fatalf("Tools: got %d want 1", len(s.Tools))
	}
	tool := s.Tools[0]
	if tool.Name != "get_weather" {
		t.Fatalf("Tool name: got %q", tool.Name)
	}
	if tool.Mock == nil || tool.Mock.ResponseType != mock.ResponseTemplate {
		t.Fatalf("Tool mock: got %+v", tool.Mock)
	}
	if len(tool.Mock.ResponseTemplates) != 2 {
		t.Fatalf("ResponseTemplates: got %d want 2", len(tool.Mock.ResponseTemplates))
	}

	if len(s.Cases) != 2 {
		t.Fatalf("Cases: got %d want 2", len(s.Cases))
	}
	c := s.Cases[0]
	if c.MaxIterations != 3 {
		t.Fatalf("MaxIterations: got %d want 3", c.MaxIterations)
	}
	if !c.Mocked() {
		t.Fatal("Mocked: unset use_mock must default to true")
	}
	if c.Weights["tool_calls"] != 70 {
		t.Fatalf("Weights: got %v", c.Weights)
	}
	if len(c.ExpectedToolCalls) != 1 {
		t.Fatalf("ExpectedToolCalls: got %d want 1", len(c.ExpectedToolCalls))
	}
	if s.Cases[1].Mocked() {
		t.Fatal("Mocked: explicit use_mock false was ignored")
	}

	schemas := s.ToolSchemas()
	if len(schemas) != 1 || schemas[0].Function.Name != "get_weather" {
		t.Fatalf("ToolSchemas: got %+v", schemas)
	}
	if schemas[0].Type != "function" {
		t.Fatalf("ToolSchemas type: got %q", schemas[0].Type)
	}

	mocks := s.MockConfigs()
	if len(mocks) != 1 || mocks["get_weather"] == nil {
		t.Fatalf("MockConfigs: got %v", mocks)
	}
}

func TestLoadFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const suite = `
suite: %s
cases:
  - id: c1
    prompt: hi
    expected_output: hello
`
	for _, name := range []string{"b.yaml", "a.yml", "ignored.txt"} {
		content := strings.Replace(suite, "%s", strings.TrimSuffix(name, filepath.Ext(name)), 1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile %q: %v", name, err)
		}
	}

	suites, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if len(suites) != 2 {
		t.Fatalf("LoadFromDir: got %d suites want 2", len(suites))
	}
	// Lexical order by path.
	if suites[0].Suite != "a" || suites[1].Suite != "b" {
		t.Fatalf("LoadFromDir order: got %q, %q", suites[0].Suite, suites[1].Suite)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Suite {
		return &Suite{
			Suite: "s",
			Tools: []Tool{{Name: "ping"}},
			Cases: []Case{{ID: "c1", Prompt: "hi", ExpectedOutput: "pong"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Suite)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Suite) {},
		},
		{
			name:    "missing suite name",
			mutate:  func(s *Suite) { s.Suite = " " },
			wantErr: "missing suite name",
		},
		{
			name:    "no cases",
			mutate:  func(s *Suite) { s.Cases = nil },
			wantErr: "no cases",
		},
		{
			name:    "duplicate tool",
			mutate:  func(s *Suite) { s.Tools = append(s.Tools, Tool{Name: "ping"}) },
			wantErr: "duplicate name",
		},
		{
			name: "invalid mock config",
			mutate: func(s *Suite) {
				s.Tools[0].Mock = &mock.Config{Enabled: true, ResponseType: "static"}
			},
			wantErr: "static_response",
		},
		{
			name:    "missing case id",
			mutate:  func(s *Suite) { s.Cases[0].ID = "" },
			wantErr: "missing id",
		},
		{
			name:    "duplicate case id",
			mutate:  func(s *Suite) { s.Cases = append(s.Cases, s.Cases[0]) },
			wantErr: "duplicate id",
		},
		{
			name:    "missing prompt",
			mutate:  func(s *Suite) { s.Cases[0].Prompt = "" },
			wantErr: "missing prompt",
		},
		{
			name: "no expectations",
			mutate: func(s *Suite) {
				s.Cases[0].ExpectedOutput = ""
			},
			wantErr: "no expected output",
		},
		{
			name: "expected call without name",
			mutate: func(s *Suite) {
				s.Cases[0].ExpectedToolCalls = []map[string]any{{"arguments": map[string]any{}}}
			},
			wantErr: "missing name",
		},
		{
			name: "unknown weight dimension",
			mutate: func(s *Suite) {
				s.Cases[0].Weights = map[string]int{"vibes": 100}
			},
			wantErr: "unknown dimension",
		},
		{
			name: "negative max_iterations",
			mutate: func(s *Suite) {
				s.Cases[0].MaxIterations = -1
			},
			wantErr: "max_iterations",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := base()
			tt.mutate(s)
			err := Validate(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate: got %v want substring %q", err, tt.wantErr)
			}
		})
	}
}
