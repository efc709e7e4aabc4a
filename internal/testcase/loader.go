package testcase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/agent-eval/internal/mock"
	"github.com/stellarlinkco/agent-eval/internal/scoring"
)

// LoadFromFile loads and validates a suite from a YAML file.
func LoadFromFile(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testcase: read %q: %w", path, err)
	}

	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("testcase: parse %q: %w", path, err)
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("testcase: validate %q: %w", path, err)
	}

	return &s, nil
}

// LoadFromDir loads and validates all suites from a directory.
func LoadFromDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("testcase: read dir %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	out := make([]*Suite, 0, len(paths))
	for _, path := range paths {
		s, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks a suite for consistency.
func Validate(suite *Suite) error {
	if suite == nil {
		return fmt.Errorf("nil suite")
	}
	if strings.TrimSpace(suite.Suite) == "" {
		return fmt.Errorf("suite: missing suite name")
	}
	if len(suite.Cases) == 0 {
		return fmt.Errorf("suite: no cases")
	}

	seenTools := make(map[string]struct{}, len(suite.Tools))
	for i, t := range suite.Tools {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("tools[%d]: missing name", i)
		}
		if _, ok := seenTools[name]; ok {
			return fmt.Errorf("tools[%d] (%s): duplicate name", i, name)
		}
		seenTools[name] = struct{}{}

		if err := mock.Validate(t.Mock); err != nil {
			return fmt.Errorf("tools[%d] (%s): %w", i, name, err)
		}
	}

	seenIDs := make(map[string]struct{}, len(suite.Cases))
	for i, c := range suite.Cases {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("cases[%d]: missing id", i)
		}
		if _, ok := seenIDs[id]; ok {
			return fmt.Errorf("cases[%d] (%s): duplicate id", i, id)
		}
		seenIDs[id] = struct{}{}

		if strings.TrimSpace(c.Prompt) == "" {
			return fmt.Errorf("cases[%d] (%s): missing prompt", i, id)
		}
		if c.MaxIterations < 0 {
			return fmt.Errorf("cases[%d] (%s): max_iterations must be >= 0", i, id)
		}
		if c.MaxTokens < 0 {
			return fmt.Errorf("cases[%d] (%s): max_tokens must be >= 0", i, id)
		}

		if c.ExpectedOutput == "" && len(c.ExpectedToolCalls) == 0 && len(c.Criteria) == 0 {
			return fmt.Errorf("cases[%d] (%s): no expected output, expected tool calls, or criteria", i, id)
		}

		for j, call := range c.ExpectedToolCalls {
			if callName(call) == "" {
				return fmt.Errorf("cases[%d] (%s): expected_tool_calls[%d]: missing name", i, id, j)
			}
		}

		for dim, w := range c.Weights {
			if !knownDimension(dim) {
				return fmt.Errorf("cases[%d] (%s): weights: unknown dimension %q", i, id, dim)
			}
			if w < 0 {
				return fmt.Errorf("cases[%d] (%s): weights[%s] must be >= 0", i, id, dim)
			}
		}
	}
	return nil
}

func callName(call map[string]any) string {
	if fn, ok := call["function"].(map[string]any); ok {
		call = fn
	}
	name, _ := call["name"].(string)
	return strings.TrimSpace(name)
}

func knownDimension(dim string) bool {
	switch dim {
	case scoring.DimToolCalls, scoring.DimTextSimilarity, scoring.DimToolFlow, scoring.DimCustomCriteria:
		return true
	default:
		return false
	}
}
