package llm

import "strings"

// Per-1K-token USD prices (input, output), matched by substring against the
// model name. Estimates only; used for run metrics, never for billing.
var costTable = []struct {
	match  string
	input  float64
	output float64
}{
	{"gpt-4-turbo", 0.01, 0.03},
	{"gpt-4o-mini", 0.00015, 0.0006},
	{"gpt-4o", 0.0025, 0.01},
	{"gpt-4", 0.03, 0.06},
	{"gpt-3.5-turbo", 0.0005, 0.0015},
	{"claude-3-opus", 0.015, 0.075},
	{"claude-3-sonnet", 0.003, 0.015},
	{"claude-3-haiku", 0.00025, 0.00125},
	{"claude-sonnet", 0.003, 0.015},
	{"claude-opus", 0.015, 0.075},
	{"claude-haiku", 0.0008, 0.004},
}

// EstimateCost returns an estimated USD cost for a completion, or 0 for
// unknown models.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	m := strings.ToLower(strings.TrimSpace(model))
	if m == "" {
		return 0
	}
	for _, entry := range costTable {
		if strings.Contains(m, entry.match) {
			return float64(promptTokens)/1000*entry.input + float64(completionTokens)/1000*entry.output
		}
	}
	return 0
}
