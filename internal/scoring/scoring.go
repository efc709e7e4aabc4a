// Package scoring computes a weighted correctness score for one agent
// transcript against an expected outcome: tool-call accuracy, text
// similarity, tool-usage flow, and caller-defined criteria.
package scoring

import "errors"

// Evaluate scores one transcript. Only dimensions whose inputs are present
// contribute; their weights are renormalized so the active dimensions still
// sum to 100. The returned score and every per-dimension score are in [0,1].
func Evaluate(in *Input) (float64, *Details, error) {
	if in == nil {
		return 0, nil, errors.New("scoring: input is nil")
	}

	details := &Details{
		Scores:      make(map[string]float64),
		WeightsUsed: make(map[string]float64),
	}

	actual := normalizeCalls(in.ToolCalls)
	expected := normalizeCalls(in.ExpectedToolCalls)

	if len(expected) > 0 {
		score, sub := scoreToolCalls(actual, expected)
		details.Scores[DimToolCalls] = score
		details.ToolCalls = sub
	}

	if in.ExpectedOutput != "" {
		score := textSimilarity(in.Output, in.ExpectedOutput)
		details.Scores[DimTextSimilarity] = score
		details.TextSimilarity = &TextSimilarityDetails{
			Score:          score,
			OutputLength:   len(in.Output),
			ExpectedLength: len(in.ExpectedOutput),
		}
	}

	if len(expected) > 0 && (len(in.ConversationHistory) > 0 || len(in.ToolCallHistory) > 0) {
		score, sub := scoreToolFlow(in.Output, expected, in.ConversationHistory, in.ToolCallHistory)
		details.Scores[DimToolFlow] = score
		details.ToolFlow = sub
	}

	if len(in.Criteria) > 0 {
		score, issues := scoreCriteria(in.Output, actual, in.Criteria)
		details.Scores[DimCustomCriteria] = score
		details.Issues = issues
	}

	if len(details.Scores) == 0 {
		return 0, details, errors.New("scoring: nothing to evaluate: no expected output, expected tool calls, or criteria")
	}

	defaults := DefaultWeights()
	weightSum := 0
	raw := make(map[string]int, len(details.Scores))
	for dim := range details.Scores {
		w, ok := 0, false
		if in.Weights != nil {
			w, ok = in.Weights[dim]
		}
		if !ok {
			w = defaults[dim]
		}
		raw[dim] = w
		weightSum += w
	}
	if weightSum == 0 {
		return 0, details, errors.New("scoring: active dimension weights sum to zero")
	}

	total := 0.0
	for dim, score := range details.Scores {
		normalized := float64(raw[dim]) * 100 / float64(weightSum)
		details.WeightsUsed[dim] = normalized
		total += score * normalized / 100
	}
	details.TotalScore = total

	return total, details, nil
}
