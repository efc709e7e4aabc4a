package scoring

import "math"

// scoreToolCalls rates tool-call accuracy over four sub-scores totaling 100:
// tool names 20, call count 20, parameter names 30, parameter values 30.
func scoreToolCalls(actual, expected []Call) (float64, *ToolCallDetails) {
	details := &ToolCallDetails{
		Expected: expected,
		Actual:   actual,
	}

	// Nothing expected: trivially satisfied.
	if len(expected) == 0 {
		details.NameMatch = 20
		details.CountMatch = 20
		details.ParamsMatch = 30
		details.ValuesMatch = 30
		return 1.0, details
	}

	// Expected calls exist but nothing was called.
	if len(actual) == 0 {
		return 0.0, details
	}

	expectedNames := make(map[string]struct{})
	for _, c := range expected {
		if c.Name != "" {
			expectedNames[c.Name] = struct{}{}
		}
	}
	actualNames := make(map[string]struct{})
	for _, c := range actual {
		if c.Name != "" {
			actualNames[c.Name] = struct{}{}
		}
	}

	if len(expectedNames) > 0 {
		hits := 0
		for name := range expectedNames {
			if _, ok := actualNames[name]; ok {
				hits++
			}
		}
		details.NameMatch = float64(hits) / float64(len(expectedNames)) * 20
	} else {
		details.NameMatch = 20
	}

	// Capped at the expected count: overcalling earns no extra credit.
	count := len(actual)
	if count > len(expected) {
		count = len(expected)
	}
	details.CountMatch = float64(count) / float64(len(expected)) * 20

	// For each expected call, find the best-covering actual call with the
	// same tool name; name coverage and value similarity are searched
	// independently.
	var nameSum, valueSum float64
	for _, exp := range expected {
		var bestNames, bestValues float64
		for _, act := range actual {
			if act.Name != exp.Name {
				continue
			}

			nameScore := 1.0
			if len(exp.Arguments) > 0 {
				hits := 0
				for key := range exp.Arguments {
					if _, ok := act.Arguments[key]; ok {
						hits++
					}
				}
				nameScore = float64(hits) / float64(len(exp.Arguments))
			}
			if nameScore > bestNames {
				bestNames = nameScore
			}

			if valueScore := compareParameters(act.Arguments, exp.Arguments); valueScore > bestValues {
				bestValues = valueScore
			}
		}
		nameSum += bestNames
		valueSum += bestValues
	}

	details.ParamsMatch = nameSum / float64(len(expected)) * 30
	details.ValuesMatch = valueSum / float64(len(expected)) * 30

	total := (details.NameMatch + details.CountMatch + details.ParamsMatch + details.ValuesMatch) / 100
	return total, details
}

// compareParameters scores how closely actual argument values track the
// expected ones: exact matches count fully; same-typed scalars earn partial
// credit (string edit ratio or relative numeric distance, each weighted 0.5).
// Type mismatches and nested structures earn nothing.
func compareParameters(actual, expected map[string]any) float64 {
	if len(expected) == 0 {
		return 1.0
	}

	matched := 0
	partial := 0.0

	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			continue
		}

		if looseEqual(got, want) {
			matched++
			continue
		}

		gotStr, gotIsStr := got.(string)
		wantStr, wantIsStr := want.(string)
		if gotIsStr && wantIsStr {
			partial += similarityRatio(gotStr, wantStr) * 0.5
			continue
		}

		gotNum, gotIsNum := toFloat(got)
		wantNum, wantIsNum := toFloat(want)
		if gotIsNum && wantIsNum && wantNum != 0 {
			diffRatio := math.Abs(gotNum-wantNum) / math.Abs(wantNum)
			partial += math.Max(0, 1-diffRatio) * 0.5
		}
	}

	score := (float64(matched) + partial) / float64(len(expected))
	return math.Min(1.0, score)
}

func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	return deepEqualJSON(a, b)
}

func deepEqualJSON(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !looseEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !looseEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
