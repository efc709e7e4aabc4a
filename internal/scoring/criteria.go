package scoring

import (
	"fmt"
	"strings"
)

// scoreCriteria applies independent penalties against a starting score of
// 1.0, floored at zero. Each violated rule appends a human-readable issue.
func scoreCriteria(output string, actual []Call, criteria map[string]any) (float64, []string) {
	score := 1.0
	var issues []string

	if v, ok := criteria["min_length"]; ok {
		if min, ok := toFloat(v); ok && float64(len(output)) < min {
			score -= 0.2
			issues = append(issues, fmt.Sprintf("output length %d below minimum %d", len(output), int(min)))
		}
	}

	if v, ok := criteria["max_length"]; ok {
		if max, ok := toFloat(v); ok && float64(len(output)) > max {
			score -= 0.1
			issues = append(issues, fmt.Sprintf("output length %d above maximum %d", len(output), int(max)))
		}
	}

	// Keyword containment is exact, including case.
	if keywords := stringList(criteria["must_contain"]); len(keywords) > 0 {
		penalty := 0.2 / float64(len(keywords))
		for _, kw := range keywords {
			if !strings.Contains(output, kw) {
				score -= penalty
				issues = append(issues, fmt.Sprintf("missing required keyword %q", kw))
			}
		}
	}

	if keywords := stringList(criteria["must_not_contain"]); len(keywords) > 0 {
		penalty := 0.2 / float64(len(keywords))
		for _, kw := range keywords {
			if strings.Contains(output, kw) {
				score -= penalty
				issues = append(issues, fmt.Sprintf("forbidden keyword %q present", kw))
			}
		}
	}

	if required := stringList(criteria["tool_must_call"]); len(required) > 0 {
		called := make(map[string]struct{}, len(actual))
		for _, c := range actual {
			called[c.Name] = struct{}{}
		}
		penalty := 0.3 / float64(len(required))
		for _, name := range required {
			if _, ok := called[name]; !ok {
				score -= penalty
				issues = append(issues, fmt.Sprintf("required tool %q was not called", name))
			}
		}
	}

	if score < 0 {
		score = 0
	}
	return score, issues
}

// stringList tolerates []string, the []any that JSON and YAML decoding
// produce, and a bare string standing in for a one-element list.
func stringList(v any) []string {
	switch list := v.(type) {
	case string:
		return []string{list}
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
