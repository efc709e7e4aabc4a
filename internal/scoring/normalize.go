package scoring

import (
	"github.com/stellarlinkco/agent-eval/internal/llm"
)

// normalizeCall flattens either tool-call wire shape to {name, arguments}.
// A JSON-string argument payload is parsed; malformed JSON degrades to an
// empty mapping.
func normalizeCall(raw map[string]any) Call {
	src := raw
	if fn, ok := raw["function"].(map[string]any); ok {
		src = fn
	}

	name, _ := src["name"].(string)

	var args map[string]any
	switch v := src["arguments"].(type) {
	case map[string]any:
		args = v
	case string:
		parsed, err := llm.ParseArguments(v)
		if err != nil {
			parsed = map[string]any{}
		}
		args = parsed
	default:
		args = map[string]any{}
	}

	return Call{Name: name, Arguments: args}
}

func normalizeCalls(raw []map[string]any) []Call {
	out := make([]Call, 0, len(raw))
	for _, c := range raw {
		out = append(out, normalizeCall(c))
	}
	return out
}
