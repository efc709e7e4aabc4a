package scoring

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/agent-eval/internal/agent"
	"github.com/stellarlinkco/agent-eval/internal/llm"
)

// Keys carried in every mock result envelope; they say nothing about whether
// the model consumed the tool's data.
var bookkeepingKeys = map[string]struct{}{
	"success":    {},
	"timestamp":  {},
	"tool_name":  {},
	"_mock_mode": {},
}

// scoreToolFlow rates how the conversation used its tools over four
// sub-checks totaling 100: tools invoked 20, tool messages present 20,
// result data surfaced in the final output 30, call volume within bounds 30.
func scoreToolFlow(output string, expected []Call, history []llm.Message, records []agent.ToolCallRecord) (float64, *ToolFlowDetails) {
	details := &ToolFlowDetails{}

	if len(expected) == 0 {
		details.ToolsUsed = 20
		details.ToolMessageSeen = 20
		details.ResultDataUsed = 30
		details.CallVolume = 30
		return 1.0, details
	}

	if len(records) > 0 {
		details.ToolsUsed = 20
	}

	for _, msg := range history {
		if msg.Role == llm.RoleTool {
			details.ToolMessageSeen = 20
			break
		}
	}

	if len(records) > 0 {
		if resultDataInOutput(output, records) {
			details.ResultDataUsed = 30
		} else {
			details.ResultDataUsed = 10
		}
	}

	if len(records) > 0 {
		if len(records) <= 2*len(expected) {
			details.CallVolume = 30
		} else {
			details.CallVolume = 15
		}
	}

	total := (details.ToolsUsed + details.ToolMessageSeen + details.ResultDataUsed + details.CallVolume) / 100
	return total, details
}

// resultDataInOutput reports whether any non-trivial value from a tool result
// appears verbatim in the final output. A crude proxy for the model actually
// reading its tool results, but it catches the common failure of the model
// ignoring them entirely.
func resultDataInOutput(output string, records []agent.ToolCallRecord) bool {
	if output == "" {
		return false
	}
	lower := strings.ToLower(output)
	for _, rec := range records {
		for key, value := range rec.Result {
			if _, skip := bookkeepingKeys[key]; skip {
				continue
			}
			s := valueText(value)
			if len(s) > 3 && strings.Contains(lower, strings.ToLower(s)) {
				return true
			}
		}
	}
	return false
}

func valueText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
