package scoring

import (
	"github.com/stellarlinkco/agent-eval/internal/agent"
	"github.com/stellarlinkco/agent-eval/internal/llm"
)

// Weighted dimension names. Weights are integer percentages; dimensions that
// are not evaluated are excluded and the remaining weights renormalized.
const (
	DimToolCalls      = "tool_calls"
	DimTextSimilarity = "text_similarity"
	DimToolFlow       = "tool_flow"
	DimCustomCriteria = "custom_criteria"
)

// DefaultWeights is the 4-dimension scheme. Callers may supply any other
// scheme, including the older 3-dimension {tool_calls:70, text_similarity:20,
// custom_criteria:10}.
func DefaultWeights() map[string]int {
	return map[string]int{
		DimToolCalls:      50,
		DimTextSimilarity: 20,
		DimToolFlow:       20,
		DimCustomCriteria: 10,
	}
}

// Input carries one transcript and its expected outcome.
//
// ToolCalls and ExpectedToolCalls accept both wire shapes a caller might
// hold: {function:{name,arguments}} and {name,arguments}; arguments may be a
// JSON string. Normalization happens once at the ingestion boundary.
type Input struct {
	Output              string
	ExpectedOutput      string
	ToolCalls           []map[string]any
	ExpectedToolCalls   []map[string]any
	Criteria            map[string]any
	Weights             map[string]int
	ConversationHistory []llm.Message
	ToolCallHistory     []agent.ToolCallRecord
}

// Call is a tool call normalized to {name, arguments}.
type Call struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Details itemizes how a score was assembled, sufficient to audit the result.
type Details struct {
	Scores         map[string]float64     `json:"scores"`
	WeightsUsed    map[string]float64     `json:"weights_used"`
	ToolCalls      *ToolCallDetails       `json:"tool_calls,omitempty"`
	TextSimilarity *TextSimilarityDetails `json:"text_similarity,omitempty"`
	ToolFlow       *ToolFlowDetails       `json:"tool_flow,omitempty"`
	Issues         []string               `json:"issues,omitempty"`
	TotalScore     float64                `json:"total_score"`
}

// ToolCallDetails reports the four tool-call sub-scores on their 0-100 scale:
// name and count are worth 20 each, parameter names and values 30 each.
type ToolCallDetails struct {
	Expected    []Call  `json:"expected"`
	Actual      []Call  `json:"actual"`
	NameMatch   float64 `json:"name_match"`
	CountMatch  float64 `json:"count_match"`
	ParamsMatch float64 `json:"params_match"`
	ValuesMatch float64 `json:"values_match"`
}

type TextSimilarityDetails struct {
	Score          float64 `json:"score"`
	OutputLength   int     `json:"output_length"`
	ExpectedLength int     `json:"expected_length"`
}

// ToolFlowDetails reports the flow sub-scores on their 0-100 scale:
// tools used 20, tool messages seen 20, result data reflected in the final
// output 30, call volume within bound 30.
type ToolFlowDetails struct {
	ToolsUsed       float64 `json:"tools_used"`
	ToolMessageSeen float64 `json:"tool_message_seen"`
	ResultDataUsed  float64 `json:"result_data_used"`
	CallVolume      float64 `json:"call_volume"`
}
