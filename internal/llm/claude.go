package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const defaultClaudeModel = "claude-sonnet-4-5-20250929"

// ClaudeProvider invokes Anthropic models through the official SDK.
type ClaudeProvider struct {
	client anthropic.Client
	model  string
}

func NewClaudeProvider(apiKey string, baseURL string, model string) *ClaudeProvider {
	opts := make([]option.RequestOption, 0, 2)
	if v := strings.TrimSpace(apiKey); v != "" {
		opts = append(opts, option.WithAPIKey(v))
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(v, "/")))
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultClaudeModel
	}

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		model:  m,
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResult, error) {
	if p == nil {
		return nil, errors.New("llm: claude: nil provider")
	}
	if ctx == nil {
		return nil, errors.New("llm: claude: nil context")
	}
	if req == nil {
		return nil, errors.New("llm: claude: nil request")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(clampMaxTokens(req.Params.MaxTokens)),
		Messages:  toClaudeMessages(req),
	}
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Params.Temperature > 0 {
		params.Temperature = param.NewOpt(req.Params.Temperature)
	}
	params.Tools = toClaudeTools(req.Tools)

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return &InvokeResult{
			Status:       "error",
			ErrorMessage: err.Error(),
			Metrics:      Metrics{ResponseTime: elapsed},
		}, err
	}

	promptTokens := int(msg.Usage.InputTokens)
	completionTokens := int(msg.Usage.OutputTokens)
	out := &InvokeResult{
		Status: "success",
		Metrics: Metrics{
			ResponseTime:     elapsed,
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
			EstimatedCost:    EstimateCost(p.model, promptTokens, completionTokens),
		},
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			sb.WriteString(block.AsText().Text)
		case "tool_use":
			tool := block.AsToolUse()
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        tool.ID,
				Name:      tool.Name,
				Arguments: string(tool.Input),
			})
		}
	}
	out.Output = sb.String()

	return out, nil
}

// toClaudeMessages rebuilds the conversation in the Anthropic message shape:
// assistant tool calls become tool_use blocks, and a run of tool-role messages
// becomes one user message of tool_result blocks.
func toClaudeMessages(req *InvokeRequest) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(req.History)+1)

	var pendingResults []anthropic.ContentBlockParamUnion
	flushResults := func() {
		if len(pendingResults) == 0 {
			return
		}
		msgs = append(msgs, anthropic.MessageParam{
			Role:    anthropic.MessageParamRoleUser,
			Content: pendingResults,
		})
		pendingResults = nil
	}

	for _, m := range req.History {
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case RoleTool:
			pendingResults = append(pendingResults,
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
		case RoleAssistant:
			flushResults()
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolCalls)+1)
			if strings.TrimSpace(m.Content) != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				args, err := ParseArguments(tc.Arguments)
				if err != nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, args, tc.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(""))
			}
			msgs = append(msgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		case RoleSystem:
			// System turns are carried via params.System, not the message list.
		default:
			flushResults()
			msgs = append(msgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
			})
		}
	}
	flushResults()

	if req.Content != "" {
		msgs = append(msgs, anthropic.MessageParam{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.Content)},
		})
	}

	return msgs
}

func toClaudeTools(tools []ToolSchema) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		name := strings.TrimSpace(t.Function.Name)
		if name == "" {
			continue
		}
		tool := anthropic.ToolParam{
			Name:        name,
			InputSchema: toClaudeInputSchema(t.Function.Parameters),
		}
		if desc := strings.TrimSpace(t.Function.Description); desc != "" {
			tool.Description = param.NewOpt(desc)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}

func toClaudeInputSchema(schema map[string]any) anthropic.ToolInputSchemaParam {
	out := anthropic.ToolInputSchemaParam{Type: "object"}
	if schema == nil {
		return out
	}

	if props, ok := schema["properties"]; ok {
		out.Properties = props
	}
	if required, ok := schema["required"]; ok {
		out.Required = toStringSlice(required)
	}

	extra := make(map[string]any)
	for k, v := range schema {
		if k == "properties" || k == "required" || k == "type" {
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		out.ExtraFields = extra
	}

	return out
}

func toStringSlice(v any) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
