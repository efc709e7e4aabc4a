package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider invokes OpenAI chat completion models. With a custom BaseURL
// it also serves any OpenAI-compatible endpoint (vLLM, Ollama, proxies).
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey string, baseURL string, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = "gpt-4o"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResult, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("llm: openai: nil client")
	}
	if ctx == nil {
		return nil, errors.New("llm: openai: nil context")
	}
	if req == nil {
		return nil, errors.New("llm: openai: nil request")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range req.History {
		msgs = append(msgs, toOpenAIMessage(m))
	}
	if req.Content != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Content,
		})
	}

	tools := toOpenAITools(req.Tools)

	r := openai.ChatCompletionRequest{
		Model:       strings.TrimSpace(p.model),
		Messages:    msgs,
		MaxTokens:   clampMaxTokens(req.Params.MaxTokens),
		Temperature: float32(req.Params.Temperature),
		Tools:       tools,
	}
	if len(tools) > 0 {
		r.ToolChoice = "auto"
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, r)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return &InvokeResult{
			Status:       "error",
			ErrorMessage: err.Error(),
			Metrics:      Metrics{ResponseTime: elapsed},
		}, err
	}
	if len(resp.Choices) == 0 {
		err := errors.New("llm: openai: empty choices")
		return &InvokeResult{
			Status:       "error",
			ErrorMessage: err.Error(),
			Metrics:      Metrics{ResponseTime: elapsed},
		}, err
	}

	msg := resp.Choices[0].Message
	out := &InvokeResult{
		Output: msg.Content,
		Status: "success",
		Metrics: Metrics{
			ResponseTime:     elapsed,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			EstimatedCost:    EstimateCost(p.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		},
	}

	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        strings.TrimSpace(tc.ID),
			Name:      strings.TrimSpace(tc.Function.Name),
			Arguments: tc.Function.Arguments,
		})
	}

	return out, nil
}

func toOpenAIMessage(m Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{
		Role:    normalizeOpenAIRole(m.Role),
		Content: m.Content,
	}
	if m.Role == RoleTool {
		out.ToolCallID = m.ToolCallID
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return out
}

func normalizeOpenAIRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleTool:
		return openai.ChatMessageRoleTool
	default:
		return openai.ChatMessageRoleUser
	}
}

func toOpenAITools(tools []ToolSchema) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		name := strings.TrimSpace(t.Function.Name)
		if name == "" {
			continue
		}
		params := t.Function.Parameters
		if params == nil {
			params = map[string]any{"type": "object"}
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: strings.TrimSpace(t.Function.Description),
				Parameters:  params,
			},
		})
	}
	return out
}

func clampMaxTokens(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}
