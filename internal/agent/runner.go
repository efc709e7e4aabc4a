package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

const defaultMaxIterations = 5

// Runner drives multi-turn tool-calling conversations: invoke the model, feed
// requested tool calls through the mock executor, repeat until the model
// produces a final answer or the iteration bound is hit.
//
// A Runner is stateless across runs; independent runs may execute
// concurrently, each owning its own conversation and metrics.
type Runner struct {
	provider llm.Provider
	executor *mock.Executor
	log      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger; defaults to slog.Default().
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if r == nil || log == nil {
			return
		}
		r.log = log
	}
}

// WithExecutor replaces the mock executor, letting tests inject a
// deterministic one.
func WithExecutor(e *mock.Executor) RunnerOption {
	return func(r *Runner) {
		if r == nil || e == nil {
			return
		}
		r.executor = e
	}
}

func NewRunner(provider llm.Provider, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider: provider,
		executor: mock.NewExecutor(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run executes the orchestration loop to a terminal state. The returned error
// is non-nil only for invalid inputs; model invocation failures are reported
// through RunResult.Status so the partial transcript survives.
func (r *Runner) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	if r == nil {
		return nil, errors.New("agent: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("agent: nil context")
	}
	if r.provider == nil {
		return nil, errors.New("agent: nil llm provider")
	}
	if req == nil {
		return nil, errors.New("agent: nil request")
	}
	if req.UseMock && len(req.Tools) > 0 && req.MockConfigs == nil {
		return nil, errors.New("agent: mock mode requires tool mock configs")
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	// Seed the conversation: prior history, then the new user turn.
	conversation := make([]llm.Message, 0, len(req.History)+2*maxIterations+1)
	conversation = append(conversation, req.History...)
	conversation = append(conversation, llm.Message{Role: llm.RoleUser, Content: req.Content})

	var (
		history []ToolCallRecord
		metrics Metrics
	)

	r.log.Info("agent run started",
		"provider", r.provider.Name(),
		"use_mock", req.UseMock,
		"max_iterations", maxIterations)

	for iteration := 1; iteration <= maxIterations; iteration++ {
		invokeReq := &llm.InvokeRequest{
			Params: req.Params,
			Tools:  req.Tools,
		}
		if iteration == 1 {
			// First call: the new user turn and the system prompt travel
			// separately from prior history, matching the provider contract.
			invokeReq.Content = req.Content
			invokeReq.SystemPrompt = req.SystemPrompt
			invokeReq.History = req.History
		} else {
			invokeReq.History = conversation
		}

		result, err := r.provider.Invoke(ctx, invokeReq)

		metrics.TotalIterations = iteration
		if result != nil {
			metrics.TotalPromptTokens += result.Metrics.PromptTokens
			metrics.TotalCompletionTokens += result.Metrics.CompletionTokens
			metrics.TotalTokens = metrics.TotalPromptTokens + metrics.TotalCompletionTokens
			metrics.EstimatedCost += result.Metrics.EstimatedCost
			metrics.ResponseTime = result.Metrics.ResponseTime
		}

		if err != nil {
			// Model invocation failures are terminal; retries are the
			// caller's responsibility.
			r.log.Error("agent run aborted: model invocation failed",
				"iteration", iteration, "error", err)
			return &RunResult{
				Status:          StatusError,
				ErrorMessage:    err.Error(),
				Metrics:         metrics,
				ToolCallHistory: history,
				Conversation:    conversation,
			}, nil
		}

		if len(result.ToolCalls) == 0 {
			r.log.Info("agent run finished", "iterations", iteration)
			status := StatusSuccess
			if result.Status == "error" {
				status = StatusError
			}
			return &RunResult{
				Output:          result.Output,
				Status:          status,
				ErrorMessage:    result.ErrorMessage,
				Metrics:         metrics,
				ToolCallHistory: history,
				Conversation:    append(conversation, llm.Message{Role: llm.RoleAssistant, Content: result.Output}),
			}, nil
		}

		conversation = append(conversation, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   result.Output,
			ToolCalls: result.ToolCalls,
		})

		// Execute the requested tools in the order the model returned them;
		// their result messages keep that order so the next invocation sees a
		// causally consistent transcript.
		for _, call := range result.ToolCalls {
			record := r.executeToolCall(iteration, call, req)
			history = append(history, record)
			conversation = append(conversation, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    encodeResult(record.Result),
			})
		}

		if iteration == maxIterations {
			r.log.Warn("agent run hit iteration bound", "max_iterations", maxIterations)
			return &RunResult{
				Output:          "maximum tool-call iterations reached; the task may be incomplete",
				Status:          StatusMaxIterations,
				Warning:         "reached max iterations with tool calls still pending",
				Metrics:         metrics,
				ToolCallHistory: history,
				Conversation:    conversation,
			}, nil
		}
	}

	// The loop always returns from one of the branches above.
	return nil, errors.New("agent: internal error: loop exited without a terminal state")
}

func (r *Runner) executeToolCall(iteration int, call llm.ToolCall, req *RunRequest) ToolCallRecord {
	args, err := llm.ParseArguments(call.Arguments)
	if err != nil {
		// One bad argument payload must not abort the batch.
		r.log.Warn("agent: malformed tool arguments, using empty mapping",
			"tool", call.Name, "error", err)
		args = map[string]any{}
	}

	var result map[string]any
	if req.UseMock {
		result = r.executor.Execute(call.Name, args, req.MockConfigs[call.Name])
	} else {
		result = map[string]any{
			"success": false,
			"error":   "real tool execution is not implemented",
			"note":    "run with use_mock enabled",
		}
	}

	return ToolCallRecord{
		Iteration:  iteration,
		ToolName:   call.Name,
		Arguments:  args,
		Result:     result,
		ToolCallID: call.ID,
	}
}

func encodeResult(result map[string]any) string {
	b, err := json.Marshal(result)
	if err != nil {
		return "{}"
	}
	return string(b)
}
