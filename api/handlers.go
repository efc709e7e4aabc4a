package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-eval/internal/agent"
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
	"github.com/stellarlinkco/agent-eval/internal/mockgen"
	"github.com/stellarlinkco/agent-eval/internal/scoring"
	"github.com/stellarlinkco/agent-eval/internal/store"
)

type runRequest struct {
	Provider          string                  `json:"provider,omitempty"`
	TestCaseID        string                  `json:"test_case_id,omitempty"`
	Prompt            string                  `json:"prompt,omitempty"`
	SystemPrompt      string                  `json:"system_prompt,omitempty"`
	Params            llm.Params              `json:"params"`
	Tools             []llm.ToolSchema        `json:"tools,omitempty"`
	MockConfigs       map[string]*mock.Config `json:"mock_configs,omitempty"`
	History           []llm.Message           `json:"history,omitempty"`
	UseMock           *bool                   `json:"use_mock,omitempty"`
	MaxIterations     int                     `json:"max_iterations,omitempty"`
	ExpectedOutput    string                  `json:"expected_output,omitempty"`
	ExpectedToolCalls []map[string]any        `json:"expected_tool_calls,omitempty"`
	Criteria          map[string]any          `json:"criteria,omitempty"`
	Weights           map[string]int          `json:"weights,omitempty"`
}

type runResponse struct {
	RunID      string           `json:"run_id"`
	Result     *agent.RunResult `json:"result"`
	Score      *float64         `json:"score,omitempty"`
	Evaluation *scoring.Details `json:"evaluation,omitempty"`
}

type generateMockRequest struct {
	Provider              string             `json:"provider,omitempty"`
	ToolID                string             `json:"tool_id,omitempty"`
	ToolName              string             `json:"tool_name,omitempty"`
	ToolDescription       string             `json:"tool_description,omitempty"`
	Parameters            map[string]any     `json:"parameters,omitempty"`
	Scenarios             []mockgen.Scenario `json:"scenarios,omitempty"`
	ResponseType          string             `json:"response_type,omitempty"`
	IncludeErrorScenarios bool               `json:"include_error_scenarios,omitempty"`
	Prompt                string             `json:"prompt,omitempty"`
	Save                  bool               `json:"save,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListTools(c *gin.Context) {
	tools, err := s.store.ListTools(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if tools == nil {
		tools = []*store.ToolRecord{}
	}
	c.JSON(http.StatusOK, tools)
}

func (s *Server) handleGetTool(c *gin.Context) {
	tool, err := s.store.GetTool(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (s *Server) handleUpsertTool(c *gin.Context) {
	var tool store.ToolRecord
	if err := c.ShouldBindJSON(&tool); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(tool.Name) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing tool name"))
		return
	}
	if cfg, err := decodeMockConfig(tool.MockConfig); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	} else if err := mock.Validate(cfg); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.store.SaveTool(c.Request.Context(), &tool); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, &tool)
}

func (s *Server) handleDeleteTool(c *gin.Context) {
	if err := s.store.DeleteTool(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListTestCases(c *gin.Context) {
	cases, err := s.store.ListTestCases(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if cases == nil {
		cases = []*store.TestCaseRecord{}
	}
	c.JSON(http.StatusOK, cases)
}

func (s *Server) handleGetTestCase(c *gin.Context) {
	tc, err := s.store.GetTestCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

func (s *Server) handleUpsertTestCase(c *gin.Context) {
	var tc store.TestCaseRecord
	if err := c.ShouldBindJSON(&tc); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(tc.Name) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing test case name"))
		return
	}
	if strings.TrimSpace(tc.Prompt) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing test case prompt"))
		return
	}

	if err := s.store.SaveTestCase(c.Request.Context(), &tc); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, &tc)
}

func (s *Server) handleDeleteTestCase(c *gin.Context) {
	if err := s.store.DeleteTestCase(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListModels(c *gin.Context) {
	models, err := s.store.ListModels(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if models == nil {
		models = []*store.ModelRecord{}
	}
	c.JSON(http.StatusOK, models)
}

func (s *Server) handleGetModel(c *gin.Context) {
	mc, err := s.store.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, mc)
}

func (s *Server) handleUpsertModel(c *gin.Context) {
	var mc store.ModelRecord
	if err := c.ShouldBindJSON(&mc); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(mc.Name) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing model name"))
		return
	}
	if strings.TrimSpace(mc.Provider) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing model provider"))
		return
	}

	if err := s.store.SaveModel(c.Request.Context(), &mc); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, &mc)
}

func (s *Server) handleDeleteModel(c *gin.Context) {
	if err := s.store.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TestCaseID != "" {
		if err := s.applyTestCase(c, &req); err != nil {
			respondStoreError(c, err)
			return
		}
	}

	if strings.TrimSpace(req.Prompt) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing prompt"))
		return
	}

	provider, err := s.provider(req.Provider)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	useMock := true
	if req.UseMock != nil {
		useMock = *req.UseMock
	}
	maxIterations := req.MaxIterations
	if maxIterations <= 0 && s.config != nil {
		maxIterations = s.config.Agent.MaxIterations
	}

	runner := agent.NewRunner(provider)
	result, err := runner.Run(c.Request.Context(), &agent.RunRequest{
		Content:       req.Prompt,
		SystemPrompt:  req.SystemPrompt,
		Params:        req.Params,
		Tools:         req.Tools,
		MockConfigs:   req.MockConfigs,
		History:       req.History,
		UseMock:       useMock,
		MaxIterations: maxIterations,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	resp := runResponse{
		RunID:  uuid.NewString(),
		Result: result,
	}

	if req.ExpectedOutput != "" || len(req.ExpectedToolCalls) > 0 || len(req.Criteria) > 0 {
		score, details, err := scoring.Evaluate(&scoring.Input{
			Output:              result.Output,
			ExpectedOutput:      req.ExpectedOutput,
			ToolCalls:           toolCallMaps(result.ToolCallHistory),
			ExpectedToolCalls:   req.ExpectedToolCalls,
			Criteria:            req.Criteria,
			Weights:             req.Weights,
			ConversationHistory: result.Conversation,
			ToolCallHistory:     result.ToolCallHistory,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		resp.Score = &score
		resp.Evaluation = details
	}

	c.JSON(http.StatusOK, resp)
}

// applyTestCase fills the run request from a stored test case. Fields the
// caller set explicitly win over the stored definition.
func (s *Server) applyTestCase(c *gin.Context, req *runRequest) error {
	ctx := c.Request.Context()
	tc, err := s.store.GetTestCase(ctx, req.TestCaseID)
	if err != nil {
		return err
	}

	if req.Prompt == "" {
		req.Prompt = tc.Prompt
	}
	if req.SystemPrompt == "" {
		req.SystemPrompt = tc.SystemPrompt
	}
	if req.ExpectedOutput == "" {
		req.ExpectedOutput = tc.ExpectedOutput
	}
	if len(req.ExpectedToolCalls) == 0 {
		req.ExpectedToolCalls = tc.ExpectedToolCalls
	}
	if len(req.Criteria) == 0 {
		req.Criteria = tc.Criteria
	}
	if len(req.Weights) == 0 {
		req.Weights = tc.Weights
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = tc.MaxIterations
	}
	if req.UseMock == nil {
		useMock := tc.UseMock
		req.UseMock = &useMock
	}

	if len(req.Tools) > 0 || len(tc.ToolIDs) == 0 {
		return nil
	}

	mocks := make(map[string]*mock.Config)
	for _, toolID := range tc.ToolIDs {
		rec, err := s.store.GetTool(ctx, toolID)
		if err != nil {
			return err
		}
		req.Tools = append(req.Tools, llm.ToolSchema{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        rec.Name,
				Description: rec.Description,
				Parameters:  rec.Parameters,
			},
		})
		cfg, err := decodeMockConfig(rec.MockConfig)
		if err != nil {
			return err
		}
		if cfg != nil {
			mocks[rec.Name] = cfg
		}
	}
	if req.MockConfigs == nil {
		req.MockConfigs = mocks
	}
	return nil
}

func (s *Server) handleValidateMock(c *gin.Context) {
	var cfg mock.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mock.Validate(&cfg); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (s *Server) handleMockPresets(c *gin.Context) {
	c.JSON(http.StatusOK, mock.Presets())
}

func (s *Server) handleGenerateMock(c *gin.Context) {
	var req generateMockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var toolRec *store.ToolRecord
	if req.ToolID != "" {
		rec, err := s.store.GetTool(c.Request.Context(), req.ToolID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		toolRec = rec
		if req.ToolName == "" {
			req.ToolName = rec.Name
		}
		if req.ToolDescription == "" {
			req.ToolDescription = rec.Description
		}
		if req.Parameters == nil {
			req.Parameters = rec.Parameters
		}
	}
	if strings.TrimSpace(req.ToolName) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing tool name"))
		return
	}

	provider, err := s.provider(req.Provider)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var existing *mock.Config
	if toolRec != nil {
		existing, err = decodeMockConfig(toolRec.MockConfig)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	gen := &mockgen.Generator{Provider: provider}
	res, err := gen.Generate(c.Request.Context(), &mockgen.Request{
		ToolName:              req.ToolName,
		ToolDescription:       req.ToolDescription,
		Parameters:            req.Parameters,
		ExistingMock:          existing,
		Scenarios:             req.Scenarios,
		ResponseType:          req.ResponseType,
		IncludeErrorScenarios: req.IncludeErrorScenarios,
		Prompt:                req.Prompt,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	saved := false
	if req.Save && res.Status == mockgen.StatusSuccess && toolRec != nil {
		encoded, err := encodeMockConfig(res.MockConfig)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		toolRec.MockConfig = encoded
		if err := s.store.SaveTool(c.Request.Context(), toolRec); err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		saved = true
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           res.Status,
		"mock_config":      res.MockConfig,
		"validation_error": res.ValidationError,
		"raw_output":       res.RawOutput,
		"metrics":          res.Metrics,
		"saved":            saved,
	})
}

func (s *Server) handleModelPresets(c *gin.Context) {
	c.JSON(http.StatusOK, llm.Presets())
}

// provider resolves a named provider from the registry, falling back to the
// configured default.
func (s *Server) provider(name string) (llm.Provider, error) {
	if s == nil || s.registry == nil {
		return nil, errors.New("api: no providers configured")
	}
	name = strings.TrimSpace(name)
	if name == "" && s.config != nil {
		name = strings.TrimSpace(s.config.LLM.DefaultProvider)
	}
	if name == "" {
		name = "claude"
	}
	p, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("api: provider %q not configured (available: %s)", name, strings.Join(s.registry.Names(), ", "))
	}
	return p, nil
}

func toolCallMaps(records []agent.ToolCallRecord) []map[string]any {
	if len(records) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]any{
			"name":      rec.ToolName,
			"arguments": rec.Arguments,
		})
	}
	return out
}

func decodeMockConfig(raw map[string]any) (*mock.Config, error) {
	if raw == nil {
		return nil, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("api: encode mock config: %w", err)
	}
	var cfg mock.Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("api: malformed mock config: %w", err)
	}
	return &cfg, nil
}

func encodeMockConfig(cfg *mock.Config) (map[string]any, error) {
	if cfg == nil {
		return nil, nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("api: encode mock config: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("api: decode mock config: %w", err)
	}
	return out, nil
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	respondError(c, http.StatusInternalServerError, err)
}
