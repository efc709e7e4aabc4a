package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("AGENT_EVAL_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("AGENT_EVAL_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set AGENT_EVAL_API_KEY or set AGENT_EVAL_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)

	api.GET("/tools", s.handleListTools)
	api.GET("/tools/:id", s.handleGetTool)
	api.POST("/tools", s.handleUpsertTool)
	api.DELETE("/tools/:id", s.handleDeleteTool)

	api.GET("/testcases", s.handleListTestCases)
	api.GET("/testcases/:id", s.handleGetTestCase)
	api.POST("/testcases", s.handleUpsertTestCase)
	api.DELETE("/testcases/:id", s.handleDeleteTestCase)

	api.GET("/models", s.handleListModels)
	api.GET("/models/:id", s.handleGetModel)
	api.POST("/models", s.handleUpsertModel)
	api.DELETE("/models/:id", s.handleDeleteModel)

	api.POST("/run", s.handleRun)

	api.POST("/mock/validate", s.handleValidateMock)
	api.GET("/mock/presets", s.handleMockPresets)
	api.POST("/mock/generate", s.handleGenerateMock)

	api.GET("/presets", s.handleModelPresets)

	return nil
}
