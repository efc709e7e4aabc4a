package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/agent-eval/internal/config"
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedProvider returns canned results in order and records the requests
// it saw.
type scriptedProvider struct {
	results  []*llm.InvokeResult
	err      error
	requests []*llm.InvokeRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Invoke(_ context.Context, req *llm.InvokeRequest) (*llm.InvokeResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	i := len(p.requests) - 1
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	return p.results[i], nil
}

func newTestServer(t *testing.T, provider llm.Provider) (*Server, store.Store) {
	t.Helper()
	t.Setenv("AGENT_EVAL_DISABLE_AUTH", "true")

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	registry := llm.NewRegistry()
	if provider != nil {
		registry.Register(provider)
	}

	cfg := config.Default()
	cfg.LLM.DefaultProvider = "scripted"

	s, err := NewServer(cfg, st, registry)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, st
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status: got %d want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
