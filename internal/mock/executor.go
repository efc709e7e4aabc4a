package mock

import (
	"fmt"
	"log/slog"
	"math/rand"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/stellarlinkco/agent-eval/internal/llm"
)

const (
	defaultLatencyMinMS = 100
	defaultLatencyMaxMS = 500
)

var placeholderRe = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Executor synthesizes deterministic or randomized tool results from
// declarative configuration. It never returns an error: every tool call yields
// some structured result so downstream scoring always has data.
//
// Randomness, sleeping and the clock are injectable so tests can make
// scenarios reproducible. A zero-value Executor is not usable; construct with
// NewExecutor.
type Executor struct {
	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(time.Duration)
	now   func() time.Time
	log   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRand sets the random source used for latency sampling, error scenario
// draws and random() expressions.
func WithRand(src rand.Source) Option {
	return func(e *Executor) {
		if e == nil || src == nil {
			return
		}
		e.rng = rand.New(src)
	}
}

// WithSleep replaces the latency delay. Tests pass a no-op.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Executor) {
		if e == nil || sleep == nil {
			return
		}
		e.sleep = sleep
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if e == nil || now == nil {
			return
		}
		e.now = now
	}
}

// WithLogger sets the structured logger; defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Executor) {
		if e == nil || log == nil {
			return
		}
		e.log = log
	}
}

func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Execute simulates one tool call. A nil or disabled config yields the
// default success envelope.
func (e *Executor) Execute(toolName string, args map[string]any, cfg *Config) map[string]any {
	if args == nil {
		args = map[string]any{}
	}

	if cfg == nil || !cfg.Enabled {
		e.log.Debug("mock: no config for tool, returning default response", "tool", toolName)
		return e.defaultEnvelope(toolName, args)
	}

	e.simulateLatency(cfg)

	for _, scenario := range cfg.ErrorScenarios {
		if e.randFloat() < scenario.Probability {
			e.log.Debug("mock: error scenario triggered", "tool", toolName, "error", scenario.Error)
			return e.errorEnvelope(toolName, scenario)
		}
	}

	switch cfg.ResponseType {
	case ResponseStatic:
		return e.staticResponse(cfg, toolName)
	case ResponseTemplate:
		return e.templateResponse(cfg, toolName, args)
	case ResponseDynamic:
		return e.dynamicResponse(cfg, toolName, args)
	default:
		return e.defaultEnvelope(toolName, args)
	}
}

// BatchResult is one executed tool call from ExecuteBatch.
type BatchResult struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments"`
	Result     map[string]any `json:"result"`
}

// ExecuteBatch runs every tool call in order. Malformed argument JSON in one
// call degrades to empty arguments and the rest of the batch still executes.
func (e *Executor) ExecuteBatch(calls []llm.ToolCall, configs map[string]*Config) []BatchResult {
	out := make([]BatchResult, 0, len(calls))
	for _, call := range calls {
		args, err := llm.ParseArguments(call.Arguments)
		if err != nil {
			e.log.Warn("mock: malformed tool arguments, using empty mapping",
				"tool", call.Name, "error", err)
			args = map[string]any{}
		}

		out = append(out, BatchResult{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Arguments:  args,
			Result:     e.Execute(call.Name, args, configs[call.Name]),
		})
	}
	return out
}

func (e *Executor) simulateLatency(cfg *Config) {
	min, max := defaultLatencyMinMS, defaultLatencyMaxMS
	if lat := cfg.LatencyMS; lat != nil {
		min, max = int(lat.Min), int(lat.Max)
	}
	e.sleep(time.Duration(e.randInt(min, max)) * time.Millisecond)
}

func (e *Executor) defaultEnvelope(toolName string, args map[string]any) map[string]any {
	return map[string]any{
		"success":   true,
		"tool_name": toolName,
		"message":   fmt.Sprintf("tool %s executed (mock)", toolName),
		"data": map[string]any{
			"input_arguments": args,
			"note":            "default mock response; configure the tool's mock config to customize",
		},
		"timestamp": e.timestamp(),
	}
}

func (e *Executor) errorEnvelope(toolName string, scenario ErrorScenario) map[string]any {
	code := scenario.ErrorCode
	if code == "" {
		code = "MOCK_ERROR"
	}
	return map[string]any{
		"success":    false,
		"error":      scenario.Error,
		"error_code": code,
		"tool_name":  toolName,
		"timestamp":  e.timestamp(),
	}
}

func (e *Executor) staticResponse(cfg *Config, toolName string) map[string]any {
	out := make(map[string]any, len(cfg.StaticResponse)+3)
	for k, v := range cfg.StaticResponse {
		out[k] = v
	}
	out["tool_name"] = toolName
	out["timestamp"] = e.timestamp()
	out["_mock_mode"] = ResponseStatic
	return out
}

func (e *Executor) templateResponse(cfg *Config, toolName string, args map[string]any) map[string]any {
	var matched *Template
	for i := range cfg.ResponseTemplates {
		if matchCondition(cfg.ResponseTemplates[i].Condition, args) {
			matched = &cfg.ResponseTemplates[i]
			break
		}
	}

	if matched == nil {
		for i := range cfg.ResponseTemplates {
			if isDefault, _ := cfg.ResponseTemplates[i].Condition["_default"].(bool); isDefault {
				matched = &cfg.ResponseTemplates[i]
				break
			}
		}
	}

	if matched == nil {
		e.log.Debug("mock: no template matched, returning default response", "tool", toolName)
		return e.defaultEnvelope(toolName, args)
	}

	rendered, _ := e.render(matched.Response, args).(map[string]any)
	if rendered == nil {
		rendered = map[string]any{}
	}
	rendered["tool_name"] = toolName
	rendered["timestamp"] = e.timestamp()
	rendered["_mock_mode"] = ResponseTemplate
	return rendered
}

func (e *Executor) dynamicResponse(cfg *Config, toolName string, args map[string]any) map[string]any {
	out := map[string]any{
		"success":    true,
		"tool_name":  toolName,
		"timestamp":  e.timestamp(),
		"_mock_mode": ResponseDynamic,
	}
	for key, rule := range cfg.DynamicRules {
		out[key] = e.applyRule(rule, args)
	}
	return out
}

// matchCondition reports whether the arguments satisfy every non-control key
// of the condition: "*" matches any present value, "regex:<pattern>" must
// match at the start of the stringified value, anything else must be equal.
func matchCondition(condition map[string]any, args map[string]any) bool {
	for key, want := range condition {
		if strings.HasPrefix(key, "_") {
			continue
		}

		got, ok := args[key]
		if !ok {
			return false
		}

		if want == "*" {
			continue
		}
		if s, ok := want.(string); ok && strings.HasPrefix(s, "regex:") {
			pattern := strings.TrimPrefix(s, "regex:")
			re, err := regexp.Compile(`\A(?:` + pattern + `)`)
			if err != nil || !re.MatchString(fmt.Sprint(got)) {
				return false
			}
			continue
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// render walks the response tree: maps and lists recurse, string leaves get
// {{expr}} placeholders replaced, everything else passes through.
func (e *Executor) render(node any, args map[string]any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = e.render(child, args)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = e.render(child, args)
		}
		return out
	case string:
		return placeholderRe.ReplaceAllStringFunc(v, func(m string) string {
			inner := placeholderRe.FindStringSubmatch(m)[1]
			return fmt.Sprint(e.evalExprString(inner, args))
		})
	default:
		return node
	}
}

// applyRule resolves one dynamic rule: a bare string is an expression, a typed
// object is one of random_int, random_choice or argument, and anything else
// passes through verbatim.
func (e *Executor) applyRule(rule any, args map[string]any) any {
	switch v := rule.(type) {
	case string:
		return e.evalExprString(v, args)
	case map[string]any:
		typ, _ := v["type"].(string)
		switch typ {
		case "random_int":
			return e.randInt(intValue(v["min"], 0), intValue(v["max"], 100))
		case "random_choice":
			choices, _ := v["choices"].([]any)
			if len(choices) == 0 {
				return nil
			}
			return choices[e.randIntn(len(choices))]
		case "argument":
			key, _ := v["key"].(string)
			if val, ok := args[key]; ok {
				return val
			}
			return v["default"]
		}
	}
	return rule
}

func (e *Executor) timestamp() string {
	return e.now().Format(time.RFC3339)
}

func (e *Executor) randInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return min + e.rng.Intn(max-min+1)
}

func (e *Executor) randIntn(n int) int {
	if n <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *Executor) randFloat() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// looseEqual compares JSON-ish values, treating all numeric types as equal
// when their values are.
func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func intValue(v any, def int) int {
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return def
}
