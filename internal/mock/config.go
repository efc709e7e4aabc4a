package mock

import (
	"errors"
	"fmt"
)

// Response generation modes.
const (
	ResponseStatic   = "static"
	ResponseTemplate = "template"
	ResponseDynamic  = "dynamic"
)

// Config declares how a tool's response is synthesized instead of performing
// real side effects. Callers supply it per invocation; the engine never
// mutates it.
type Config struct {
	Enabled           bool            `json:"enabled" yaml:"enabled"`
	ResponseType      string          `json:"response_type,omitempty" yaml:"response_type,omitempty"`
	StaticResponse    map[string]any  `json:"static_response,omitempty" yaml:"static_response,omitempty"`
	ResponseTemplates []Template      `json:"response_templates,omitempty" yaml:"response_templates,omitempty"`
	DynamicRules      map[string]any  `json:"dynamic_rules,omitempty" yaml:"dynamic_rules,omitempty"`
	LatencyMS         *LatencyRange   `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`
	ErrorScenarios    []ErrorScenario `json:"error_scenarios,omitempty" yaml:"error_scenarios,omitempty"`
}

// Template pairs a condition over tool arguments with a response tree.
// Condition keys starting with "_" are control flags, not argument matches;
// a template with condition {_default: true} is the fallback.
type Template struct {
	Condition map[string]any `json:"condition,omitempty" yaml:"condition,omitempty"`
	Response  map[string]any `json:"response" yaml:"response"`
}

type LatencyRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// ErrorScenario injects a synthetic failure with the given probability.
// Scenarios are independent Bernoulli trials; the first hit wins.
type ErrorScenario struct {
	Probability float64 `json:"probability" yaml:"probability"`
	Error       string  `json:"error" yaml:"error"`
	ErrorCode   string  `json:"error_code,omitempty" yaml:"error_code,omitempty"`
}

// Validate rejects malformed configs before they are persisted or used for
// generation. A nil or disabled config is valid: the engine degrades to its
// default success envelope.
func Validate(cfg *Config) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	switch cfg.ResponseType {
	case ResponseStatic:
		if cfg.StaticResponse == nil {
			return errors.New("mock: static config requires static_response")
		}
	case ResponseTemplate:
		if len(cfg.ResponseTemplates) == 0 {
			return errors.New("mock: template config requires a non-empty response_templates list")
		}
		for i, tpl := range cfg.ResponseTemplates {
			if tpl.Response == nil {
				return fmt.Errorf("mock: response_templates[%d] is missing a response", i)
			}
		}
	case ResponseDynamic:
		if cfg.DynamicRules == nil {
			return errors.New("mock: dynamic config requires dynamic_rules")
		}
	default:
		return fmt.Errorf("mock: unsupported response_type %q (want static, template or dynamic)", cfg.ResponseType)
	}

	if lat := cfg.LatencyMS; lat != nil {
		if lat.Min < 0 || lat.Max < 0 {
			return errors.New("mock: latency_ms min and max must be non-negative")
		}
		if lat.Min > lat.Max {
			return errors.New("mock: latency_ms min must not exceed max")
		}
	}

	return nil
}
