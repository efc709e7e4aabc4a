package llm

import "strings"

// ModelPreset describes a known model endpoint that can seed a model config
// without the operator typing provider details by hand.
type ModelPreset struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	BaseURL       string `json:"base_url"`
	Model         string `json:"model"`
	Description   string `json:"description,omitempty"`
	DefaultParams Params `json:"default_params"`
}

var modelPresets = []ModelPreset{
	{
		Name:          "gpt-4",
		Provider:      "openai",
		BaseURL:       "https://api.openai.com/v1",
		Model:         "gpt-4",
		Description:   "Strongest GPT-4 tier model for complex tasks",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4000},
	},
	{
		Name:          "gpt-4-turbo",
		Provider:      "openai",
		BaseURL:       "https://api.openai.com/v1",
		Model:         "gpt-4-turbo",
		Description:   "Faster and cheaper GPT-4 variant",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4000},
	},
	{
		Name:          "gpt-3.5-turbo",
		Provider:      "openai",
		BaseURL:       "https://api.openai.com/v1",
		Model:         "gpt-3.5-turbo",
		Description:   "Economical choice for most tasks",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4000},
	},
	{
		Name:          "claude-sonnet",
		Provider:      "claude",
		BaseURL:       "https://api.anthropic.com/v1",
		Model:         defaultClaudeModel,
		Description:   "Balanced Claude model for agent workloads",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4096},
	},
	{
		Name:          "claude-haiku",
		Provider:      "claude",
		BaseURL:       "https://api.anthropic.com/v1",
		Model:         "claude-haiku-4-5-20251001",
		Description:   "Fast, low-cost Claude model",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4096},
	},
	{
		Name:          "local-openai-compatible",
		Provider:      "local",
		BaseURL:       "http://localhost:8000/v1",
		Model:         "local-model",
		Description:   "Any OpenAI-compatible local endpoint (vLLM, Ollama)",
		DefaultParams: Params{Temperature: 0.7, MaxTokens: 4096},
	},
}

// Presets returns the built-in model preset catalog.
func Presets() []ModelPreset {
	out := make([]ModelPreset, len(modelPresets))
	copy(out, modelPresets)
	return out
}

// PresetByName looks up a preset by its catalog name.
func PresetByName(name string) (ModelPreset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range modelPresets {
		if p.Name == name {
			return p, true
		}
	}
	return ModelPreset{}, false
}
