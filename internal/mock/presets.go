package mock

// Preset is a named starter mock configuration.
type Preset struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Template    *Config `json:"template"`
}

var presets = []Preset{
	{
		Name:        "simple_success",
		Description: "Fixed success message",
		Template: &Config{
			Enabled:      true,
			ResponseType: ResponseStatic,
			StaticResponse: map[string]any{
				"success": true,
				"message": "operation completed",
				"data":    map[string]any{},
			},
			LatencyMS: &LatencyRange{Min: 100, Max: 300},
		},
	},
	{
		Name:        "simple_error",
		Description: "Fixed error message",
		Template: &Config{
			Enabled:      true,
			ResponseType: ResponseStatic,
			StaticResponse: map[string]any{
				"success":    false,
				"error":      "operation failed",
				"error_code": "ERROR",
			},
			LatencyMS: &LatencyRange{Min: 100, Max: 300},
		},
	},
	{
		Name:        "api_simulation",
		Description: "Argument-sensitive response rendered from a template",
		Template: &Config{
			Enabled:      true,
			ResponseType: ResponseTemplate,
			ResponseTemplates: []Template{
				{
					Condition: map[string]any{"_default": true},
					Response: map[string]any{
						"success": true,
						"data": map[string]any{
							"result":    "results for {{args.query}}",
							"timestamp": "{{timestamp}}",
						},
					},
				},
			},
			LatencyMS: &LatencyRange{Min: 200, Max: 800},
		},
	},
}

// Presets lists the built-in mock config presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks up a preset template by name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
