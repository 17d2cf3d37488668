// Package config defines sampling configurations for generation requests.
// Presets are constructed as fresh values on every call; callers apply
// their own overrides to the returned copy, so historical config snapshots
// stored in sessions are never affected by later changes.
package config

// ModelConfig holds the sampling parameters sent with a generation request.
// A session stores the exact config used for each result, so the struct is
// fully JSON-tagged and treated as an immutable snapshot once attached.
type ModelConfig struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	NumPredict    int     `json:"num_predict"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	// ContextWindow overrides the model's default context size when set.
	ContextWindow *int `json:"context_window,omitempty"`
}

// Options renders the config as the "options" payload of an Ollama
// generate request. num_ctx is included only when a context window is set.
func (c ModelConfig) Options() map[string]any {
	opts := map[string]any{
		"temperature":    c.Temperature,
		"top_p":          c.TopP,
		"top_k":          c.TopK,
		"num_predict":    c.NumPredict,
		"repeat_penalty": c.RepeatPenalty,
	}
	if c.ContextWindow != nil {
		opts["num_ctx"] = *c.ContextWindow
	}
	return opts
}

// presetNames holds the preset names in display order.
var presetNames = []string{"balanced", "creative", "precise", "deterministic"}

// Preset returns a fresh ModelConfig for the named preset. The second
// return value is false when the name is unknown.
func Preset(name string) (ModelConfig, bool) {
	switch name {
	case "balanced":
		return ModelConfig{
			Temperature:   0.7,
			TopP:          0.9,
			TopK:          40,
			NumPredict:    500,
			RepeatPenalty: 1.1,
		}, true
	case "creative":
		return ModelConfig{
			Temperature:   0.9,
			TopP:          0.95,
			TopK:          40,
			NumPredict:    500,
			RepeatPenalty: 1.05,
		}, true
	case "precise":
		return ModelConfig{
			Temperature:   0.3,
			TopP:          0.8,
			TopK:          40,
			NumPredict:    500,
			RepeatPenalty: 1.2,
		}, true
	case "deterministic":
		return ModelConfig{
			Temperature:   0.1,
			TopP:          0.5,
			TopK:          40,
			NumPredict:    500,
			RepeatPenalty: 1.3,
		}, true
	default:
		return ModelConfig{}, false
	}
}

// PresetNames returns the available preset names in stable order.
func PresetNames() []string {
	names := make([]string, len(presetNames))
	copy(names, presetNames)
	return names
}

// Default returns the balanced preset.
func Default() ModelConfig {
	cfg, _ := Preset("balanced")
	return cfg
}

// RecommendedModels lists models known to run well on consumer hardware.
var RecommendedModels = []string{
	"llama3.1:8b",
	"llama3:8b",
	"mistral:7b",
	"phi3:medium",
	"gemma2:9b",
	"qwen2.5:7b",
}

// IntPtr returns a pointer to the given int value. Useful for setting
// ModelConfig.ContextWindow explicitly.
func IntPtr(v int) *int {
	return &v
}
