package provider

import "fmt"

// Provider display names as used by the CLI and config.
const (
	NameGoogle     = "Google"
	NameOpenRouter = "OpenRouter"
)

const appName = "EPUB-AI-Translator"

// NewForTranslation builds a provider tuned for long-form translation.
func NewForTranslation(name, apiKey, model, systemPrompt string) (Provider, error) {
	cfg := GenerationConfig{
		SystemInstruction: systemPrompt,
		Temperature:       0.7,
		TopP:              0.9,
		TopK:              40,
	}
	return build(name, apiKey, model, cfg)
}

// NewForDictionary builds a provider tuned for structured JSON output.
func NewForDictionary(name, apiKey, model, systemPrompt string) (Provider, error) {
	cfg := GenerationConfig{
		SystemInstruction: systemPrompt,
		Temperature:       0.2,
		TopP:              0.8,
		TopK:              40,
		ResponseMIMEType:  "application/json",
	}
	return build(name, apiKey, model, cfg)
}

func build(name, apiKey, model string, cfg GenerationConfig) (Provider, error) {
	switch name {
	case NameGoogle:
		return NewGemini(apiKey, model, cfg), nil
	case NameOpenRouter:
		return NewOpenRouter(apiKey, model, appName, cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
