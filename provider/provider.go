package provider

import (
	"context"
	"fmt"
)

// Supported provider identifiers.
const (
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
	ProviderGroq        = "groq"
	ProviderHuggingFace = "huggingface"
	ProviderOllama      = "ollama"
)

// Names lists the supported provider identifiers in display order.
var Names = []string{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGemini,
	ProviderGroq,
	ProviderHuggingFace,
	ProviderOllama,
}

// Config selects a provider adapter and carries the per-generation
// generation parameters. It is immutable for the duration of a generation.
type Config struct {
	Provider    string  // one of the Provider* constants
	Model       string  // provider-specific model identifier
	APIKey      string  // credential; may be empty only for ollama
	BaseURL     string  // optional endpoint override
	MaxTokens   int     // max output tokens; 0 means the adapter's default
	Temperature float64 // sampling temperature
}

// Request is one completion request: two plain-text prompts plus the
// generation parameters resolved from Config.
type Request struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Adapter is the uniform contract over the provider HTTP APIs. Complete
// returns the generated text verbatim, or one of the package error types.
// It never returns both an empty string and a nil error.
type Adapter interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the adapter selected by cfg.Provider. Selection happens once
// per generation; the returned Adapter is never re-dispatched mid-pipeline.
func New(cfg Config) (Adapter, error) {
	if cfg.Model == "" {
		return nil, &ConfigurationError{APIError{
			Provider: cfg.Provider,
			Message:  "model identifier is required",
		}}
	}
	if cfg.APIKey == "" && cfg.Provider != ProviderOllama {
		return nil, &ConfigurationError{APIError{
			Provider: cfg.Provider,
			Message:  fmt.Sprintf("an API key is required for provider %q", cfg.Provider),
		}}
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIAdapter(cfg.APIKey, cfg.BaseURL), nil
	case ProviderAnthropic:
		return newAnthropicAdapter(cfg.APIKey, cfg.BaseURL), nil
	case ProviderGemini:
		return newGeminiAdapter(cfg.APIKey, cfg.BaseURL), nil
	case ProviderGroq:
		return newGroqAdapter(cfg.APIKey, cfg.BaseURL), nil
	case ProviderHuggingFace:
		return newHuggingFaceAdapter(cfg.APIKey, cfg.BaseURL), nil
	case ProviderOllama:
		return newOllamaAdapter(cfg.BaseURL), nil
	default:
		return nil, &ConfigurationError{APIError{
			Message: fmt.Sprintf("unknown provider %q", cfg.Provider),
		}}
	}
}

// Request builds the Request for this config from a prompt pair.
func (c Config) Request(system, user string) Request {
	return Request{
		System:      system,
		User:        user,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}
