package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/gamemaker/internal/plugin"
)

// Task identifies what a request asks the model for.
type Task int

// Request tasks.
const (
	// TaskCode asks for complete plugin source.
	TaskCode Task = iota

	// TaskSuggest asks for short description suggestions.
	TaskSuggest
)

// Request is one prompt sent to a model.
type Request struct {
	Task      Task
	Kind      plugin.Kind
	Prompt    string
	MaxTokens int
}

// Completer sends a prompt to a model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Provider names accepted by NewCompleter.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderStatic    = "static"
)

// Default models per provider.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGoogleModel    = "gemini-1.5-flash"
)

// ProviderConfig selects and configures a completer.
type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
}

// NewCompleter creates the completer named by cfg.Provider. An empty
// provider selects Static.
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderStatic {
		return NewStatic(), nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropic(cfg.APIKey, orDefault(cfg.Model, DefaultAnthropicModel)), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, orDefault(cfg.Model, DefaultOpenAIModel)), nil
	case ProviderGoogle:
		return NewGoogle(ctx, cfg.APIKey, orDefault(cfg.Model, DefaultGoogleModel))
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Provider, ErrUnknownProvider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
