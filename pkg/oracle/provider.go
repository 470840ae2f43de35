package oracle

import (
	"fmt"
	"os"
	"strings"
)

// Provider names accepted by oracle.provider.
const (
	ProviderAuto      = "auto"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderClaude    = "claude"
	ProviderNone      = "none"
)

// Environment variables consulted for API keys.
const (
	AnthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	OpenAIAPIKeyEnv    = "OPENAI_API_KEY"
)

const (
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOllamaModel    = "llama3.2"

	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultOllamaBaseURL    = "http://localhost:11434"
)

// CallerConfig holds configuration for creating a CallFunc.
type CallerConfig struct {
	Provider string // one of the Provider constants
	Model    string // empty selects the provider default
	BaseURL  string // empty selects the provider default
	APIKey   string // explicit API key; otherwise read from the environment

	// Keys supplies keys stored with "recall auth". May be nil.
	Keys KeySource

	// ClaudeBinary overrides the CLI executed by the claude provider.
	ClaudeBinary string
}

// KeySource looks up a stored API key by provider name. An empty key means
// none is stored.
type KeySource interface {
	GetKey(provider string) (string, error)
}

// ResolveProvider turns "auto" (or an empty value) into a concrete provider:
// anthropic when an Anthropic key is stored or ANTHROPIC_API_KEY is set, else
// openai likewise, else none. The claude CLI is never chosen automatically
// since hooks already run inside a Claude Code session.
func ResolveProvider(provider string, keys KeySource) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider != "" && provider != ProviderAuto {
		return provider
	}

	switch {
	case resolveAPIKey("", keys, ProviderAnthropic, AnthropicAPIKeyEnv) != "":
		return ProviderAnthropic
	case resolveAPIKey("", keys, ProviderOpenAI, OpenAIAPIKeyEnv) != "":
		return ProviderOpenAI
	default:
		return ProviderNone
	}
}

// NewCaller creates a CallFunc for the configured provider and returns the
// resolved provider name. It returns ErrUnavailable when the provider is
// none or a hosted provider has no API key.
func NewCaller(cfg CallerConfig) (CallFunc, string, error) {
	provider := ResolveProvider(cfg.Provider, cfg.Keys)
	model := cfg.Model

	switch provider {
	case ProviderNone:
		return nil, provider, ErrUnavailable

	case ProviderAnthropic:
		apiKey := resolveAPIKey(cfg.APIKey, cfg.Keys, provider, AnthropicAPIKeyEnv)
		if apiKey == "" {
			return nil, provider, fmt.Errorf("%w: %s is not set", ErrUnavailable, AnthropicAPIKeyEnv)
		}
		if model == "" {
			model = defaultAnthropicModel
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultAnthropicBaseURL
		}
		return newAnthropicCaller(apiKey, model, baseURL), provider, nil

	case ProviderOpenAI:
		apiKey := resolveAPIKey(cfg.APIKey, cfg.Keys, provider, OpenAIAPIKeyEnv)
		if apiKey == "" {
			return nil, provider, fmt.Errorf("%w: %s is not set", ErrUnavailable, OpenAIAPIKeyEnv)
		}
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAICaller(apiKey, model, cfg.BaseURL), provider, nil

	case ProviderOllama:
		if model == "" {
			model = defaultOllamaModel
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaBaseURL
		}
		return newOllamaCaller(model, baseURL), provider, nil

	case ProviderClaude:
		binary := cfg.ClaudeBinary
		if binary == "" {
			binary = defaultClaudeBinary
		}
		return newClaudeCaller(binary, model), provider, nil

	default:
		return nil, provider, fmt.Errorf("unsupported oracle provider: %s", provider)
	}
}

// resolveAPIKey returns the first key found: explicit, then stored, then the
// environment.
func resolveAPIKey(explicit string, keys KeySource, provider, env string) string {
	if explicit != "" {
		return explicit
	}
	if keys != nil {
		if key, err := keys.GetKey(provider); err == nil && key != "" {
			return key
		}
	}
	return os.Getenv(env)
}
