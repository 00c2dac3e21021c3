package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"

	DefaultProvider = ProviderGemini
)

// Config keys accepted by CreateLLM.
const (
	ConfigAPIKey  = "api_key"
	ConfigModel   = "model"
	ConfigBaseURL = "base_url"
)

var (
	apiKeyEnv = map[Provider][]string{
		ProviderGemini: {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
		ProviderOpenAI: {"OPENAI_API_KEY"},
		ProviderClaude: {"ANTHROPIC_API_KEY"},
	}
	modelEnv = map[Provider]string{
		ProviderGemini: "GEMINI_MODEL",
		ProviderOpenAI: "OPENAI_MODEL",
		ProviderClaude: "CLAUDE_MODEL",
	}
)

// ParseProvider normalizes a provider name. An empty name selects the default.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return DefaultProvider, nil
	case ProviderGemini, ProviderOpenAI, ProviderClaude:
		return p, nil
	case "anthropic":
		return ProviderClaude, nil
	case "google":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, claude)", name)
	}
}

// APIKeyFromEnv returns the first credential set for the provider and the
// variable names that were consulted.
func APIKeyFromEnv(p Provider) (string, []string) {
	names := apiKeyEnv[p]
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v, names
		}
	}
	return "", names
}

// ModelFromEnv returns the model override for the provider, if any.
func ModelFromEnv(p Provider) string {
	return os.Getenv(modelEnv[p])
}

// Factory creates LLM instances based on provider
type Factory struct{}

// NewFactory creates a new LLM factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLLM creates an LLM instance based on provider and configuration.
// A missing API key fails here, before any request is attempted.
func (f *Factory) CreateLLM(ctx context.Context, provider Provider, config map[string]string) (LLM, error) {
	apiKey := config[ConfigAPIKey]
	model := config[ConfigModel]
	baseURL := config[ConfigBaseURL]

	if _, ok := apiKeyEnv[provider]; ok && apiKey == "" {
		return nil, fmt.Errorf("%s: %w (set %s)", provider, ErrMissingAPIKey, strings.Join(apiKeyEnv[provider], " or "))
	}

	switch provider {
	case ProviderGemini:
		if model == "" {
			model = defaultGeminiModel
		}
		cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		g, err := newGemini(ctx, cfg, model)
		if err != nil {
			return nil, err
		}
		return g, nil

	case ProviderOpenAI:
		var opts []openaioption.RequestOption
		if baseURL != "" {
			opts = append(opts, openaioption.WithBaseURL(baseURL))
		}
		if model != "" {
			return NewOpenAIWithModel(apiKey, model, opts...), nil
		}
		return NewOpenAI(apiKey, opts...), nil

	case ProviderClaude:
		var opts []anthropicoption.RequestOption
		if baseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(baseURL))
		}
		if model != "" {
			return NewClaudeWithModel(apiKey, model, opts...), nil
		}
		return NewClaude(apiKey, opts...), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// GetAvailableProviders returns a list of available LLM providers
func (f *Factory) GetAvailableProviders() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}
}

// CreateFromEnv creates an LLM instance from environment variables.
// providerOverride wins over LLM_PROVIDER; modelOverride wins over the
// provider's model variable.
func CreateFromEnv(ctx context.Context, providerOverride, modelOverride string) (LLM, error) {
	name := providerOverride
	if name == "" {
		name = os.Getenv("LLM_PROVIDER")
	}
	provider, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}

	apiKey, _ := APIKeyFromEnv(provider)
	model := modelOverride
	if model == "" {
		model = ModelFromEnv(provider)
	}
	return NewFactory().CreateLLM(ctx, provider, map[string]string{
		ConfigAPIKey: apiKey,
		ConfigModel:  model,
	})
}
