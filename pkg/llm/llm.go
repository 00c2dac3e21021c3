package llm

import (
	"context"
	"errors"

	"github.com/invopop/jsonschema"
)

// ErrMissingAPIKey is returned when a provider's credential is not configured.
var ErrMissingAPIKey = errors.New("API key not set")

// LLM is a chat model that answers with JSON constrained to a schema.
type LLM interface {
	// Chat sends one system turn and one user turn and returns the raw JSON reply.
	Chat(ctx context.Context, req Request) (string, error)
	// GetModel returns the model identifier requests are sent to.
	GetModel() string
	// Name returns the provider name.
	Name() string
}

// Request is a single structured-output round trip.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       *jsonschema.Schema
	Temperature  float64
	MaxTokens    int
}

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return 1024
}
